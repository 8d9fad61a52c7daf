package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubjectCategory string

const (
	SubjectCore      SubjectCategory = "core"
	SubjectElective  SubjectCategory = "elective"
	SubjectMandatory SubjectCategory = "mandatory"
	SubjectOptional  SubjectCategory = "optional"
)

type Subject struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	SubjectCode   string               `json:"subject_code" bson:"subject_code"`
	SubjectName   string               `json:"subject_name" bson:"subject_name"`
	Description   string               `json:"description,omitempty" bson:"description,omitempty"`
	Credits       int                  `json:"credits" bson:"credits"`
	Category      SubjectCategory      `json:"category" bson:"category"`
	Grades        []string             `json:"grades,omitempty" bson:"grades,omitempty"`
	Department    string               `json:"department,omitempty" bson:"department,omitempty"`
	Prerequisites []primitive.ObjectID `json:"prerequisites,omitempty" bson:"prerequisites,omitempty"`
	IsActive      bool                 `json:"is_active" bson:"is_active"`
	CreatedBy     primitive.ObjectID   `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}
