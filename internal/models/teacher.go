package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Teacher struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	TeacherID      string               `json:"teacher_id" bson:"teacher_id"`
	User           primitive.ObjectID   `json:"user" bson:"user"`
	EmployeeNumber string               `json:"employee_number,omitempty" bson:"employee_number,omitempty"`
	Subjects       []primitive.ObjectID `json:"subjects" bson:"subjects"`
	Classes        []primitive.ObjectID `json:"classes" bson:"classes"`
	DateOfHire     time.Time            `json:"date_of_hire" bson:"date_of_hire"`
	Qualification  string               `json:"qualification" bson:"qualification"`
	PhoneNumber    string               `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Address        string               `json:"address,omitempty" bson:"address,omitempty"`
	IsActive       bool                 `json:"is_active" bson:"is_active"`
	ProfilePicture string               `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	CreatedBy      primitive.ObjectID   `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`

	// Expanded reference, attached on read only.
	UserDetail *User `json:"user_detail,omitempty" bson:"-"`
}
