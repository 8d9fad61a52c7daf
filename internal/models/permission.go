package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PermissionType string

const (
	PermissionKeluar PermissionType = "keluar"
	PermissionMasuk  PermissionType = "masuk"
	PermissionSakit  PermissionType = "sakit"
	PermissionIzin   PermissionType = "izin"
	PermissionAlpha  PermissionType = "alpha"
)

type PermissionStatus string

const (
	PermissionPending  PermissionStatus = "pending"
	PermissionApproved PermissionStatus = "approved"
	PermissionRejected PermissionStatus = "rejected"
)

// Permission is a student's leave/absence request. Only a pending request
// can be approved or rejected.
type Permission struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Student          primitive.ObjectID  `json:"student" bson:"student"`
	Type             PermissionType      `json:"type" bson:"type"`
	Reason           string              `json:"reason" bson:"reason"`
	StartDate        time.Time           `json:"start_date" bson:"start_date"`
	EndDate          time.Time           `json:"end_date" bson:"end_date"`
	Status           PermissionStatus    `json:"status" bson:"status"`
	Attachments      []Attachment        `json:"attachments,omitempty" bson:"attachments,omitempty"`
	ApprovedBy       *primitive.ObjectID `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt       *time.Time          `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	Notes            string              `json:"notes,omitempty" bson:"notes,omitempty"`
	EmergencyContact *GuardianContact    `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`

	// Expanded reference, attached on read only.
	StudentDetail *Student `json:"student_detail,omitempty" bson:"-"`
}
