package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
	StudentDroppedOut  StudentStatus = "dropped_out"
	StudentSuspended   StudentStatus = "suspended"
)

type ParentContact struct {
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	Occupation  string `json:"occupation,omitempty" bson:"occupation,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Email       string `json:"email,omitempty" bson:"email,omitempty"`
}

type GuardianContact struct {
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
}

type ParentInfo struct {
	Father   ParentContact   `json:"father,omitempty" bson:"father,omitempty"`
	Mother   ParentContact   `json:"mother,omitempty" bson:"mother,omitempty"`
	Guardian GuardianContact `json:"guardian,omitempty" bson:"guardian,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
	PhoneNumber  string `json:"phone_number" bson:"phone_number"`
}

type MedicalInfo struct {
	Allergies         []string `json:"allergies,omitempty" bson:"allergies,omitempty"`
	Medications       []string `json:"medications,omitempty" bson:"medications,omitempty"`
	MedicalConditions []string `json:"medical_conditions,omitempty" bson:"medical_conditions,omitempty"`
}

type Document struct {
	Name       string    `json:"name" bson:"name"`
	URL        string    `json:"url" bson:"url"`
	UploadDate time.Time `json:"upload_date" bson:"upload_date"`
}

type Student struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	StudentID        string              `json:"student_id" bson:"student_id"`
	User             primitive.ObjectID  `json:"user" bson:"user"`
	NISN             string              `json:"nisn,omitempty" bson:"nisn,omitempty"`
	DateOfBirth      time.Time           `json:"date_of_birth" bson:"date_of_birth"`
	Gender           string              `json:"gender" bson:"gender"`
	BloodType        string              `json:"blood_type,omitempty" bson:"blood_type,omitempty"`
	Religion         string              `json:"religion" bson:"religion"`
	Nationality      string              `json:"nationality" bson:"nationality"`
	CurrentClass     *primitive.ObjectID `json:"current_class" bson:"current_class"`
	ParentInfo       ParentInfo          `json:"parent_info,omitempty" bson:"parent_info,omitempty"`
	EmergencyContact EmergencyContact    `json:"emergency_contact" bson:"emergency_contact"`
	MedicalInfo      MedicalInfo         `json:"medical_info,omitempty" bson:"medical_info,omitempty"`
	EnrollmentDate   time.Time           `json:"enrollment_date" bson:"enrollment_date"`
	GraduationDate   *time.Time          `json:"graduation_date,omitempty" bson:"graduation_date,omitempty"`
	Status           StudentStatus       `json:"status" bson:"status"`
	Documents        []Document          `json:"documents,omitempty" bson:"documents,omitempty"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`

	// Expanded references, attached on read only.
	UserDetail  *User  `json:"user_detail,omitempty" bson:"-"`
	ClassDetail *Class `json:"class_detail,omitempty" bson:"-"`
}
