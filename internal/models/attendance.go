package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
	StatusSick    AttendanceStatus = "sick"
)

func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused, StatusSick:
		return true
	}
	return false
}

// Attendance is unique per (student, date, subject); the compound index in
// the database package enforces it.
type Attendance struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Student      primitive.ObjectID `json:"student" bson:"student"`
	Class        primitive.ObjectID `json:"class" bson:"class"`
	Subject      primitive.ObjectID `json:"subject" bson:"subject"`
	Teacher      primitive.ObjectID `json:"teacher" bson:"teacher"`
	Date         time.Time          `json:"date" bson:"date"`
	Status       AttendanceStatus   `json:"status" bson:"status"`
	TimeIn       *time.Time         `json:"time_in,omitempty" bson:"time_in,omitempty"`
	TimeOut      *time.Time         `json:"time_out,omitempty" bson:"time_out,omitempty"`
	Notes        string             `json:"notes,omitempty" bson:"notes,omitempty"`
	MarkedBy     primitive.ObjectID `json:"marked_by" bson:"marked_by"`
	AcademicYear string             `json:"academic_year" bson:"academic_year"`
	Semester     string             `json:"semester" bson:"semester"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded references, attached on read only.
	StudentDetail *Student `json:"student_detail,omitempty" bson:"-"`
	SubjectDetail *Subject `json:"subject_detail,omitempty" bson:"-"`
}
