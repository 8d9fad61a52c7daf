package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Period struct {
	PeriodNumber int                 `json:"period_number" bson:"period_number"`
	Subject      *primitive.ObjectID `json:"subject,omitempty" bson:"subject,omitempty"`
	Teacher      *primitive.ObjectID `json:"teacher,omitempty" bson:"teacher,omitempty"`
	StartTime    string              `json:"start_time" bson:"start_time"`
	EndTime      string              `json:"end_time" bson:"end_time"`
}

type ScheduleDay struct {
	Day     string   `json:"day" bson:"day"` // monday..saturday
	Periods []Period `json:"periods" bson:"periods"`
}

type Class struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ClassName    string               `json:"class_name" bson:"class_name"`
	Grade        string               `json:"grade" bson:"grade"` // "1".."12"
	Section      string               `json:"section" bson:"section"`
	AcademicYear string               `json:"academic_year" bson:"academic_year"`
	Homeroom     *primitive.ObjectID  `json:"homeroom" bson:"homeroom"`
	Students     []primitive.ObjectID `json:"students" bson:"students"`
	MaxCapacity  int                  `json:"max_capacity" bson:"max_capacity"`
	Room         string               `json:"room,omitempty" bson:"room,omitempty"`
	Schedule     []ScheduleDay        `json:"schedule" bson:"schedule"`
	IsActive     bool                 `json:"is_active" bson:"is_active"`
	CreatedBy    primitive.ObjectID   `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`

	// Expanded reference, attached on read only.
	HomeroomDetail *Teacher `json:"homeroom_detail,omitempty" bson:"-"`
}

// CurrentStudentCount is derived from the roster, never stored.
func (c Class) CurrentStudentCount() int {
	return len(c.Students)
}

func (c Class) IsFull() bool {
	return len(c.Students) >= c.MaxCapacity
}

// MarshalJSON serializes the derived roster fields alongside the document.
func (c Class) MarshalJSON() ([]byte, error) {
	type alias Class
	return json.Marshal(struct {
		alias
		CurrentStudentCount int  `json:"current_student_count"`
		IsFull              bool `json:"is_full"`
	}{
		alias:               alias(c),
		CurrentStudentCount: c.CurrentStudentCount(),
		IsFull:              c.IsFull(),
	})
}
