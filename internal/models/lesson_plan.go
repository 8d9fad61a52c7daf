package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LessonStatus string

const (
	LessonPlanned   LessonStatus = "planned"
	LessonOngoing   LessonStatus = "ongoing"
	LessonCompleted LessonStatus = "completed"
	LessonCancelled LessonStatus = "cancelled"
)

type Material struct {
	Name        string `json:"name" bson:"name"`
	Type        string `json:"type" bson:"type"` // document, video, audio, image, link
	URL         string `json:"url,omitempty" bson:"url,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Activity struct {
	Name        string `json:"name" bson:"name"`
	Duration    int    `json:"duration" bson:"duration"` // minutes
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Homework struct {
	Title       string       `json:"title,omitempty" bson:"title,omitempty"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
}

type LessonAttendance struct {
	Student primitive.ObjectID `json:"student" bson:"student"`
	Status  AttendanceStatus   `json:"status" bson:"status"`
	Notes   string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

type LessonPlan struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Subject    primitive.ObjectID `json:"subject" bson:"subject"`
	Class      primitive.ObjectID `json:"class" bson:"class"`
	Teacher    primitive.ObjectID `json:"teacher" bson:"teacher"`
	Date       time.Time          `json:"date" bson:"date"`
	StartTime  string             `json:"start_time" bson:"start_time"`
	EndTime    string             `json:"end_time" bson:"end_time"`
	Objectives []string           `json:"objectives,omitempty" bson:"objectives,omitempty"`
	Materials  []Material         `json:"materials,omitempty" bson:"materials,omitempty"`
	Activities []Activity         `json:"activities,omitempty" bson:"activities,omitempty"`
	Homework   *Homework          `json:"homework,omitempty" bson:"homework,omitempty"`
	Status     LessonStatus       `json:"status" bson:"status"`
	Attendance []LessonAttendance `json:"attendance,omitempty" bson:"attendance,omitempty"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded references, attached on read only.
	SubjectDetail *Subject `json:"subject_detail,omitempty" bson:"-"`
	ClassDetail   *Class   `json:"class_detail,omitempty" bson:"-"`
	TeacherDetail *Teacher `json:"teacher_detail,omitempty" bson:"-"`
}
