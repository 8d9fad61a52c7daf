package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DutyShift string

const (
	ShiftMorning   DutyShift = "morning"
	ShiftAfternoon DutyShift = "afternoon"
	ShiftFullDay   DutyShift = "full_day"
)

type DutyStatus string

const (
	DutyScheduled DutyStatus = "scheduled"
	DutyActive    DutyStatus = "active"
	DutyCompleted DutyStatus = "completed"
	DutyCancelled DutyStatus = "cancelled"
)

// DutyTeacher is a gate-duty roster entry.
type DutyTeacher struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Teacher   primitive.ObjectID `json:"teacher" bson:"teacher"`
	Date      time.Time          `json:"date" bson:"date"`
	Shift     DutyShift          `json:"shift" bson:"shift"`
	StartTime string             `json:"start_time" bson:"start_time"`
	EndTime   string             `json:"end_time" bson:"end_time"`
	Location  string             `json:"location" bson:"location"`
	Status    DutyStatus         `json:"status" bson:"status"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded reference, attached on read only.
	TeacherDetail *Teacher `json:"teacher_detail,omitempty" bson:"-"`
}

type StudentPermissionType string

const (
	LeaveEarly   StudentPermissionType = "leave_early"
	ArriveLate   StudentPermissionType = "arrive_late"
	SkipClass    StudentPermissionType = "skip_class"
	Emergency    StudentPermissionType = "emergency"
	Medical      StudentPermissionType = "medical"
	FamilyMatter StudentPermissionType = "family_matter"
)

type StudentPermissionStatus string

const (
	RequestPending  StudentPermissionStatus = "pending"
	RequestApproved StudentPermissionStatus = "approved"
	RequestRejected StudentPermissionStatus = "rejected"
	RequestExpired  StudentPermissionStatus = "expired"
)

type ParentContactLog struct {
	Name        string     `json:"name,omitempty" bson:"name,omitempty"`
	Phone       string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Contacted   bool       `json:"contacted" bson:"contacted"`
	ContactedAt *time.Time `json:"contacted_at,omitempty" bson:"contacted_at,omitempty"`
}

type MedicalNote struct {
	HasNote    bool       `json:"has_note" bson:"has_note"`
	NoteURL    string     `json:"note_url,omitempty" bson:"note_url,omitempty"`
	IssuedBy   string     `json:"issued_by,omitempty" bson:"issued_by,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty" bson:"valid_until,omitempty"`
}

// StudentPermission is a gate pass handled by the duty teacher on shift.
type StudentPermission struct {
	ID               primitive.ObjectID      `json:"id" bson:"_id,omitempty"`
	Student          primitive.ObjectID      `json:"student" bson:"student"`
	DutyTeacher      primitive.ObjectID      `json:"duty_teacher" bson:"duty_teacher"`
	PermissionType   StudentPermissionType   `json:"permission_type" bson:"permission_type"`
	Reason           string                  `json:"reason" bson:"reason"`
	RequestedAt      time.Time               `json:"requested_at" bson:"requested_at"`
	StartTime        time.Time               `json:"start_time" bson:"start_time"`
	EndTime          *time.Time              `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status           StudentPermissionStatus `json:"status" bson:"status"`
	ApprovedBy       *primitive.ObjectID     `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt       *time.Time              `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	RejectionReason  string                  `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	ParentContact    ParentContactLog        `json:"parent_contact,omitempty" bson:"parent_contact,omitempty"`
	ActualExitTime   *time.Time              `json:"actual_exit_time,omitempty" bson:"actual_exit_time,omitempty"`
	ActualReturnTime *time.Time              `json:"actual_return_time,omitempty" bson:"actual_return_time,omitempty"`
	EmergencyContact *GuardianContact        `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`
	MedicalNote      MedicalNote             `json:"medical_note,omitempty" bson:"medical_note,omitempty"`
	CreatedAt        time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at" bson:"updated_at"`
}

type GateDirection string

const (
	GateExit   GateDirection = "exit"
	GateReturn GateDirection = "return"
)

// GateLog records a student passing the gate under an approved permission.
type GateLog struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Permission primitive.ObjectID `json:"permission" bson:"permission"`
	Student    primitive.ObjectID `json:"student" bson:"student"`
	Direction  GateDirection      `json:"direction" bson:"direction"`
	RecordedBy primitive.ObjectID `json:"recorded_by" bson:"recorded_by"`
	RecordedAt time.Time          `json:"recorded_at" bson:"recorded_at"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
}
