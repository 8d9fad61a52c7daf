package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentType string

const (
	AssignmentHomework     AssignmentType = "homework"
	AssignmentProject      AssignmentType = "project"
	AssignmentEssay        AssignmentType = "essay"
	AssignmentResearch     AssignmentType = "research"
	AssignmentPresentation AssignmentType = "presentation"
	AssignmentLab          AssignmentType = "lab"
	AssignmentQuiz         AssignmentType = "quiz"
)

type AssignmentStatus string

const (
	AssignmentDraft     AssignmentStatus = "draft"
	AssignmentPublished AssignmentStatus = "published"
	AssignmentClosed    AssignmentStatus = "closed"
	AssignmentArchived  AssignmentStatus = "archived"
)

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionLate      SubmissionStatus = "late"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionReturned  SubmissionStatus = "returned"
)

type Attachment struct {
	Filename   string    `json:"filename" bson:"filename"`
	URL        string    `json:"url" bson:"url"`
	FileType   string    `json:"file_type,omitempty" bson:"file_type,omitempty"`
	FileSize   int64     `json:"file_size,omitempty" bson:"file_size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at,omitempty" bson:"uploaded_at,omitempty"`
}

type RubricItem struct {
	Criteria    string  `json:"criteria" bson:"criteria"`
	MaxPoints   float64 `json:"max_points" bson:"max_points"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

// Submission lateness is fixed once at submission time against the
// assignment due date and never re-evaluated.
type Submission struct {
	Student     primitive.ObjectID  `json:"student" bson:"student"`
	SubmittedAt time.Time           `json:"submitted_at" bson:"submitted_at"`
	Content     string              `json:"content,omitempty" bson:"content,omitempty"`
	Attachments []Attachment        `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Score       *float64            `json:"score,omitempty" bson:"score,omitempty"`
	Feedback    string              `json:"feedback,omitempty" bson:"feedback,omitempty"`
	GradedAt    *time.Time          `json:"graded_at,omitempty" bson:"graded_at,omitempty"`
	GradedBy    *primitive.ObjectID `json:"graded_by,omitempty" bson:"graded_by,omitempty"`
	Status      SubmissionStatus    `json:"status" bson:"status"`
	IsLate      bool                `json:"is_late" bson:"is_late"`
}

type AssignmentSettings struct {
	AllowResubmission  bool     `json:"allow_resubmission" bson:"allow_resubmission"`
	ShowScoreToStudent bool     `json:"show_score_to_students" bson:"show_score_to_students"`
	RequireFileUpload  bool     `json:"require_file_upload" bson:"require_file_upload"`
	MaxFileSize        int      `json:"max_file_size" bson:"max_file_size"` // MB
	AllowedFileTypes   []string `json:"allowed_file_types,omitempty" bson:"allowed_file_types,omitempty"`
}

type Assignment struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title                string             `json:"title" bson:"title"`
	Description          string             `json:"description" bson:"description"`
	Subject              primitive.ObjectID `json:"subject" bson:"subject"`
	Class                primitive.ObjectID `json:"class" bson:"class"`
	Teacher              primitive.ObjectID `json:"teacher" bson:"teacher"`
	AssignmentType       AssignmentType     `json:"assignment_type" bson:"assignment_type"`
	DueDate              time.Time          `json:"due_date" bson:"due_date"`
	AssignedDate         time.Time          `json:"assigned_date" bson:"assigned_date"`
	TotalPoints          float64            `json:"total_points" bson:"total_points"`
	Instructions         string             `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Attachments          []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Rubric               []RubricItem       `json:"rubric,omitempty" bson:"rubric,omitempty"`
	Submissions          []Submission       `json:"submissions" bson:"submissions"`
	Status               AssignmentStatus   `json:"status" bson:"status"`
	AllowLateSubmissions bool               `json:"allow_late_submissions" bson:"allow_late_submissions"`
	LatePenalty          float64            `json:"late_penalty" bson:"late_penalty"`
	AcademicYear         string             `json:"academic_year" bson:"academic_year"`
	Semester             string             `json:"semester" bson:"semester"`
	Settings             AssignmentSettings `json:"settings" bson:"settings"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded references, attached on read only.
	SubjectDetail *Subject `json:"subject_detail,omitempty" bson:"-"`
	ClassDetail   *Class   `json:"class_detail,omitempty" bson:"-"`
	TeacherDetail *Teacher `json:"teacher_detail,omitempty" bson:"-"`
}

func (a Assignment) SubmissionCount() int {
	return len(a.Submissions)
}

// AverageScore covers graded submissions only; 0 when none are graded.
func (a Assignment) AverageScore() float64 {
	var sum float64
	var n int
	for _, s := range a.Submissions {
		if s.Score != nil {
			sum += *s.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (a Assignment) IsOverdue() bool {
	return a.DueDate.Before(time.Now())
}

// SubmissionFor returns the submission for a student, if any.
func (a Assignment) SubmissionFor(student primitive.ObjectID) (Submission, bool) {
	for _, s := range a.Submissions {
		if s.Student == student {
			return s, true
		}
	}
	return Submission{}, false
}

func (a Assignment) MarshalJSON() ([]byte, error) {
	type alias Assignment
	return json.Marshal(struct {
		alias
		SubmissionCount int     `json:"submission_count"`
		AverageScore    float64 `json:"average_score"`
		IsOverdue       bool    `json:"is_overdue"`
	}{
		alias:           alias(a),
		SubmissionCount: a.SubmissionCount(),
		AverageScore:    a.AverageScore(),
		IsOverdue:       a.IsOverdue(),
	})
}
