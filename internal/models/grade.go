package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssessmentType string

const (
	AssessmentDaily        AssessmentType = "daily"
	AssessmentQuiz         AssessmentType = "quiz"
	AssessmentMidterm      AssessmentType = "midterm"
	AssessmentFinal        AssessmentType = "final"
	AssessmentProject      AssessmentType = "project"
	AssessmentPresentation AssessmentType = "presentation"
)

type Grade struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Student        primitive.ObjectID `json:"student" bson:"student"`
	Subject        primitive.ObjectID `json:"subject" bson:"subject"`
	Class          primitive.ObjectID `json:"class" bson:"class"`
	Teacher        primitive.ObjectID `json:"teacher" bson:"teacher"`
	AcademicYear   string             `json:"academic_year" bson:"academic_year"`
	Semester       string             `json:"semester" bson:"semester"` // "1" or "2"
	AssessmentType AssessmentType     `json:"assessment_type" bson:"assessment_type"`
	Score          float64            `json:"score" bson:"score"`
	MaxScore       float64            `json:"max_score" bson:"max_score"`
	Weight         float64            `json:"weight" bson:"weight"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	GradedBy       primitive.ObjectID `json:"graded_by" bson:"graded_by"`
	GradedAt       time.Time          `json:"graded_at" bson:"graded_at"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded references, attached on read only.
	StudentDetail *Student `json:"student_detail,omitempty" bson:"-"`
	SubjectDetail *Subject `json:"subject_detail,omitempty" bson:"-"`
}

// Percentage is derived on read; a zero MaxScore yields 0.
func (g Grade) Percentage() float64 {
	if g.MaxScore == 0 {
		return 0
	}
	return g.Score / g.MaxScore * 100
}

func (g Grade) LetterGrade() string {
	p := g.Percentage()
	switch {
	case p >= 90:
		return "A"
	case p >= 80:
		return "B"
	case p >= 70:
		return "C"
	case p >= 60:
		return "D"
	default:
		return "F"
	}
}

func (g Grade) MarshalJSON() ([]byte, error) {
	type alias Grade
	return json.Marshal(struct {
		alias
		Percentage  float64 `json:"percentage"`
		LetterGrade string  `json:"letter_grade"`
	}{
		alias:       alias(g),
		Percentage:  g.Percentage(),
		LetterGrade: g.LetterGrade(),
	})
}
