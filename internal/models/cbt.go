package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TestStatus string

const (
	TestScheduled TestStatus = "scheduled"
	TestActive    TestStatus = "active"
	TestCompleted TestStatus = "completed"
	TestCancelled TestStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s TestStatus) Terminal() bool {
	return s == TestCompleted || s == TestCancelled
}

// CanTransition enforces scheduled → active → completed, with cancelled
// reachable from any non-terminal state.
func (s TestStatus) CanTransition(next TestStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case TestCancelled:
		return true
	case TestActive:
		return s == TestScheduled
	case TestCompleted:
		return s == TestActive
	}
	return false
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionEssay          QuestionType = "essay"
)

type Question struct {
	Content       string       `json:"content" bson:"content"`
	Type          QuestionType `json:"type" bson:"type"`
	Options       []string     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty" bson:"correct_answer,omitempty"`
	Score         float64      `json:"score" bson:"score"`
}

type Answer struct {
	QuestionIndex int    `json:"question_index" bson:"question_index"`
	Answer        string `json:"answer" bson:"answer"`
}

type TestResult struct {
	Student     primitive.ObjectID `json:"student" bson:"student"`
	Score       float64            `json:"score" bson:"score"`
	SubmittedAt time.Time          `json:"submitted_at" bson:"submitted_at"`
	Answers     []Answer           `json:"answers" bson:"answers"`
}

type CBT struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Subject    primitive.ObjectID `json:"subject" bson:"subject"`
	Class      primitive.ObjectID `json:"class" bson:"class"`
	Teacher    primitive.ObjectID `json:"teacher" bson:"teacher"`
	Date       time.Time          `json:"date" bson:"date"`
	StartTime  string             `json:"start_time" bson:"start_time"`
	EndTime    string             `json:"end_time" bson:"end_time"`
	Duration   int                `json:"duration" bson:"duration"` // minutes
	Questions  []Question         `json:"questions" bson:"questions"`
	TotalScore float64            `json:"total_score" bson:"total_score"`
	Status     TestStatus         `json:"status" bson:"status"`
	Results    []TestResult       `json:"results" bson:"results"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded references, attached on read only.
	SubjectDetail *Subject `json:"subject_detail,omitempty" bson:"-"`
	ClassDetail   *Class   `json:"class_detail,omitempty" bson:"-"`
	TeacherDetail *Teacher `json:"teacher_detail,omitempty" bson:"-"`
}

// ScoreAnswers awards each question's point value when the submitted answer
// exactly equals the stored key. Comparison is case-sensitive with no
// partial credit; essay questions therefore score only on a literal match
// and otherwise wait for manual grading.
func ScoreAnswers(questions []Question, answers []Answer) float64 {
	var score float64
	seen := make(map[int]bool, len(answers))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) || seen[a.QuestionIndex] {
			continue
		}
		seen[a.QuestionIndex] = true
		q := questions[a.QuestionIndex]
		if q.CorrectAnswer != "" && q.CorrectAnswer == a.Answer {
			score += q.Score
		}
	}
	return score
}

// ResultFor returns the result for a student, if any.
func (t CBT) ResultFor(student primitive.ObjectID) (TestResult, bool) {
	for _, r := range t.Results {
		if r.Student == student {
			return r, true
		}
	}
	return TestResult{}, false
}
