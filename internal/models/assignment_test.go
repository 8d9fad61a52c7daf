package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func f64(v float64) *float64 { return &v }

func TestAssignmentAverageScore(t *testing.T) {
	t.Run("no graded submissions", func(t *testing.T) {
		a := Assignment{Submissions: []Submission{
			{Student: primitive.NewObjectID(), Status: SubmissionSubmitted},
		}}
		assert.Equal(t, 0.0, a.AverageScore())
	})

	t.Run("only scored submissions count", func(t *testing.T) {
		a := Assignment{Submissions: []Submission{
			{Score: f64(80), Status: SubmissionGraded},
			{Score: f64(90), Status: SubmissionGraded},
			{Status: SubmissionSubmitted},
		}}
		assert.Equal(t, 85.0, a.AverageScore())
	})
}

func TestAssignmentIsOverdue(t *testing.T) {
	past := Assignment{DueDate: time.Now().Add(-time.Hour)}
	future := Assignment{DueDate: time.Now().Add(time.Hour)}
	assert.True(t, past.IsOverdue())
	assert.False(t, future.IsOverdue())
}

func TestSubmissionFor(t *testing.T) {
	alice := primitive.NewObjectID()
	a := Assignment{Submissions: []Submission{{Student: alice, IsLate: true}}}

	sub, ok := a.SubmissionFor(alice)
	assert.True(t, ok)
	assert.True(t, sub.IsLate)

	_, ok = a.SubmissionFor(primitive.NewObjectID())
	assert.False(t, ok)
}
