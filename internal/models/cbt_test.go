package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestScoreAnswers(t *testing.T) {
	questions := []Question{
		{Content: "2+2", Type: QuestionMultipleChoice, Options: []string{"3", "4"}, CorrectAnswer: "4", Score: 10},
		{Content: "Capital of France", Type: QuestionMultipleChoice, CorrectAnswer: "Paris", Score: 5},
		{Content: "Explain photosynthesis", Type: QuestionEssay, Score: 20},
	}

	t.Run("exact matches score", func(t *testing.T) {
		score := ScoreAnswers(questions, []Answer{
			{QuestionIndex: 0, Answer: "4"},
			{QuestionIndex: 1, Answer: "Paris"},
		})
		assert.Equal(t, 15.0, score)
	})

	t.Run("comparison is case sensitive", func(t *testing.T) {
		score := ScoreAnswers(questions, []Answer{
			{QuestionIndex: 1, Answer: "paris"},
		})
		assert.Equal(t, 0.0, score)
	})

	t.Run("empty answer key never matches", func(t *testing.T) {
		score := ScoreAnswers(questions, []Answer{
			{QuestionIndex: 2, Answer: ""},
			{QuestionIndex: 2, Answer: "anything"},
		})
		assert.Equal(t, 0.0, score)
	})

	t.Run("out of range indexes are ignored", func(t *testing.T) {
		score := ScoreAnswers(questions, []Answer{
			{QuestionIndex: -1, Answer: "4"},
			{QuestionIndex: 3, Answer: "4"},
		})
		assert.Equal(t, 0.0, score)
	})

	t.Run("duplicate answers count once", func(t *testing.T) {
		score := ScoreAnswers(questions, []Answer{
			{QuestionIndex: 0, Answer: "4"},
			{QuestionIndex: 0, Answer: "4"},
			{QuestionIndex: 0, Answer: "4"},
		})
		assert.Equal(t, 10.0, score)
	})

	t.Run("score never exceeds total", func(t *testing.T) {
		var total float64
		for _, q := range questions {
			total += q.Score
		}
		answers := []Answer{
			{QuestionIndex: 0, Answer: "4"},
			{QuestionIndex: 0, Answer: "4"},
			{QuestionIndex: 1, Answer: "Paris"},
			{QuestionIndex: 1, Answer: "Paris"},
			{QuestionIndex: 2, Answer: "x"},
		}
		assert.LessOrEqual(t, ScoreAnswers(questions, answers), total)
	})

	t.Run("no answers scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ScoreAnswers(questions, nil))
	})
}

func TestTestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TestStatus
		to      TestStatus
		allowed bool
	}{
		{TestScheduled, TestActive, true},
		{TestScheduled, TestCancelled, true},
		{TestScheduled, TestCompleted, false},
		{TestActive, TestCompleted, true},
		{TestActive, TestCancelled, true},
		{TestActive, TestScheduled, false},
		{TestCompleted, TestActive, false},
		{TestCompleted, TestCancelled, false},
		{TestCancelled, TestActive, false},
		{TestCancelled, TestScheduled, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTestStatusTerminal(t *testing.T) {
	assert.False(t, TestScheduled.Terminal())
	assert.False(t, TestActive.Terminal())
	assert.True(t, TestCompleted.Terminal())
	assert.True(t, TestCancelled.Terminal())
}

func TestResultFor(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	test := CBT{Results: []TestResult{{Student: alice, Score: 42}}}

	got, ok := test.ResultFor(alice)
	assert.True(t, ok)
	assert.Equal(t, 42.0, got.Score)

	_, ok = test.ResultFor(bob)
	assert.False(t, ok)
}
