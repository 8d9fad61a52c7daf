package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradePercentage(t *testing.T) {
	assert.Equal(t, 85.0, Grade{Score: 85, MaxScore: 100}.Percentage())
	assert.Equal(t, 50.0, Grade{Score: 10, MaxScore: 20}.Percentage())
	assert.Equal(t, 0.0, Grade{Score: 10, MaxScore: 0}.Percentage())
}

func TestGradeLetterGrade(t *testing.T) {
	cases := []struct {
		score  float64
		letter string
	}{
		{95, "A"},
		{90, "A"},
		{89.9, "B"},
		{80, "B"},
		{75, "C"},
		{65, "D"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, c := range cases {
		g := Grade{Score: c.score, MaxScore: 100}
		assert.Equal(t, c.letter, g.LetterGrade(), "score %v", c.score)
	}
}

func TestGradeMarshalDerivedFields(t *testing.T) {
	data, err := json.Marshal(Grade{Score: 45, MaxScore: 50})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 90.0, out["percentage"])
	assert.Equal(t, "A", out["letter_grade"])
}
