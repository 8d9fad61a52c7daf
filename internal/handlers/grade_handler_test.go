package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestGradeUpdateSetLoweringMaxBelowStoredScoreRejected(t *testing.T) {
	current := models.Grade{Score: 90, MaxScore: 100}

	_, err := gradeUpdateSet(current, updateGradeRequest{MaxScore: fptr(50)})
	assert.Error(t, err)
}

func TestGradeUpdateSetScoreAboveMaxRejected(t *testing.T) {
	current := models.Grade{Score: 50, MaxScore: 100}

	_, err := gradeUpdateSet(current, updateGradeRequest{Score: fptr(120)})
	assert.Error(t, err)

	_, err = gradeUpdateSet(current, updateGradeRequest{Score: fptr(-1)})
	assert.Error(t, err)
}

func TestGradeUpdateSetLoweringMaxWithFittingScore(t *testing.T) {
	current := models.Grade{Score: 90, MaxScore: 100}

	set, err := gradeUpdateSet(current, updateGradeRequest{Score: fptr(45), MaxScore: fptr(50)})
	require.NoError(t, err)
	assert.Equal(t, 45.0, set["score"])
	assert.Equal(t, 50.0, set["max_score"])
}

func TestGradeUpdateSetPartialPatchKeepsStoredFields(t *testing.T) {
	current := models.Grade{Score: 90, MaxScore: 100}

	set, err := gradeUpdateSet(current, updateGradeRequest{Description: "retake"})
	require.NoError(t, err)
	assert.Equal(t, "retake", set["description"])
	assert.NotContains(t, set, "score")
	assert.NotContains(t, set, "max_score")
	assert.Contains(t, set, "updated_at")
}
