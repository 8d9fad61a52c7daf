package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/stretchr/testify/assert"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

func TestAttendanceRate(t *testing.T) {
	assert.Equal(t, "0.0%", attendanceRate(0, 0))
	assert.Equal(t, "0.0%", attendanceRate(10, 0))
	assert.Equal(t, "100.0%", attendanceRate(30, 30))
	assert.Equal(t, "50.0%", attendanceRate(15, 30))
	assert.Equal(t, "33.3%", attendanceRate(1, 3))
	assert.Equal(t, "66.7%", attendanceRate(2, 3))
}

func TestPresentTodayFilterCountsOnlyPresent(t *testing.T) {
	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	filter := presentTodayFilter(noon)

	assert.Equal(t, models.StatusPresent, filter["status"])

	bounds := filter["date"].(bson.M)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), bounds["$gte"])
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), bounds["$lt"])
}
