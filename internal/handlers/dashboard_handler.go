package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

// DashboardHandler aggregates counts for the admin landing page. Nothing
// here is cached; every request recomputes from the live collections.
type DashboardHandler struct {
	students      *mongo.Collection
	teachers      *mongo.Collection
	classes       *mongo.Collection
	attendance    *mongo.Collection
	announcements *mongo.Collection
}

func NewDashboardHandler(client *mongo.Client, dbName string) *DashboardHandler {
	db := client.Database(dbName)
	return &DashboardHandler{
		students:      db.Collection("students"),
		teachers:      db.Collection("teachers"),
		classes:       db.Collection("classes"),
		attendance:    db.Collection("attendance"),
		announcements: db.Collection("announcements"),
	}
}

// attendanceRate renders present-out-of-total as a percent string with one
// decimal. Zero total yields "0.0%", never a division by zero.
func attendanceRate(present, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(present)/float64(total)*100)
}

// presentTodayFilter matches attendance records marked present for the
// given day. Late arrivals do not count toward the headline rate.
func presentTodayFilter(now time.Time) bson.M {
	start, end := dayBounds(now)
	return bson.M{
		"date":   bson.M{"$gte": start, "$lt": end},
		"status": models.StatusPresent,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	totalStudents, err := h.students.CountDocuments(ctx, bson.M{"status": models.StudentActive})
	if err != nil {
		respondInternal(w, err, "Failed to compute dashboard stats")
		return
	}
	totalTeachers, err := h.teachers.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		respondInternal(w, err, "Failed to compute dashboard stats")
		return
	}
	totalClasses, err := h.classes.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		respondInternal(w, err, "Failed to compute dashboard stats")
		return
	}

	presentToday, err := h.attendance.CountDocuments(ctx, presentTodayFilter(time.Now()))
	if err != nil {
		respondInternal(w, err, "Failed to compute dashboard stats")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"total_students":  totalStudents,
		"total_teachers":  totalTeachers,
		"total_classes":   totalClasses,
		"attendance_rate": attendanceRate(presentToday, totalStudents),
	}, "")
}

// Activities returns the latest published announcements as an activity
// feed, with a static placeholder when nothing has been posted yet.
func (h *DashboardHandler) Activities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.announcements.Find(ctx,
		bson.M{"is_published": true},
		options.Find().SetSort(bson.D{{Key: "publish_date", Value: -1}}).SetLimit(10))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve activities")
		return
	}
	defer cursor.Close(ctx)

	announcements := []models.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		respondInternal(w, err, "Error decoding activities")
		return
	}

	type activity struct {
		Title    string    `json:"title"`
		Category string    `json:"category"`
		Date     time.Time `json:"date"`
	}
	activities := make([]activity, 0, len(announcements))
	for _, a := range announcements {
		activities = append(activities, activity{
			Title:    a.Title,
			Category: a.Category,
			Date:     a.PublishDate,
		})
	}
	if len(activities) == 0 {
		activities = append(activities, activity{
			Title:    "Welcome to the school information system",
			Category: "general",
			Date:     time.Now(),
		})
	}

	respond(w, http.StatusOK, activities, "")
}

// Events returns upcoming announcement events, with a placeholder when the
// calendar is empty.
func (h *DashboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.announcements.Find(ctx,
		bson.M{
			"is_published": true,
			"event_date":   bson.M{"$gte": time.Now()},
		},
		options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}).SetLimit(10))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve events")
		return
	}
	defer cursor.Close(ctx)

	announcements := []models.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		respondInternal(w, err, "Error decoding events")
		return
	}

	type event struct {
		Title string     `json:"title"`
		Date  *time.Time `json:"date"`
	}
	events := make([]event, 0, len(announcements))
	for _, a := range announcements {
		events = append(events, event{Title: a.Title, Date: a.EventDate})
	}
	if len(events) == 0 {
		soon := time.Now().AddDate(0, 0, 7)
		events = append(events, event{Title: "No upcoming events scheduled", Date: &soon})
	}

	respond(w, http.StatusOK, events, "")
}
