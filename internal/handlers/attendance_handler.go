package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

type AttendanceHandler struct {
	attendance *mongo.Collection
	students   *mongo.Collection
	subjects   *mongo.Collection
}

func NewAttendanceHandler(client *mongo.Client, dbName string) *AttendanceHandler {
	db := client.Database(dbName)
	return &AttendanceHandler{
		attendance: db.Collection("attendance"),
		students:   db.Collection("students"),
		subjects:   db.Collection("subjects"),
	}
}

// dayBounds normalizes a date to its midnight-to-midnight range.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func (h *AttendanceHandler) expand(ctx context.Context, records []models.Attendance) error {
	studentIDs := make([]primitive.ObjectID, 0, len(records))
	subjectIDs := make([]primitive.ObjectID, 0, len(records))
	for _, a := range records {
		studentIDs = append(studentIDs, a.Student)
		subjectIDs = append(subjectIDs, a.Subject)
	}

	students, err := fetchStudents(ctx, h.students, studentIDs)
	if err != nil {
		return err
	}
	subjects, err := fetchSubjects(ctx, h.subjects, subjectIDs)
	if err != nil {
		return err
	}

	for i := range records {
		if s, ok := students[records[i].Student]; ok {
			records[i].StudentDetail = &s
		}
		if s, ok := subjects[records[i].Subject]; ok {
			records[i].SubjectDetail = &s
		}
	}
	return nil
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	for param, field := range map[string]string{
		"student": "student", "class": "class", "subject": "subject",
	} {
		if v := r.URL.Query().Get(param); v != "" {
			if id, err := primitive.ObjectIDFromHex(v); err == nil {
				filter[field] = id
			}
		}
	}
	if date := r.URL.Query().Get("date"); date != "" {
		if day, err := time.Parse("2006-01-02", date); err == nil {
			start, end := dayBounds(day)
			filter["date"] = bson.M{"$gte": start, "$lt": end}
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.attendance.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to retrieve attendance")
		return
	}
	defer cursor.Close(ctx)

	records := []models.Attendance{}
	if err := cursor.All(ctx, &records); err != nil {
		respondInternal(w, err, "Error decoding attendance")
		return
	}

	if err := h.expand(ctx, records); err != nil {
		respondInternal(w, err, "Failed to expand attendance references")
		return
	}

	respond(w, http.StatusOK, records, "")
}

func (h *AttendanceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var record models.Attendance
	if err := h.attendance.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		respondMongoError(w, err, "Attendance record not found", "Failed to retrieve attendance")
		return
	}

	respond(w, http.StatusOK, record, "")
}

type createAttendanceRequest struct {
	Student      primitive.ObjectID      `json:"student" validate:"required"`
	Class        primitive.ObjectID      `json:"class" validate:"required"`
	Subject      primitive.ObjectID      `json:"subject" validate:"required"`
	Teacher      primitive.ObjectID      `json:"teacher" validate:"required"`
	Date         *time.Time              `json:"date,omitempty"`
	Status       models.AttendanceStatus `json:"status" validate:"required"`
	TimeIn       *time.Time              `json:"time_in,omitempty"`
	TimeOut      *time.Time              `json:"time_out,omitempty"`
	Notes        string                  `json:"notes,omitempty"`
	MarkedBy     primitive.ObjectID      `json:"marked_by" validate:"required"`
	AcademicYear string                  `json:"academic_year" validate:"required"`
	Semester     string                  `json:"semester" validate:"required,oneof=1 2"`
}

// Create inserts one attendance record. The unique (student, date, subject)
// index rejects duplicates; the date is normalized to midnight so the index
// compares calendar days, not instants.
func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAttendanceRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	if !models.ValidAttendanceStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid attendance status")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	day, _ := dayBounds(date)

	now := time.Now()
	record := models.Attendance{
		ID:           primitive.NewObjectID(),
		Student:      req.Student,
		Class:        req.Class,
		Subject:      req.Subject,
		Teacher:      req.Teacher,
		Date:         day,
		Status:       req.Status,
		TimeIn:       req.TimeIn,
		TimeOut:      req.TimeOut,
		Notes:        req.Notes,
		MarkedBy:     req.MarkedBy,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.attendance.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Attendance already recorded for this student, date and subject")
			return
		}
		respondInternal(w, err, "Failed to record attendance")
		return
	}

	respond(w, http.StatusCreated, record, "Attendance recorded successfully")
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status  *models.AttendanceStatus `json:"status,omitempty"`
		TimeIn  *time.Time               `json:"time_in,omitempty"`
		TimeOut *time.Time               `json:"time_out,omitempty"`
		Notes   string                   `json:"notes,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Status != nil {
		if !models.ValidAttendanceStatus(*req.Status) {
			respondError(w, http.StatusBadRequest, "Invalid attendance status")
			return
		}
		set["status"] = *req.Status
	}
	if req.TimeIn != nil {
		set["time_in"] = *req.TimeIn
	}
	if req.TimeOut != nil {
		set["time_out"] = *req.TimeOut
	}
	if req.Notes != "" {
		set["notes"] = req.Notes
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Attendance
	err := h.attendance.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Attendance record not found", "Failed to update attendance")
		return
	}

	respond(w, http.StatusOK, updated, "Attendance updated successfully")
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.attendance.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete attendance")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Attendance record not found")
		return
	}

	respond(w, http.StatusOK, nil, "Attendance deleted successfully")
}
