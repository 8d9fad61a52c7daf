package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

type AssignmentHandler struct {
	assignments *mongo.Collection
	subjects    *mongo.Collection
	classes     *mongo.Collection
	teachers    *mongo.Collection
}

func NewAssignmentHandler(client *mongo.Client, dbName string) *AssignmentHandler {
	db := client.Database(dbName)
	return &AssignmentHandler{
		assignments: db.Collection("assignments"),
		subjects:    db.Collection("subjects"),
		classes:     db.Collection("classes"),
		teachers:    db.Collection("teachers"),
	}
}

func (h *AssignmentHandler) expand(ctx context.Context, assignments []models.Assignment) error {
	subjectIDs := make([]primitive.ObjectID, 0, len(assignments))
	classIDs := make([]primitive.ObjectID, 0, len(assignments))
	teacherIDs := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		subjectIDs = append(subjectIDs, a.Subject)
		classIDs = append(classIDs, a.Class)
		teacherIDs = append(teacherIDs, a.Teacher)
	}

	subjects, err := fetchSubjects(ctx, h.subjects, subjectIDs)
	if err != nil {
		return err
	}
	classes, err := fetchClasses(ctx, h.classes, classIDs)
	if err != nil {
		return err
	}
	teachers, err := fetchTeachers(ctx, h.teachers, teacherIDs)
	if err != nil {
		return err
	}

	for i := range assignments {
		if s, ok := subjects[assignments[i].Subject]; ok {
			assignments[i].SubjectDetail = &s
		}
		if c, ok := classes[assignments[i].Class]; ok {
			assignments[i].ClassDetail = &c
		}
		if t, ok := teachers[assignments[i].Teacher]; ok {
			assignments[i].TeacherDetail = &t
		}
	}
	return nil
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	for param, field := range map[string]string{
		"teacher": "teacher", "class": "class", "subject": "subject",
	} {
		if v := r.URL.Query().Get(param); v != "" {
			if id, err := primitive.ObjectIDFromHex(v); err == nil {
				filter[field] = id
			}
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	page, limit := pagination(r)

	total, err := h.assignments.CountDocuments(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to count assignments")
		return
	}

	cursor, err := h.assignments.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "due_date", Value: -1}}).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve assignments")
		return
	}
	defer cursor.Close(ctx)

	assignments := []models.Assignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		respondInternal(w, err, "Error decoding assignments")
		return
	}

	if err := h.expand(ctx, assignments); err != nil {
		respondInternal(w, err, "Failed to expand assignment references")
		return
	}

	respond(w, http.StatusOK, newListPage(assignments, total, page, limit), "")
}

func (h *AssignmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var assignment models.Assignment
	if err := h.assignments.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		respondMongoError(w, err, "Assignment not found", "Failed to retrieve assignment")
		return
	}

	batch := []models.Assignment{assignment}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand assignment references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createAssignmentRequest struct {
	Title                string                    `json:"title" validate:"required,max=200"`
	Description          string                    `json:"description" validate:"required"`
	Subject              primitive.ObjectID        `json:"subject" validate:"required"`
	Class                primitive.ObjectID        `json:"class" validate:"required"`
	Teacher              primitive.ObjectID        `json:"teacher" validate:"required"`
	AssignmentType       models.AssignmentType     `json:"assignment_type,omitempty"`
	DueDate              time.Time                 `json:"due_date" validate:"required"`
	TotalPoints          float64                   `json:"total_points,omitempty"`
	Instructions         string                    `json:"instructions,omitempty"`
	Attachments          []models.Attachment       `json:"attachments,omitempty"`
	Rubric               []models.RubricItem       `json:"rubric,omitempty"`
	AllowLateSubmissions *bool                     `json:"allow_late_submissions,omitempty"`
	LatePenalty          float64                   `json:"late_penalty,omitempty"`
	AcademicYear         string                    `json:"academic_year" validate:"required"`
	Semester             string                    `json:"semester" validate:"required,oneof=1 2"`
	Settings             models.AssignmentSettings `json:"settings,omitempty"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	assignmentType := req.AssignmentType
	if assignmentType == "" {
		assignmentType = models.AssignmentHomework
	}
	totalPoints := req.TotalPoints
	if totalPoints == 0 {
		totalPoints = 100
	}
	allowLate := true
	if req.AllowLateSubmissions != nil {
		allowLate = *req.AllowLateSubmissions
	}

	now := time.Now()
	assignment := models.Assignment{
		ID:                   primitive.NewObjectID(),
		Title:                req.Title,
		Description:          req.Description,
		Subject:              req.Subject,
		Class:                req.Class,
		Teacher:              req.Teacher,
		AssignmentType:       assignmentType,
		DueDate:              req.DueDate,
		AssignedDate:         now,
		TotalPoints:          totalPoints,
		Instructions:         req.Instructions,
		Attachments:          req.Attachments,
		Rubric:               req.Rubric,
		Submissions:          []models.Submission{},
		Status:               models.AssignmentDraft,
		AllowLateSubmissions: allowLate,
		LatePenalty:          req.LatePenalty,
		AcademicYear:         req.AcademicYear,
		Semester:             req.Semester,
		Settings:             req.Settings,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.assignments.InsertOne(ctx, assignment); err != nil {
		respondInternal(w, err, "Failed to create assignment")
		return
	}

	respond(w, http.StatusCreated, assignment, "Assignment created successfully")
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if !decodeBody(w, r, &patch) {
		return
	}

	// Submissions only change through the submit and grade endpoints.
	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "submissions")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Assignment
	err := h.assignments.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Assignment not found", "Failed to update assignment")
		return
	}

	respond(w, http.StatusOK, updated, "Assignment updated successfully")
}

type submitAssignmentRequest struct {
	Student     primitive.ObjectID  `json:"student" validate:"required"`
	Content     string              `json:"content,omitempty"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
}

// Submit records a student submission. The duplicate check and the append
// happen in one guarded update, so two concurrent submissions can never
// both land. Lateness is decided here, once, against the due date.
func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req submitAssignmentRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var assignment models.Assignment
	if err := h.assignments.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		respondMongoError(w, err, "Assignment not found", "Failed to retrieve assignment")
		return
	}

	now := time.Now()
	isLate := now.After(assignment.DueDate)
	if isLate && !assignment.AllowLateSubmissions {
		respondError(w, http.StatusBadRequest, "Late submissions are not allowed for this assignment")
		return
	}

	status := models.SubmissionSubmitted
	if isLate {
		status = models.SubmissionLate
	}
	submission := models.Submission{
		Student:     req.Student,
		SubmittedAt: now,
		Content:     req.Content,
		Attachments: req.Attachments,
		Status:      status,
		IsLate:      isLate,
	}

	if _, exists := assignment.SubmissionFor(req.Student); exists {
		if !assignment.Settings.AllowResubmission {
			respondError(w, http.StatusBadRequest, "Assignment already submitted")
			return
		}
		// Replace the previous submission in place.
		result, err := h.assignments.UpdateOne(ctx,
			bson.M{"_id": id, "submissions.student": req.Student},
			bson.M{"$set": bson.M{
				"submissions.$": submission,
				"updated_at":    now,
			}})
		if err != nil {
			respondInternal(w, err, "Failed to submit assignment")
			return
		}
		if result.MatchedCount == 0 {
			respondError(w, http.StatusBadRequest, "Assignment already submitted")
			return
		}
	} else {
		// Guarded push: only lands if no submission for this student exists.
		result, err := h.assignments.UpdateOne(ctx,
			bson.M{"_id": id, "submissions.student": bson.M{"$ne": req.Student}},
			bson.M{
				"$push": bson.M{"submissions": submission},
				"$set":  bson.M{"updated_at": now},
			})
		if err != nil {
			respondInternal(w, err, "Failed to submit assignment")
			return
		}
		if result.MatchedCount == 0 {
			respondError(w, http.StatusBadRequest, "Assignment already submitted")
			return
		}
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"is_late":      isLate,
		"submitted_at": now,
	}, "Assignment submitted successfully")
}

type gradeSubmissionRequest struct {
	Student  primitive.ObjectID `json:"student" validate:"required"`
	Score    float64            `json:"score" validate:"min=0"`
	Feedback string             `json:"feedback,omitempty"`
	GradedBy primitive.ObjectID `json:"graded_by" validate:"required"`
}

// Grade scores a submission and moves it to the graded state.
func (h *AssignmentHandler) Grade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req gradeSubmissionRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var assignment models.Assignment
	if err := h.assignments.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		respondMongoError(w, err, "Assignment not found", "Failed to retrieve assignment")
		return
	}
	if req.Score > assignment.TotalPoints {
		respondError(w, http.StatusBadRequest, "Score cannot exceed total points")
		return
	}

	now := time.Now()
	result, err := h.assignments.UpdateOne(ctx,
		bson.M{"_id": id, "submissions.student": req.Student},
		bson.M{"$set": bson.M{
			"submissions.$.score":     req.Score,
			"submissions.$.feedback":  req.Feedback,
			"submissions.$.graded_by": req.GradedBy,
			"submissions.$.graded_at": now,
			"submissions.$.status":    models.SubmissionGraded,
			"updated_at":              now,
		}})
	if err != nil {
		respondInternal(w, err, "Failed to grade assignment")
		return
	}
	if result.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "Submission not found")
		return
	}

	respond(w, http.StatusOK, nil, "Assignment graded successfully")
}

// StudentAssignments lists the assignments a student has submitted to,
// with every other student's submission filtered out.
func (h *AssignmentHandler) StudentAssignments(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["studentId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.assignments.Find(ctx,
		bson.M{"submissions.student": studentID},
		options.Find().SetSort(bson.D{{Key: "due_date", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve student assignments")
		return
	}
	defer cursor.Close(ctx)

	assignments := []models.Assignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		respondInternal(w, err, "Error decoding assignments")
		return
	}

	for i := range assignments {
		if sub, ok := assignments[i].SubmissionFor(studentID); ok {
			assignments[i].Submissions = []models.Submission{sub}
		} else {
			assignments[i].Submissions = []models.Submission{}
		}
	}

	if err := h.expand(ctx, assignments); err != nil {
		respondInternal(w, err, "Failed to expand assignment references")
		return
	}

	respond(w, http.StatusOK, assignments, "")
}

// Stats summarizes a single assignment's submissions.
func (h *AssignmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var assignment models.Assignment
	if err := h.assignments.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		respondMongoError(w, err, "Assignment not found", "Failed to retrieve assignment")
		return
	}

	var onTime, late, graded int
	for _, s := range assignment.Submissions {
		if s.IsLate {
			late++
		} else {
			onTime++
		}
		if s.Status == models.SubmissionGraded {
			graded++
		}
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"total_submissions": len(assignment.Submissions),
		"submitted_on_time": onTime,
		"late_submissions":  late,
		"graded":            graded,
		"average_score":     assignment.AverageScore(),
		"due_date":          assignment.DueDate,
		"is_overdue":        assignment.IsOverdue(),
	}, "")
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.assignments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete assignment")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Assignment not found")
		return
	}

	respond(w, http.StatusOK, nil, "Assignment deleted successfully")
}
