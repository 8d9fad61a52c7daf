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

type CBTHandler struct {
	tests    *mongo.Collection
	subjects *mongo.Collection
	classes  *mongo.Collection
	teachers *mongo.Collection
	students *mongo.Collection
}

func NewCBTHandler(client *mongo.Client, dbName string) *CBTHandler {
	db := client.Database(dbName)
	return &CBTHandler{
		tests:    db.Collection("cbts"),
		subjects: db.Collection("subjects"),
		classes:  db.Collection("classes"),
		teachers: db.Collection("teachers"),
		students: db.Collection("students"),
	}
}

func (h *CBTHandler) expand(ctx context.Context, tests []models.CBT) error {
	subjectIDs := make([]primitive.ObjectID, 0, len(tests))
	classIDs := make([]primitive.ObjectID, 0, len(tests))
	teacherIDs := make([]primitive.ObjectID, 0, len(tests))
	for _, t := range tests {
		subjectIDs = append(subjectIDs, t.Subject)
		classIDs = append(classIDs, t.Class)
		teacherIDs = append(teacherIDs, t.Teacher)
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

	for i := range tests {
		if s, ok := subjects[tests[i].Subject]; ok {
			tests[i].SubjectDetail = &s
		}
		if c, ok := classes[tests[i].Class]; ok {
			tests[i].ClassDetail = &c
		}
		if t, ok := teachers[tests[i].Teacher]; ok {
			tests[i].TeacherDetail = &t
		}
	}
	return nil
}

func (h *CBTHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	for param, field := range map[string]string{
		"subject": "subject", "class": "class", "teacher": "teacher",
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

	cursor, err := h.tests.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve tests")
		return
	}
	defer cursor.Close(ctx)

	tests := []models.CBT{}
	if err := cursor.All(ctx, &tests); err != nil {
		respondInternal(w, err, "Error decoding tests")
		return
	}

	if err := h.expand(ctx, tests); err != nil {
		respondInternal(w, err, "Failed to expand test references")
		return
	}

	respond(w, http.StatusOK, tests, "")
}

func (h *CBTHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var test models.CBT
	if err := h.tests.FindOne(ctx, bson.M{"_id": id}).Decode(&test); err != nil {
		respondMongoError(w, err, "Test not found", "Failed to retrieve test")
		return
	}

	batch := []models.CBT{test}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand test references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

// StudentView returns an active test with answer keys stripped, the form a
// student sees while taking the test.
func (h *CBTHandler) StudentView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var test models.CBT
	if err := h.tests.FindOne(ctx, bson.M{"_id": id}).Decode(&test); err != nil {
		respondMongoError(w, err, "Test not found", "Failed to retrieve test")
		return
	}
	if test.Status != models.TestActive {
		respondError(w, http.StatusBadRequest, "Test is not active")
		return
	}

	for i := range test.Questions {
		test.Questions[i].CorrectAnswer = ""
	}
	test.Results = nil

	respond(w, http.StatusOK, test, "")
}

type createCBTRequest struct {
	Title     string             `json:"title" validate:"required,max=200"`
	Subject   primitive.ObjectID `json:"subject" validate:"required"`
	Class     primitive.ObjectID `json:"class" validate:"required"`
	Teacher   primitive.ObjectID `json:"teacher" validate:"required"`
	Date      time.Time          `json:"date" validate:"required"`
	StartTime string             `json:"start_time" validate:"required"`
	EndTime   string             `json:"end_time" validate:"required"`
	Duration  int                `json:"duration" validate:"required,min=1"`
	Questions []models.Question  `json:"questions" validate:"required,min=1,dive"`
}

func (h *CBTHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCBTRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	var totalScore float64
	for _, q := range req.Questions {
		if q.Score <= 0 {
			respondError(w, http.StatusBadRequest, "Each question needs a positive score")
			return
		}
		totalScore += q.Score
	}

	now := time.Now()
	test := models.CBT{
		ID:         primitive.NewObjectID(),
		Title:      req.Title,
		Subject:    req.Subject,
		Class:      req.Class,
		Teacher:    req.Teacher,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Duration:   req.Duration,
		Questions:  req.Questions,
		TotalScore: totalScore,
		Status:     models.TestScheduled,
		Results:    []models.TestResult{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.tests.InsertOne(ctx, test); err != nil {
		respondInternal(w, err, "Failed to create test")
		return
	}

	respond(w, http.StatusCreated, test, "Test created successfully")
}

func (h *CBTHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if !decodeBody(w, r, &patch) {
		return
	}

	// Status moves through UpdateStatus and results through Submit only.
	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "status")
	delete(patch, "results")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var current models.CBT
	if err := h.tests.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		respondMongoError(w, err, "Test not found", "Failed to retrieve test")
		return
	}
	if current.Status != models.TestScheduled {
		respondError(w, http.StatusBadRequest, "Only scheduled tests can be edited")
		return
	}

	var updated models.CBT
	err := h.tests.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Test not found", "Failed to update test")
		return
	}

	respond(w, http.StatusOK, updated, "Test updated successfully")
}

type updateTestStatusRequest struct {
	Status models.TestStatus `json:"status" validate:"required,oneof=scheduled active completed cancelled"`
}

// UpdateStatus advances the test lifecycle, rejecting transitions the state
// machine does not allow.
func (h *CBTHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateTestStatusRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var current models.CBT
	if err := h.tests.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		respondMongoError(w, err, "Test not found", "Failed to retrieve test")
		return
	}
	if !current.Status.CanTransition(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status transition")
		return
	}

	// The status filter guards against a concurrent transition between the
	// read above and this write.
	result, err := h.tests.UpdateOne(ctx,
		bson.M{"_id": id, "status": current.Status},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}})
	if err != nil {
		respondInternal(w, err, "Failed to update test status")
		return
	}
	if result.MatchedCount == 0 {
		respondError(w, http.StatusBadRequest, "Invalid status transition")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{"status": req.Status}, "Test status updated")
}

type submitTestRequest struct {
	Student primitive.ObjectID `json:"student" validate:"required"`
	Answers []models.Answer    `json:"answers" validate:"required"`
}

// Submit scores the answers server side and appends the result with a
// guarded push, so a student can never land two results no matter how the
// requests race.
func (h *CBTHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req submitTestRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var test models.CBT
	if err := h.tests.FindOne(ctx, bson.M{"_id": id}).Decode(&test); err != nil {
		respondMongoError(w, err, "Test not found", "Failed to retrieve test")
		return
	}
	if test.Status != models.TestActive {
		respondError(w, http.StatusBadRequest, "Test is not active")
		return
	}

	result := models.TestResult{
		Student:     req.Student,
		Score:       models.ScoreAnswers(test.Questions, req.Answers),
		SubmittedAt: time.Now(),
		Answers:     req.Answers,
	}

	update, err := h.tests.UpdateOne(ctx,
		bson.M{
			"_id":             id,
			"status":          models.TestActive,
			"results.student": bson.M{"$ne": req.Student},
		},
		bson.M{
			"$push": bson.M{"results": result},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		respondInternal(w, err, "Failed to submit test")
		return
	}
	if update.MatchedCount == 0 {
		respondError(w, http.StatusBadRequest, "Test already submitted")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"score":       result.Score,
		"total_score": test.TotalScore,
	}, "Test submitted successfully")
}

// Results lists every submitted result for a test, with student details.
func (h *CBTHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var test models.CBT
	if err := h.tests.FindOne(ctx, bson.M{"_id": id}).Decode(&test); err != nil {
		respondMongoError(w, err, "Test not found", "Failed to retrieve test")
		return
	}

	studentIDs := make([]primitive.ObjectID, 0, len(test.Results))
	for _, res := range test.Results {
		studentIDs = append(studentIDs, res.Student)
	}
	students, err := fetchStudents(ctx, h.students, studentIDs)
	if err != nil {
		respondInternal(w, err, "Failed to expand result references")
		return
	}

	type resultRow struct {
		models.TestResult
		StudentDetail *models.Student `json:"student_detail,omitempty"`
	}
	rows := make([]resultRow, 0, len(test.Results))
	for _, res := range test.Results {
		row := resultRow{TestResult: res}
		if s, ok := students[res.Student]; ok {
			row.StudentDetail = &s
		}
		rows = append(rows, row)
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"test_id":     test.ID,
		"title":       test.Title,
		"total_score": test.TotalScore,
		"results":     rows,
	}, "")
}

func (h *CBTHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.tests.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete test")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Test not found")
		return
	}

	respond(w, http.StatusOK, nil, "Test deleted successfully")
}
