package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

type GradeHandler struct {
	grades   *mongo.Collection
	students *mongo.Collection
	subjects *mongo.Collection
}

func NewGradeHandler(client *mongo.Client, dbName string) *GradeHandler {
	db := client.Database(dbName)
	return &GradeHandler{
		grades:   db.Collection("grades"),
		students: db.Collection("students"),
		subjects: db.Collection("subjects"),
	}
}

func (h *GradeHandler) expand(ctx context.Context, grades []models.Grade) error {
	studentIDs := make([]primitive.ObjectID, 0, len(grades))
	subjectIDs := make([]primitive.ObjectID, 0, len(grades))
	for _, g := range grades {
		studentIDs = append(studentIDs, g.Student)
		subjectIDs = append(subjectIDs, g.Subject)
	}

	students, err := fetchStudents(ctx, h.students, studentIDs)
	if err != nil {
		return err
	}
	subjects, err := fetchSubjects(ctx, h.subjects, subjectIDs)
	if err != nil {
		return err
	}

	for i := range grades {
		if s, ok := students[grades[i].Student]; ok {
			grades[i].StudentDetail = &s
		}
		if s, ok := subjects[grades[i].Subject]; ok {
			grades[i].SubjectDetail = &s
		}
	}
	return nil
}

func (h *GradeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	for param, field := range map[string]string{
		"student": "student", "subject": "subject", "class": "class", "teacher": "teacher",
	} {
		if v := r.URL.Query().Get(param); v != "" {
			if id, err := primitive.ObjectIDFromHex(v); err == nil {
				filter[field] = id
			}
		}
	}
	if year := r.URL.Query().Get("academic_year"); year != "" {
		filter["academic_year"] = year
	}
	if semester := r.URL.Query().Get("semester"); semester != "" {
		filter["semester"] = semester
	}

	cursor, err := h.grades.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to retrieve grades")
		return
	}
	defer cursor.Close(ctx)

	grades := []models.Grade{}
	if err := cursor.All(ctx, &grades); err != nil {
		respondInternal(w, err, "Error decoding grades")
		return
	}

	if err := h.expand(ctx, grades); err != nil {
		respondInternal(w, err, "Failed to expand grade references")
		return
	}

	respond(w, http.StatusOK, grades, "")
}

func (h *GradeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var grade models.Grade
	if err := h.grades.FindOne(ctx, bson.M{"_id": id}).Decode(&grade); err != nil {
		respondMongoError(w, err, "Grade not found", "Failed to retrieve grade")
		return
	}

	batch := []models.Grade{grade}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand grade references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createGradeRequest struct {
	Student        primitive.ObjectID    `json:"student" validate:"required"`
	Subject        primitive.ObjectID    `json:"subject" validate:"required"`
	Class          primitive.ObjectID    `json:"class" validate:"required"`
	Teacher        primitive.ObjectID    `json:"teacher" validate:"required"`
	AcademicYear   string                `json:"academic_year" validate:"required"`
	Semester       string                `json:"semester" validate:"required,oneof=1 2"`
	AssessmentType models.AssessmentType `json:"assessment_type" validate:"required,oneof=daily quiz midterm final project presentation"`
	Score          float64               `json:"score" validate:"min=0,max=100"`
	MaxScore       float64               `json:"max_score,omitempty"`
	Weight         float64               `json:"weight,omitempty"`
	Description    string                `json:"description,omitempty"`
	GradedBy       primitive.ObjectID    `json:"graded_by" validate:"required"`
}

func (h *GradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGradeRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}
	if req.Score > maxScore {
		respondError(w, http.StatusBadRequest, "Score cannot exceed max score")
		return
	}
	weight := req.Weight
	if weight == 0 {
		weight = 1
	}

	now := time.Now()
	grade := models.Grade{
		ID:             primitive.NewObjectID(),
		Student:        req.Student,
		Subject:        req.Subject,
		Class:          req.Class,
		Teacher:        req.Teacher,
		AcademicYear:   req.AcademicYear,
		Semester:       req.Semester,
		AssessmentType: req.AssessmentType,
		Score:          req.Score,
		MaxScore:       maxScore,
		Weight:         weight,
		Description:    req.Description,
		GradedBy:       req.GradedBy,
		GradedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.grades.InsertOne(ctx, grade); err != nil {
		respondInternal(w, err, "Failed to create grade")
		return
	}

	respond(w, http.StatusCreated, grade, "Grade created successfully")
}

type updateGradeRequest struct {
	Score       *float64 `json:"score,omitempty"`
	MaxScore    *float64 `json:"max_score,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Description string   `json:"description,omitempty"`
}

// gradeUpdateSet merges a partial update with the stored grade. The check
// runs against the effective score and max score after the merge, so
// lowering max_score below the stored score is rejected too.
func gradeUpdateSet(current models.Grade, req updateGradeRequest) (bson.M, error) {
	set := bson.M{"updated_at": time.Now()}
	maxScore := current.MaxScore
	if req.MaxScore != nil {
		maxScore = *req.MaxScore
		set["max_score"] = maxScore
	}
	score := current.Score
	if req.Score != nil {
		score = *req.Score
		set["score"] = score
	}
	if score < 0 || score > maxScore {
		return nil, errors.New("Score must be between 0 and max score")
	}
	if req.Weight != nil {
		set["weight"] = *req.Weight
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	return set, nil
}

func (h *GradeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateGradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var current models.Grade
	if err := h.grades.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		respondMongoError(w, err, "Grade not found", "Failed to retrieve grade")
		return
	}

	set, err := gradeUpdateSet(current, req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var updated models.Grade
	err = h.grades.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Grade not found", "Failed to update grade")
		return
	}

	respond(w, http.StatusOK, updated, "Grade updated successfully")
}

func (h *GradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.grades.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete grade")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Grade not found")
		return
	}

	respond(w, http.StatusOK, nil, "Grade deleted successfully")
}
