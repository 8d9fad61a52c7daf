package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/models"
)

type SubjectHandler struct {
	subjects *mongo.Collection
}

func NewSubjectHandler(client *mongo.Client, dbName string) *SubjectHandler {
	return &SubjectHandler{subjects: client.Database(dbName).Collection("subjects")}
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if grade := r.URL.Query().Get("grade"); grade != "" {
		filter["grades"] = grade
	}

	cursor, err := h.subjects.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to retrieve subjects")
		return
	}
	defer cursor.Close(ctx)

	subjects := []models.Subject{}
	if err := cursor.All(ctx, &subjects); err != nil {
		respondInternal(w, err, "Error decoding subjects")
		return
	}

	respond(w, http.StatusOK, subjects, "")
}

func (h *SubjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var subject models.Subject
	if err := h.subjects.FindOne(ctx, bson.M{"_id": id}).Decode(&subject); err != nil {
		respondMongoError(w, err, "Subject not found", "Failed to retrieve subject")
		return
	}

	respond(w, http.StatusOK, subject, "")
}

type createSubjectRequest struct {
	SubjectCode   string                 `json:"subject_code" validate:"required"`
	SubjectName   string                 `json:"subject_name" validate:"required"`
	Description   string                 `json:"description,omitempty"`
	Credits       int                    `json:"credits" validate:"required,min=1,max=6"`
	Category      models.SubjectCategory `json:"category" validate:"required,oneof=core elective mandatory optional"`
	Grades        []string               `json:"grades,omitempty"`
	Department    string                 `json:"department,omitempty"`
	Prerequisites []primitive.ObjectID   `json:"prerequisites,omitempty"`
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	now := time.Now()
	subject := models.Subject{
		ID:            primitive.NewObjectID(),
		SubjectCode:   strings.ToUpper(strings.TrimSpace(req.SubjectCode)),
		SubjectName:   req.SubjectName,
		Description:   req.Description,
		Credits:       req.Credits,
		Category:      req.Category,
		Grades:        req.Grades,
		Department:    req.Department,
		Prerequisites: req.Prerequisites,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if creator, ok := middleware.UserFromContext(r.Context()); ok {
		subject.CreatedBy = creator.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.subjects.InsertOne(ctx, subject); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Subject code already exists")
			return
		}
		respondInternal(w, err, "Failed to create subject")
		return
	}

	respond(w, http.StatusCreated, subject, "Subject created successfully")
}

func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if !decodeBody(w, r, &patch) {
		return
	}

	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "created_at")
	if code, ok := patch["subject_code"].(string); ok {
		patch["subject_code"] = strings.ToUpper(strings.TrimSpace(code))
	}
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Subject
	err := h.subjects.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Subject not found", "Failed to update subject")
		return
	}

	respond(w, http.StatusOK, updated, "Subject updated successfully")
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.subjects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete subject")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Subject not found")
		return
	}

	respond(w, http.StatusOK, nil, "Subject deleted successfully")
}
