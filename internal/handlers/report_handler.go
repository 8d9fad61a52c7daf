package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/models"
)

type ReportHandler struct {
	reports *mongo.Collection
}

func NewReportHandler(client *mongo.Client, dbName string) *ReportHandler {
	return &ReportHandler{reports: client.Database(dbName).Collection("reports")}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if v := r.URL.Query().Get("created_by"); v != "" {
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			filter["created_by"] = id
		}
	}

	cursor, err := h.reports.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve reports")
		return
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		respondInternal(w, err, "Error decoding reports")
		return
	}

	respond(w, http.StatusOK, reports, "")
}

func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var report models.Report
	if err := h.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		respondMongoError(w, err, "Report not found", "Failed to retrieve report")
		return
	}

	respond(w, http.StatusOK, report, "")
}

type createReportRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	now := time.Now()
	report := models.Report{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Data:        req.Data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if creator, ok := middleware.UserFromContext(r.Context()); ok {
		report.CreatedBy = creator.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.reports.InsertOne(ctx, report); err != nil {
		respondInternal(w, err, "Failed to create report")
		return
	}

	respond(w, http.StatusCreated, report, "Report created successfully")
}

func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	delete(patch, "created_by")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Report
	err := h.reports.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Report not found", "Failed to update report")
		return
	}

	respond(w, http.StatusOK, updated, "Report updated successfully")
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.reports.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete report")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Report not found")
		return
	}

	respond(w, http.StatusOK, nil, "Report deleted successfully")
}
