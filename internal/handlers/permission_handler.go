package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/models"
	"github.com/idiarso4/SIM-AUG/internal/utils"
)

type PermissionHandler struct {
	permissions *mongo.Collection
	students    *mongo.Collection
	users       *mongo.Collection
	mailer      *utils.Mailer
}

func NewPermissionHandler(client *mongo.Client, dbName string, mailer *utils.Mailer) *PermissionHandler {
	db := client.Database(dbName)
	return &PermissionHandler{
		permissions: db.Collection("permissions"),
		students:    db.Collection("students"),
		users:       db.Collection("users"),
		mailer:      mailer,
	}
}

func (h *PermissionHandler) expand(ctx context.Context, permissions []models.Permission) error {
	studentIDs := make([]primitive.ObjectID, 0, len(permissions))
	for _, p := range permissions {
		studentIDs = append(studentIDs, p.Student)
	}

	students, err := fetchStudents(ctx, h.students, studentIDs)
	if err != nil {
		return err
	}

	for i := range permissions {
		if s, ok := students[permissions[i].Student]; ok {
			permissions[i].StudentDetail = &s
		}
	}
	return nil
}

func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if v := r.URL.Query().Get("student"); v != "" {
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			filter["student"] = id
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if typ := r.URL.Query().Get("type"); typ != "" {
		filter["type"] = typ
	}

	cursor, err := h.permissions.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve permissions")
		return
	}
	defer cursor.Close(ctx)

	permissions := []models.Permission{}
	if err := cursor.All(ctx, &permissions); err != nil {
		respondInternal(w, err, "Error decoding permissions")
		return
	}

	if err := h.expand(ctx, permissions); err != nil {
		respondInternal(w, err, "Failed to expand permission references")
		return
	}

	respond(w, http.StatusOK, permissions, "")
}

func (h *PermissionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var permission models.Permission
	if err := h.permissions.FindOne(ctx, bson.M{"_id": id}).Decode(&permission); err != nil {
		respondMongoError(w, err, "Permission not found", "Failed to retrieve permission")
		return
	}

	batch := []models.Permission{permission}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand permission references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createPermissionRequest struct {
	Student          primitive.ObjectID      `json:"student" validate:"required"`
	Type             models.PermissionType   `json:"type" validate:"required,oneof=keluar masuk sakit izin alpha"`
	Reason           string                  `json:"reason" validate:"required"`
	StartDate        time.Time               `json:"start_date" validate:"required"`
	EndDate          time.Time               `json:"end_date" validate:"required"`
	Attachments      []models.Attachment     `json:"attachments,omitempty"`
	EmergencyContact *models.GuardianContact `json:"emergency_contact,omitempty"`
}

func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	if req.EndDate.Before(req.StartDate) {
		respondError(w, http.StatusBadRequest, "End date must not be before start date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var student models.Student
	if err := h.students.FindOne(ctx, bson.M{"_id": req.Student}).Decode(&student); err != nil {
		respondMongoError(w, err, "Student not found", "Failed to retrieve student")
		return
	}

	now := time.Now()
	permission := models.Permission{
		ID:               primitive.NewObjectID(),
		Student:          req.Student,
		Type:             req.Type,
		Reason:           req.Reason,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Status:           models.PermissionPending,
		Attachments:      req.Attachments,
		EmergencyContact: req.EmergencyContact,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := h.permissions.InsertOne(ctx, permission); err != nil {
		respondInternal(w, err, "Failed to create permission")
		return
	}

	respond(w, http.StatusCreated, permission, "Permission request created successfully")
}

type decidePermissionRequest struct {
	Notes string `json:"notes,omitempty"`
}

func (h *PermissionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.PermissionApproved, "Permission approved", "approved")
}

func (h *PermissionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.PermissionRejected, "Permission rejected", "rejected")
}

// decide resolves a pending request. The pending filter on the update makes
// the first decision win; a second approve or reject sees zero matches.
func (h *PermissionHandler) decide(w http.ResponseWriter, r *http.Request, status models.PermissionStatus, message, verdict string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req decidePermissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	set := bson.M{
		"status":      status,
		"approved_at": now,
		"updated_at":  now,
	}
	if req.Notes != "" {
		set["notes"] = req.Notes
	}
	if approver, ok := middleware.UserFromContext(r.Context()); ok {
		set["approved_by"] = approver.ID
	}

	var updated models.Permission
	err := h.permissions.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.PermissionPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Either the request does not exist or it was already decided.
		if err := h.permissions.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			respondError(w, http.StatusNotFound, "Permission not found")
			return
		}
		respondError(w, http.StatusBadRequest, "Permission has already been decided")
		return
	}
	if err != nil {
		respondInternal(w, err, "Failed to update permission")
		return
	}

	h.notifyGuardian(ctx, updated, verdict)

	respond(w, http.StatusOK, updated, message)
}

// notifyGuardian mails the student's guardian about the decision. Delivery
// failures are logged by the mailer and never fail the request.
func (h *PermissionHandler) notifyGuardian(ctx context.Context, permission models.Permission, verdict string) {
	var student models.Student
	if err := h.students.FindOne(ctx, bson.M{"_id": permission.Student}).Decode(&student); err != nil {
		return
	}
	to := student.ParentInfo.Guardian.Email
	if permission.EmergencyContact != nil && permission.EmergencyContact.Email != "" {
		to = permission.EmergencyContact.Email
	}
	if to == "" {
		return
	}

	subject := fmt.Sprintf("Permission request %s", verdict)
	body := fmt.Sprintf(
		"<p>The %s request for %s covering %s to %s has been <b>%s</b>.</p>",
		permission.Type,
		student.StudentID,
		permission.StartDate.Format("2 Jan 2006"),
		permission.EndDate.Format("2 Jan 2006"),
		verdict,
	)
	_ = h.mailer.Send(to, subject, body)
}

func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if !decodeBody(w, r, &patch) {
		return
	}

	// Decisions go through Approve and Reject.
	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "status")
	delete(patch, "approved_by")
	delete(patch, "approved_at")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Permission
	err := h.permissions.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.PermissionPending},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(w, http.StatusBadRequest, "Only pending permissions can be edited")
		return
	}
	if err != nil {
		respondInternal(w, err, "Failed to update permission")
		return
	}

	respond(w, http.StatusOK, updated, "Permission updated successfully")
}

func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.permissions.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete permission")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Permission not found")
		return
	}

	respond(w, http.StatusOK, nil, "Permission deleted successfully")
}
