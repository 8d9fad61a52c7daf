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

	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/models"
)

// DutyTeacherHandler covers the gate-duty roster, the gate passes handled
// by the teacher on shift, and the gate log itself.
type DutyTeacherHandler struct {
	duties   *mongo.Collection
	passes   *mongo.Collection
	gateLogs *mongo.Collection
	teachers *mongo.Collection
	students *mongo.Collection
}

func NewDutyTeacherHandler(client *mongo.Client, dbName string) *DutyTeacherHandler {
	db := client.Database(dbName)
	return &DutyTeacherHandler{
		duties:   db.Collection("duty_teachers"),
		passes:   db.Collection("student_permissions"),
		gateLogs: db.Collection("gate_logs"),
		teachers: db.Collection("teachers"),
		students: db.Collection("students"),
	}
}

func (h *DutyTeacherHandler) expand(ctx context.Context, duties []models.DutyTeacher) error {
	teacherIDs := make([]primitive.ObjectID, 0, len(duties))
	for _, d := range duties {
		teacherIDs = append(teacherIDs, d.Teacher)
	}

	teachers, err := fetchTeachers(ctx, h.teachers, teacherIDs)
	if err != nil {
		return err
	}

	for i := range duties {
		if t, ok := teachers[duties[i].Teacher]; ok {
			duties[i].TeacherDetail = &t
		}
	}
	return nil
}

func (h *DutyTeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if v := r.URL.Query().Get("teacher"); v != "" {
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			filter["teacher"] = id
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

	cursor, err := h.duties.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve duty schedule")
		return
	}
	defer cursor.Close(ctx)

	duties := []models.DutyTeacher{}
	if err := cursor.All(ctx, &duties); err != nil {
		respondInternal(w, err, "Error decoding duty schedule")
		return
	}

	if err := h.expand(ctx, duties); err != nil {
		respondInternal(w, err, "Failed to expand duty references")
		return
	}

	respond(w, http.StatusOK, duties, "")
}

func (h *DutyTeacherHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var duty models.DutyTeacher
	if err := h.duties.FindOne(ctx, bson.M{"_id": id}).Decode(&duty); err != nil {
		respondMongoError(w, err, "Duty entry not found", "Failed to retrieve duty entry")
		return
	}

	batch := []models.DutyTeacher{duty}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand duty references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createDutyRequest struct {
	Teacher   primitive.ObjectID `json:"teacher" validate:"required"`
	Date      time.Time          `json:"date" validate:"required"`
	Shift     models.DutyShift   `json:"shift" validate:"required,oneof=morning afternoon full_day"`
	StartTime string             `json:"start_time" validate:"required"`
	EndTime   string             `json:"end_time" validate:"required"`
	Location  string             `json:"location" validate:"required"`
	Notes     string             `json:"notes,omitempty"`
}

func (h *DutyTeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDutyRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	now := time.Now()
	day, _ := dayBounds(req.Date)
	duty := models.DutyTeacher{
		ID:        primitive.NewObjectID(),
		Teacher:   req.Teacher,
		Date:      day,
		Shift:     req.Shift,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Status:    models.DutyScheduled,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.duties.InsertOne(ctx, duty); err != nil {
		respondInternal(w, err, "Failed to create duty entry")
		return
	}

	respond(w, http.StatusCreated, duty, "Duty entry created successfully")
}

func (h *DutyTeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.DutyTeacher
	err := h.duties.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Duty entry not found", "Failed to update duty entry")
		return
	}

	respond(w, http.StatusOK, updated, "Duty entry updated successfully")
}

func (h *DutyTeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.duties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete duty entry")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Duty entry not found")
		return
	}

	respond(w, http.StatusOK, nil, "Duty entry deleted successfully")
}

type createGatePassRequest struct {
	Student          primitive.ObjectID           `json:"student" validate:"required"`
	DutyTeacher      primitive.ObjectID           `json:"duty_teacher" validate:"required"`
	PermissionType   models.StudentPermissionType `json:"permission_type" validate:"required,oneof=leave_early arrive_late skip_class emergency medical family_matter"`
	Reason           string                       `json:"reason" validate:"required"`
	StartTime        time.Time                    `json:"start_time" validate:"required"`
	EndTime          *time.Time                   `json:"end_time,omitempty"`
	ParentContact    models.ParentContactLog      `json:"parent_contact,omitempty"`
	EmergencyContact *models.GuardianContact      `json:"emergency_contact,omitempty"`
	MedicalNote      models.MedicalNote           `json:"medical_note,omitempty"`
}

func (h *DutyTeacherHandler) CreateGatePass(w http.ResponseWriter, r *http.Request) {
	var req createGatePassRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.students.FindOne(ctx, bson.M{"_id": req.Student}).Err(); err != nil {
		respondMongoError(w, err, "Student not found", "Failed to retrieve student")
		return
	}

	now := time.Now()
	pass := models.StudentPermission{
		ID:               primitive.NewObjectID(),
		Student:          req.Student,
		DutyTeacher:      req.DutyTeacher,
		PermissionType:   req.PermissionType,
		Reason:           req.Reason,
		RequestedAt:      now,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Status:           models.RequestPending,
		ParentContact:    req.ParentContact,
		EmergencyContact: req.EmergencyContact,
		MedicalNote:      req.MedicalNote,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := h.passes.InsertOne(ctx, pass); err != nil {
		respondInternal(w, err, "Failed to create gate pass")
		return
	}

	respond(w, http.StatusCreated, pass, "Gate pass created successfully")
}

func (h *DutyTeacherHandler) ListGatePasses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	for param, field := range map[string]string{
		"student": "student", "duty_teacher": "duty_teacher",
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

	cursor, err := h.passes.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve gate passes")
		return
	}
	defer cursor.Close(ctx)

	passes := []models.StudentPermission{}
	if err := cursor.All(ctx, &passes); err != nil {
		respondInternal(w, err, "Error decoding gate passes")
		return
	}

	respond(w, http.StatusOK, passes, "")
}

type decideGatePassRequest struct {
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func (h *DutyTeacherHandler) ApproveGatePass(w http.ResponseWriter, r *http.Request) {
	h.decideGatePass(w, r, models.RequestApproved, "Gate pass approved")
}

func (h *DutyTeacherHandler) RejectGatePass(w http.ResponseWriter, r *http.Request) {
	h.decideGatePass(w, r, models.RequestRejected, "Gate pass rejected")
}

// decideGatePass resolves a pending pass; the pending filter makes the
// first decision final.
func (h *DutyTeacherHandler) decideGatePass(w http.ResponseWriter, r *http.Request, status models.StudentPermissionStatus, message string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req decideGatePassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := time.Now()
	set := bson.M{
		"status":      status,
		"approved_at": now,
		"updated_at":  now,
	}
	if status == models.RequestRejected && req.RejectionReason != "" {
		set["rejection_reason"] = req.RejectionReason
	}
	if approver, ok := middleware.UserFromContext(r.Context()); ok {
		set["approved_by"] = approver.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.StudentPermission
	err := h.passes.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		if err := h.passes.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			respondError(w, http.StatusNotFound, "Gate pass not found")
			return
		}
		respondError(w, http.StatusBadRequest, "Gate pass has already been decided")
		return
	}
	if err != nil {
		respondInternal(w, err, "Failed to update gate pass")
		return
	}

	respond(w, http.StatusOK, updated, message)
}

type recordGateRequest struct {
	Direction models.GateDirection `json:"direction" validate:"required,oneof=exit return"`
	Notes     string               `json:"notes,omitempty"`
}

// RecordGate logs a student passing the gate under an approved pass and
// stamps the actual exit or return time on the pass itself.
func (h *DutyTeacherHandler) RecordGate(w http.ResponseWriter, r *http.Request) {
	passID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req recordGateRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var pass models.StudentPermission
	if err := h.passes.FindOne(ctx, bson.M{"_id": passID}).Decode(&pass); err != nil {
		respondMongoError(w, err, "Gate pass not found", "Failed to retrieve gate pass")
		return
	}
	if pass.Status != models.RequestApproved {
		respondError(w, http.StatusBadRequest, "Gate pass is not approved")
		return
	}

	now := time.Now()
	entry := models.GateLog{
		ID:         primitive.NewObjectID(),
		Permission: pass.ID,
		Student:    pass.Student,
		Direction:  req.Direction,
		RecordedAt: now,
		Notes:      req.Notes,
	}
	if recorder, ok := middleware.UserFromContext(r.Context()); ok {
		entry.RecordedBy = recorder.ID
	}

	if _, err := h.gateLogs.InsertOne(ctx, entry); err != nil {
		respondInternal(w, err, "Failed to record gate log")
		return
	}

	field := "actual_exit_time"
	if req.Direction == models.GateReturn {
		field = "actual_return_time"
	}
	_, _ = h.passes.UpdateOne(ctx, bson.M{"_id": pass.ID},
		bson.M{"$set": bson.M{field: now, "updated_at": now}})

	respond(w, http.StatusCreated, entry, "Gate log recorded successfully")
}

func (h *DutyTeacherHandler) ListGateLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	for param, field := range map[string]string{
		"student": "student", "permission": "permission",
	} {
		if v := r.URL.Query().Get(param); v != "" {
			if id, err := primitive.ObjectIDFromHex(v); err == nil {
				filter[field] = id
			}
		}
	}

	cursor, err := h.gateLogs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve gate logs")
		return
	}
	defer cursor.Close(ctx)

	logs := []models.GateLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		respondInternal(w, err, "Error decoding gate logs")
		return
	}

	respond(w, http.StatusOK, logs, "")
}
