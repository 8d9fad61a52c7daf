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
	"github.com/idiarso4/SIM-AUG/internal/utils"
)

type TeacherHandler struct {
	db       *mongo.Database
	teachers *mongo.Collection
	users    *mongo.Collection
}

func NewTeacherHandler(client *mongo.Client, dbName string) *TeacherHandler {
	db := client.Database(dbName)
	return &TeacherHandler{
		db:       db,
		teachers: db.Collection("teachers"),
		users:    db.Collection("users"),
	}
}

func (h *TeacherHandler) expand(ctx context.Context, teachers []models.Teacher) error {
	userIDs := make([]primitive.ObjectID, 0, len(teachers))
	for _, t := range teachers {
		userIDs = append(userIDs, t.User)
	}

	users, err := fetchUsers(ctx, h.users, userIDs)
	if err != nil {
		return err
	}

	for i := range teachers {
		if u, ok := users[teachers[i].User]; ok {
			teachers[i].UserDetail = &u
		}
	}
	return nil
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if active := r.URL.Query().Get("is_active"); active != "" {
		filter["is_active"] = active == "true"
	}
	if subject := r.URL.Query().Get("subject"); subject != "" {
		if subjectID, err := primitive.ObjectIDFromHex(subject); err == nil {
			filter["subjects"] = subjectID
		}
	}

	cursor, err := h.teachers.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to retrieve teachers")
		return
	}
	defer cursor.Close(ctx)

	teachers := []models.Teacher{}
	if err := cursor.All(ctx, &teachers); err != nil {
		respondInternal(w, err, "Error decoding teachers")
		return
	}

	if err := h.expand(ctx, teachers); err != nil {
		respondInternal(w, err, "Failed to expand teacher references")
		return
	}

	respond(w, http.StatusOK, teachers, "")
}

func (h *TeacherHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var teacher models.Teacher
	if err := h.teachers.FindOne(ctx, bson.M{"_id": id}).Decode(&teacher); err != nil {
		respondMongoError(w, err, "Teacher not found", "Failed to retrieve teacher")
		return
	}

	batch := []models.Teacher{teacher}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand teacher references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createTeacherRequest struct {
	User           primitive.ObjectID   `json:"user" validate:"required"`
	EmployeeNumber string               `json:"employee_number,omitempty"`
	Subjects       []primitive.ObjectID `json:"subjects,omitempty"`
	Classes        []primitive.ObjectID `json:"classes,omitempty"`
	DateOfHire     time.Time            `json:"date_of_hire" validate:"required"`
	Qualification  string               `json:"qualification" validate:"required"`
	PhoneNumber    string               `json:"phone_number,omitempty"`
	Address        string               `json:"address,omitempty"`
	TeacherID      string               `json:"teacher_id,omitempty"`
}

func (h *TeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTeacherRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var owner models.User
	if err := h.users.FindOne(ctx, bson.M{"_id": req.User}).Decode(&owner); err != nil {
		respondMongoError(w, err, "User not found", "Failed to check user")
		return
	}

	teacherID := req.TeacherID
	if teacherID == "" {
		generated, err := utils.NextTeacherID(ctx, h.db)
		if err != nil {
			respondInternal(w, err, "Failed to generate teacher ID")
			return
		}
		teacherID = generated
	}

	now := time.Now()
	teacher := models.Teacher{
		ID:             primitive.NewObjectID(),
		TeacherID:      teacherID,
		User:           req.User,
		EmployeeNumber: req.EmployeeNumber,
		Subjects:       req.Subjects,
		Classes:        req.Classes,
		DateOfHire:     req.DateOfHire,
		Qualification:  req.Qualification,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if creator, ok := middleware.UserFromContext(r.Context()); ok {
		teacher.CreatedBy = creator.ID
	}

	if _, err := h.teachers.InsertOne(ctx, teacher); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Teacher ID or employee number already exists")
			return
		}
		respondInternal(w, err, "Failed to create teacher")
		return
	}

	respond(w, http.StatusCreated, teacher, "Teacher created successfully")
}

func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	delete(patch, "teacher_id")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Teacher
	err := h.teachers.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Teacher not found", "Failed to update teacher")
		return
	}

	respond(w, http.StatusOK, updated, "Teacher updated successfully")
}

func (h *TeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.teachers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete teacher")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Teacher not found")
		return
	}

	respond(w, http.StatusOK, nil, "Teacher deleted successfully")
}
