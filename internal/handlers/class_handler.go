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

type ClassHandler struct {
	client   *mongo.Client
	classes  *mongo.Collection
	students *mongo.Collection
	teachers *mongo.Collection
}

func NewClassHandler(client *mongo.Client, dbName string) *ClassHandler {
	db := client.Database(dbName)
	return &ClassHandler{
		client:   client,
		classes:  db.Collection("classes"),
		students: db.Collection("students"),
		teachers: db.Collection("teachers"),
	}
}

func (h *ClassHandler) expand(ctx context.Context, classes []models.Class) error {
	teacherIDs := make([]primitive.ObjectID, 0, len(classes))
	for _, c := range classes {
		if c.Homeroom != nil {
			teacherIDs = append(teacherIDs, *c.Homeroom)
		}
	}

	teachers, err := fetchTeachers(ctx, h.teachers, teacherIDs)
	if err != nil {
		return err
	}

	for i := range classes {
		if classes[i].Homeroom != nil {
			if t, ok := teachers[*classes[i].Homeroom]; ok {
				classes[i].HomeroomDetail = &t
			}
		}
	}
	return nil
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if grade := r.URL.Query().Get("grade"); grade != "" {
		filter["grade"] = grade
	}
	if year := r.URL.Query().Get("academic_year"); year != "" {
		filter["academic_year"] = year
	}

	cursor, err := h.classes.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to retrieve classes")
		return
	}
	defer cursor.Close(ctx)

	classes := []models.Class{}
	if err := cursor.All(ctx, &classes); err != nil {
		respondInternal(w, err, "Error decoding classes")
		return
	}

	if err := h.expand(ctx, classes); err != nil {
		respondInternal(w, err, "Failed to expand class references")
		return
	}

	respond(w, http.StatusOK, classes, "")
}

func (h *ClassHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var class models.Class
	if err := h.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&class); err != nil {
		respondMongoError(w, err, "Class not found", "Failed to retrieve class")
		return
	}

	batch := []models.Class{class}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand class references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createClassRequest struct {
	ClassName    string               `json:"class_name" validate:"required"`
	Grade        string               `json:"grade" validate:"required"`
	Section      string               `json:"section" validate:"required"`
	AcademicYear string               `json:"academic_year" validate:"required"`
	Homeroom     *primitive.ObjectID  `json:"homeroom,omitempty"`
	Students     []primitive.ObjectID `json:"students,omitempty"`
	MaxCapacity  int                  `json:"max_capacity,omitempty"`
	Room         string               `json:"room,omitempty"`
	Schedule     []models.ScheduleDay `json:"schedule,omitempty"`
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	maxCapacity := req.MaxCapacity
	if maxCapacity == 0 {
		maxCapacity = 30
	}
	students := req.Students
	if students == nil {
		students = []primitive.ObjectID{}
	}

	now := time.Now()
	class := models.Class{
		ID:           primitive.NewObjectID(),
		ClassName:    req.ClassName,
		Grade:        req.Grade,
		Section:      req.Section,
		AcademicYear: req.AcademicYear,
		Homeroom:     req.Homeroom,
		Students:     students,
		MaxCapacity:  maxCapacity,
		Room:         req.Room,
		Schedule:     req.Schedule,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if creator, ok := middleware.UserFromContext(r.Context()); ok {
		class.CreatedBy = creator.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.classes.InsertOne(ctx, class); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Class name already exists")
			return
		}
		respondInternal(w, err, "Failed to create class")
		return
	}

	if len(class.Students) > 0 {
		if err := h.syncRoster(ctx, class.ID, nil, class.Students); err != nil {
			respondInternal(w, err, "Failed to sync class roster")
			return
		}
	}

	respond(w, http.StatusCreated, class, "Class created successfully")
}

type updateClassRequest struct {
	ClassName   string               `json:"class_name,omitempty"`
	Grade       string               `json:"grade,omitempty"`
	Section     string               `json:"section,omitempty"`
	Homeroom    *primitive.ObjectID  `json:"homeroom,omitempty"`
	Students    []primitive.ObjectID `json:"students,omitempty"`
	MaxCapacity *int                 `json:"max_capacity,omitempty"`
	Room        string               `json:"room,omitempty"`
	Schedule    []models.ScheduleDay `json:"schedule,omitempty"`
	IsActive    *bool                `json:"is_active,omitempty"`
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateClassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var before models.Class
	if err := h.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&before); err != nil {
		respondMongoError(w, err, "Class not found", "Failed to retrieve class")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.ClassName != "" {
		set["class_name"] = req.ClassName
	}
	if req.Grade != "" {
		set["grade"] = req.Grade
	}
	if req.Section != "" {
		set["section"] = req.Section
	}
	if req.Homeroom != nil {
		set["homeroom"] = req.Homeroom
	}
	if req.Students != nil {
		set["students"] = req.Students
	}
	if req.MaxCapacity != nil {
		set["max_capacity"] = *req.MaxCapacity
	}
	if req.Room != "" {
		set["room"] = req.Room
	}
	if req.Schedule != nil {
		set["schedule"] = req.Schedule
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}

	var updated models.Class
	err := h.classes.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Class not found", "Failed to update class")
		return
	}

	// Keep each student's current_class in step with the roster.
	if req.Students != nil {
		if err := h.syncRoster(ctx, id, before.Students, req.Students); err != nil {
			respondInternal(w, err, "Failed to sync class roster")
			return
		}
	}

	respond(w, http.StatusOK, updated, "Class updated successfully")
}

// syncRoster rewrites student.current_class for students added to or
// removed from a roster. The writes run in a driver transaction when the
// deployment supports one; otherwise they run sequentially, accepting the
// small inconsistency window standalone MongoDB has always had here.
func (h *ClassHandler) syncRoster(ctx context.Context, classID primitive.ObjectID, before, after []primitive.ObjectID) error {
	inAfter := make(map[primitive.ObjectID]bool, len(after))
	for _, id := range after {
		inAfter[id] = true
	}
	removed := make([]primitive.ObjectID, 0)
	for _, id := range before {
		if !inAfter[id] {
			removed = append(removed, id)
		}
	}

	apply := func(ctx context.Context) error {
		if len(after) > 0 {
			if _, err := h.students.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": after}},
				bson.M{"$set": bson.M{"current_class": classID}}); err != nil {
				return err
			}
		}
		if len(removed) > 0 {
			if _, err := h.students.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": removed}, "current_class": classID},
				bson.M{"$set": bson.M{"current_class": nil}}); err != nil {
				return err
			}
		}
		return nil
	}

	session, err := h.client.StartSession()
	if err != nil {
		return apply(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, apply(sc)
	})
	if err != nil {
		// Standalone deployments reject transactions; fall back.
		return apply(ctx)
	}
	return nil
}

func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.classes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete class")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Class not found")
		return
	}

	// Detach students that still point at the deleted class.
	_, _ = h.students.UpdateMany(ctx,
		bson.M{"current_class": id},
		bson.M{"$set": bson.M{"current_class": nil}})

	respond(w, http.StatusOK, nil, "Class deleted successfully")
}
