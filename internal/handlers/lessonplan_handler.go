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

type LessonPlanHandler struct {
	lessonPlans *mongo.Collection
	subjects    *mongo.Collection
	classes     *mongo.Collection
	teachers    *mongo.Collection
}

func NewLessonPlanHandler(client *mongo.Client, dbName string) *LessonPlanHandler {
	db := client.Database(dbName)
	return &LessonPlanHandler{
		lessonPlans: db.Collection("lesson_plans"),
		subjects:    db.Collection("subjects"),
		classes:     db.Collection("classes"),
		teachers:    db.Collection("teachers"),
	}
}

func (h *LessonPlanHandler) expand(ctx context.Context, plans []models.LessonPlan) error {
	subjectIDs := make([]primitive.ObjectID, 0, len(plans))
	classIDs := make([]primitive.ObjectID, 0, len(plans))
	teacherIDs := make([]primitive.ObjectID, 0, len(plans))
	for _, p := range plans {
		subjectIDs = append(subjectIDs, p.Subject)
		classIDs = append(classIDs, p.Class)
		teacherIDs = append(teacherIDs, p.Teacher)
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

	for i := range plans {
		if s, ok := subjects[plans[i].Subject]; ok {
			plans[i].SubjectDetail = &s
		}
		if c, ok := classes[plans[i].Class]; ok {
			plans[i].ClassDetail = &c
		}
		if t, ok := teachers[plans[i].Teacher]; ok {
			plans[i].TeacherDetail = &t
		}
	}
	return nil
}

func (h *LessonPlanHandler) List(w http.ResponseWriter, r *http.Request) {
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
	if date := r.URL.Query().Get("date"); date != "" {
		if day, err := time.Parse("2006-01-02", date); err == nil {
			start, end := dayBounds(day)
			filter["date"] = bson.M{"$gte": start, "$lt": end}
		}
	}

	cursor, err := h.lessonPlans.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve lesson plans")
		return
	}
	defer cursor.Close(ctx)

	plans := []models.LessonPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		respondInternal(w, err, "Error decoding lesson plans")
		return
	}

	if err := h.expand(ctx, plans); err != nil {
		respondInternal(w, err, "Failed to expand lesson plan references")
		return
	}

	respond(w, http.StatusOK, plans, "")
}

func (h *LessonPlanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var plan models.LessonPlan
	if err := h.lessonPlans.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		respondMongoError(w, err, "Lesson plan not found", "Failed to retrieve lesson plan")
		return
	}

	batch := []models.LessonPlan{plan}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand lesson plan references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createLessonPlanRequest struct {
	Title      string             `json:"title" validate:"required,max=200"`
	Subject    primitive.ObjectID `json:"subject" validate:"required"`
	Class      primitive.ObjectID `json:"class" validate:"required"`
	Teacher    primitive.ObjectID `json:"teacher" validate:"required"`
	Date       time.Time          `json:"date" validate:"required"`
	StartTime  string             `json:"start_time" validate:"required"`
	EndTime    string             `json:"end_time" validate:"required"`
	Objectives []string           `json:"objectives,omitempty"`
	Materials  []models.Material  `json:"materials,omitempty"`
	Activities []models.Activity  `json:"activities,omitempty"`
	Homework   *models.Homework   `json:"homework,omitempty"`
	Notes      string             `json:"notes,omitempty"`
}

func (h *LessonPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLessonPlanRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	now := time.Now()
	plan := models.LessonPlan{
		ID:         primitive.NewObjectID(),
		Title:      req.Title,
		Subject:    req.Subject,
		Class:      req.Class,
		Teacher:    req.Teacher,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Objectives: req.Objectives,
		Materials:  req.Materials,
		Activities: req.Activities,
		Homework:   req.Homework,
		Status:     models.LessonPlanned,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.lessonPlans.InsertOne(ctx, plan); err != nil {
		respondInternal(w, err, "Failed to create lesson plan")
		return
	}

	respond(w, http.StatusCreated, plan, "Lesson plan created successfully")
}

func (h *LessonPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	if status, ok := patch["status"].(string); ok {
		switch models.LessonStatus(status) {
		case models.LessonPlanned, models.LessonOngoing, models.LessonCompleted, models.LessonCancelled:
		default:
			respondError(w, http.StatusBadRequest, "Invalid lesson status")
			return
		}
	}
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.LessonPlan
	err := h.lessonPlans.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Lesson plan not found", "Failed to update lesson plan")
		return
	}

	respond(w, http.StatusOK, updated, "Lesson plan updated successfully")
}

type lessonAttendanceRequest struct {
	Attendance []models.LessonAttendance `json:"attendance" validate:"required,min=1,dive"`
}

// RecordAttendance replaces the in-lesson attendance list as a whole.
func (h *LessonPlanHandler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req lessonAttendanceRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}
	for _, a := range req.Attendance {
		if !models.ValidAttendanceStatus(a.Status) {
			respondError(w, http.StatusBadRequest, "Invalid attendance status")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.LessonPlan
	err := h.lessonPlans.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"attendance": req.Attendance, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Lesson plan not found", "Failed to record attendance")
		return
	}

	respond(w, http.StatusOK, updated, "Lesson attendance recorded successfully")
}

func (h *LessonPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.lessonPlans.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete lesson plan")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Lesson plan not found")
		return
	}

	respond(w, http.StatusOK, nil, "Lesson plan deleted successfully")
}
