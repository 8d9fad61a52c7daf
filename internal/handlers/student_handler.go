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
	"github.com/idiarso4/SIM-AUG/internal/utils"
)

type StudentHandler struct {
	db       *mongo.Database
	students *mongo.Collection
	users    *mongo.Collection
	classes  *mongo.Collection
}

func NewStudentHandler(client *mongo.Client, dbName string) *StudentHandler {
	db := client.Database(dbName)
	return &StudentHandler{
		db:       db,
		students: db.Collection("students"),
		users:    db.Collection("users"),
		classes:  db.Collection("classes"),
	}
}

// expand attaches user and class documents to a batch of students.
func (h *StudentHandler) expand(ctx context.Context, students []models.Student) error {
	userIDs := make([]primitive.ObjectID, 0, len(students))
	classIDs := make([]primitive.ObjectID, 0, len(students))
	for _, s := range students {
		userIDs = append(userIDs, s.User)
		if s.CurrentClass != nil {
			classIDs = append(classIDs, *s.CurrentClass)
		}
	}

	users, err := fetchUsers(ctx, h.users, userIDs)
	if err != nil {
		return err
	}
	classes, err := fetchClasses(ctx, h.classes, classIDs)
	if err != nil {
		return err
	}

	for i := range students {
		if u, ok := users[students[i].User]; ok {
			students[i].UserDetail = &u
		}
		if students[i].CurrentClass != nil {
			if c, ok := classes[*students[i].CurrentClass]; ok {
				students[i].ClassDetail = &c
			}
		}
	}
	return nil
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if class := r.URL.Query().Get("class"); class != "" {
		if classID, err := primitive.ObjectIDFromHex(class); err == nil {
			filter["current_class"] = classID
		}
	}

	cursor, err := h.students.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to retrieve students")
		return
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		respondInternal(w, err, "Error decoding students")
		return
	}

	if err := h.expand(ctx, students); err != nil {
		respondInternal(w, err, "Failed to expand student references")
		return
	}

	respond(w, http.StatusOK, students, "")
}

func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var student models.Student
	if err := h.students.FindOne(ctx, bson.M{"_id": id}).Decode(&student); err != nil {
		respondMongoError(w, err, "Student not found", "Failed to retrieve student")
		return
	}

	batch := []models.Student{student}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand student references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createStudentRequest struct {
	User             primitive.ObjectID      `json:"user" validate:"required"`
	NISN             string                  `json:"nisn,omitempty"`
	DateOfBirth      time.Time               `json:"date_of_birth" validate:"required"`
	Gender           string                  `json:"gender" validate:"required,oneof=male female"`
	BloodType        string                  `json:"blood_type,omitempty"`
	Religion         string                  `json:"religion" validate:"required"`
	Nationality      string                  `json:"nationality,omitempty"`
	CurrentClass     *primitive.ObjectID     `json:"current_class,omitempty"`
	ParentInfo       models.ParentInfo       `json:"parent_info,omitempty"`
	EmergencyContact models.EmergencyContact `json:"emergency_contact" validate:"required"`
	MedicalInfo      models.MedicalInfo      `json:"medical_info,omitempty"`
	EnrollmentDate   *time.Time              `json:"enrollment_date,omitempty"`
	StudentID        string                  `json:"student_id,omitempty"`
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The profile must point at a real user account.
	var owner models.User
	if err := h.users.FindOne(ctx, bson.M{"_id": req.User}).Decode(&owner); err != nil {
		respondMongoError(w, err, "User not found", "Failed to check user")
		return
	}

	studentID := req.StudentID
	if studentID == "" {
		generated, err := utils.NextStudentID(ctx, h.db)
		if err != nil {
			respondInternal(w, err, "Failed to generate student ID")
			return
		}
		studentID = generated
	}

	now := time.Now()
	enrollment := now
	if req.EnrollmentDate != nil {
		enrollment = *req.EnrollmentDate
	}
	nationality := req.Nationality
	if nationality == "" {
		nationality = "Indonesia"
	}

	student := models.Student{
		ID:               primitive.NewObjectID(),
		StudentID:        studentID,
		User:             req.User,
		NISN:             req.NISN,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodType:        req.BloodType,
		Religion:         req.Religion,
		Nationality:      nationality,
		CurrentClass:     req.CurrentClass,
		ParentInfo:       req.ParentInfo,
		EmergencyContact: req.EmergencyContact,
		MedicalInfo:      req.MedicalInfo,
		EnrollmentDate:   enrollment,
		Status:           models.StudentActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := h.students.InsertOne(ctx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Student ID or NISN already exists")
			return
		}
		respondInternal(w, err, "Failed to create student")
		return
	}

	respond(w, http.StatusCreated, student, "Student created successfully")
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if !decodeBody(w, r, &patch) {
		return
	}

	// Immutable fields are never merged.
	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "student_id")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Student
	err := h.students.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Student not found", "Failed to update student")
		return
	}

	respond(w, http.StatusOK, updated, "Student updated successfully")
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.students.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete student")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Student not found")
		return
	}

	respond(w, http.StatusOK, nil, "Student deleted successfully")
}
