package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

type UserHandler struct {
	users *mongo.Collection
}

func NewUserHandler(client *mongo.Client, dbName string) *UserHandler {
	return &UserHandler{users: client.Database(dbName).Collection("users")}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}

	cursor, err := h.users.Find(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		respondInternal(w, err, "Error decoding users")
		return
	}

	respond(w, http.StatusOK, users, "")
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := h.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		respondMongoError(w, err, "User not found", "Failed to fetch user")
		return
	}

	respond(w, http.StatusOK, user, "")
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	if !models.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(w, err, "Failed to hash password")
		return
	}

	now := time.Now()
	user := models.User{
		ID:          primitive.NewObjectID(),
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		Role:        req.Role,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		respondInternal(w, err, "Failed to create user")
		return
	}

	respond(w, http.StatusCreated, user, "User created successfully")
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Email       string           `json:"email,omitempty"`
		FirstName   string           `json:"first_name,omitempty"`
		LastName    string           `json:"last_name,omitempty"`
		PhoneNumber string           `json:"phone_number,omitempty"`
		Address     string           `json:"address,omitempty"`
		Role        *models.UserRole `json:"role,omitempty"`
		IsActive    *bool            `json:"is_active,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.FirstName != "" {
		set["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		set["last_name"] = req.LastName
	}
	if req.PhoneNumber != "" {
		set["phone_number"] = req.PhoneNumber
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			respondError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		set["role"] = *req.Role
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.User
	err := h.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "User not found", "Failed to update user")
		return
	}

	respond(w, http.StatusOK, updated, "User updated successfully")
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete user")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respond(w, http.StatusOK, nil, "User deleted successfully")
}
