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

	"github.com/idiarso4/SIM-AUG/internal/auth"
	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/models"
)

type AuthHandler struct {
	users   *mongo.Collection
	manager *auth.Manager
	revoker *auth.Revoker
}

func NewAuthHandler(client *mongo.Client, dbName string, manager *auth.Manager, revoker *auth.Revoker) *AuthHandler {
	return &AuthHandler{
		users:   client.Database(dbName).Collection("users"),
		manager: manager,
		revoker: revoker,
	}
}

type registerRequest struct {
	Username    string          `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=6"`
	Role        models.UserRole `json:"role" validate:"required"`
	FirstName   string          `json:"first_name" validate:"required"`
	LastName    string          `json:"last_name" validate:"required"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	Address     string          `json:"address,omitempty"`
}

// Register creates a user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	if !models.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Check username/email availability up front for a friendly message;
	// the unique indexes are the real guarantee.
	var existing models.User
	err := h.users.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": req.Username},
		bson.M{"email": req.Email},
	}}).Decode(&existing)
	if err == nil {
		respondError(w, http.StatusBadRequest, "Username or email already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		respondInternal(w, err, "Failed to check user availability")
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

	if _, err := h.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		respondInternal(w, err, "Failed to create user")
		return
	}

	respond(w, http.StatusCreated, user, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates by username or email and issues a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": req.Username},
		bson.M{"email": req.Username},
	}}).Decode(&user)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Account is inactive")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.manager.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		respondInternal(w, err, "Failed to generate token")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	_, _ = h.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"last_login": now}})

	respond(w, http.StatusOK, authResponse{Token: token, User: user}, "Login successful")
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	respond(w, http.StatusOK, user, "")
}

type updateProfileRequest struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// UpdateProfile merges the writable profile fields.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	set := bson.M{"updated_at": time.Now()}
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.User
	err := h.users.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "User not found", "Failed to update profile")
		return
	}

	respond(w, http.StatusOK, updated, "Profile updated successfully")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ChangePassword verifies the current password before setting a new hash.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		respondError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(w, err, "Failed to hash password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = h.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"password":   string(hashed),
		"updated_at": time.Now(),
	}})
	if err != nil {
		respondInternal(w, err, "Failed to change password")
		return
	}

	respond(w, http.StatusOK, nil, "Password changed successfully")
}

// Logout revokes the presented token for the remainder of its lifetime.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := ""
	if len(header) > 7 {
		token = header[7:]
	}

	if claims, err := h.manager.ValidateToken(token); err == nil && claims.ExpiresAt != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			respondInternal(w, err, "Failed to revoke token")
			return
		}
	}

	respond(w, http.StatusOK, nil, "Logout successful")
}
