package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/idiarso4/SIM-AUG/internal/auth"
	"github.com/idiarso4/SIM-AUG/internal/models"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// UserFromContext returns the authenticated user attached by Authenticator.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser attaches a user to the context. Exported for handler tests.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Authenticator verifies the bearer token, loads the user and attaches it
// to the request context. Inactive users and revoked tokens are rejected.
// CORS preflight never reaches this middleware; the cors wrapper answers
// OPTIONS before the router.
type Authenticator struct {
	manager *auth.Manager
	revoker *auth.Revoker
	users   *mongo.Collection
}

func NewAuthenticator(manager *auth.Manager, revoker *auth.Revoker, users *mongo.Collection) *Authenticator {
	return &Authenticator{manager: manager, revoker: revoker, users: users}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "No token provided, authorization denied")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := a.manager.ValidateToken(token)
		if err != nil {
			unauthorized(w, "Token is not valid")
			return
		}

		if a.revoker.IsRevoked(r.Context(), claims.ID) {
			unauthorized(w, "Token has been revoked")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			unauthorized(w, "Token is not valid")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := a.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil || !user.IsActive {
			unauthorized(w, "Token is not valid or user is inactive")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, message)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
