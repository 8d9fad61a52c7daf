package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/idiarso4/SIM-AUG/internal/auth"
)

func newTestAuthenticator() *Authenticator {
	manager := auth.NewManager("test-secret", time.Hour)
	return NewAuthenticator(manager, auth.NewRevoker(""), nil)
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	handler := newTestAuthenticator().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/students", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No token provided")
}

func TestAuthenticatorRejectsMalformedHeader(t *testing.T) {
	handler := newTestAuthenticator().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/students", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsGarbageToken(t *testing.T) {
	handler := newTestAuthenticator().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/students", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token is not valid")
}

func TestAuthenticatorRejectsForeignSignature(t *testing.T) {
	other := auth.NewManager("different-secret", time.Hour)
	token, err := other.GenerateToken("652f1a2b3c4d5e6f7a8b9c0d", "admin")
	assert.NoError(t, err)

	handler := newTestAuthenticator().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/students", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
