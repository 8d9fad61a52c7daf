package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("users.manage", models.RoleAdmin))
	assert.True(t, Allowed("users.manage", models.RoleSuperAdmin))
	assert.False(t, Allowed("users.manage", models.RoleTeacher))
	assert.False(t, Allowed("users.manage", models.RoleStudent))

	assert.True(t, Allowed("cbt.submit", models.RoleStudent))
	assert.False(t, Allowed("cbt.submit", models.RoleTeacher))

	assert.True(t, Allowed("grades.read", models.RoleParent))
	assert.False(t, Allowed("grades.write", models.RoleParent))

	assert.True(t, Allowed("assignments.grade", models.RoleTeacher))
	assert.False(t, Allowed("assignments.grade", models.RoleStudent))
}

func TestAllowedUnknownCapability(t *testing.T) {
	assert.False(t, Allowed("no.such.capability", models.RoleSuperAdmin))
}

func TestEveryCapabilityAdmitsAdmin(t *testing.T) {
	for capability := range policies {
		assert.True(t, Allowed(capability, models.RoleAdmin), capability)
	}
}

func TestAuthorizeMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Authorize("students.write")(ok)

	t.Run("no user on context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/students", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/students", nil)
		req = req.WithContext(WithUser(req.Context(), models.User{Role: models.RoleStudent}))
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/students", nil)
		req = req.WithContext(WithUser(req.Context(), models.User{Role: models.RoleAdmin}))
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
