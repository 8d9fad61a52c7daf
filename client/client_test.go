package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *CredentialStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store := NewCredentialStore(filepath.Join(t.TempDir(), "session.json"))
	return New(server.URL, store), store
}

func terminal[T any](t *testing.T, ch <-chan Result[T]) Result[T] {
	t.Helper()
	first := <-ch
	require.Equal(t, Loading, first.Status, "first emission must be Loading")
	second, ok := <-ch
	require.True(t, ok, "terminal result expected")
	_, open := <-ch
	require.False(t, open, "channel must close after the terminal result")
	return second
}

func TestTransportInjectsHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	require.NoError(t, store.SaveSession("tok-abc", nil, "admin"))

	require.NoError(t, c.do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil))
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestLoginPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "budi", body["username"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"token": "issued-token",
				"user":  map[string]interface{}{"id": "u1", "username": "budi", "role": "teacher"},
			},
			"message": "Login successful",
		})
	})

	c, store := newTestClient(t, mux)
	result := terminal(t, NewAuthRepository(c).Login(context.Background(), "budi", "secret"))

	require.Equal(t, Success, result.Status)
	assert.Equal(t, "budi", result.Data.Username)
	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, "issued-token", store.Token())
	assert.Equal(t, "teacher", store.Role())
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid credentials",
		})
	}))

	result := terminal(t, NewAuthRepository(c).Login(context.Background(), "budi", "wrong"))

	require.Equal(t, Error, result.Status)
	var apiErr *APIError
	require.ErrorAs(t, result.Err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, store.IsLoggedIn())
}

func TestLogoutClearsStoreEvenWhenServerFails(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	require.NoError(t, store.SaveSession("tok", nil, "student"))

	result := terminal(t, NewAuthRepository(c).Logout(context.Background()))

	assert.Equal(t, Error, result.Status)
	assert.False(t, store.IsLoggedIn(), "local session must be gone regardless of the server")
	assert.Empty(t, store.Token())
}

func TestStudentList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/students", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": "s1", "student_id": "20260001", "status": "active"},
				{"id": "s2", "student_id": "20260002", "status": "active"},
			},
		})
	})

	c, _ := newTestClient(t, mux)
	result := terminal(t, NewStudentRepository(c).List(context.Background(), StudentFilter{Status: "active"}))

	require.Equal(t, Success, result.Status)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "20260001", result.Data[0].StudentID)
}

func TestContextCancellationYieldsError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	ch := NewTeacherRepository(c).List(ctx)
	first := <-ch
	require.Equal(t, Loading, first.Status)
	cancel()

	second := <-ch
	assert.Equal(t, Error, second.Status)
	assert.Error(t, second.Err)
}
