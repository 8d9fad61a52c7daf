package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Metrics)
	router.HandleFunc("/api/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods("GET")

	// Two distinct IDs must land on the same label pair.
	for _, id := range []string{"65f1c0ffee0000000000aaaa", "65f1c0ffee0000000000bbbb"} {
		req := httptest.NewRequest(http.MethodGet, "/api/students/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	count := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/api/students/{id}", "204"))
	assert.Equal(t, 2.0, count)
}

func TestRouteTemplateFallsBackToRawPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	assert.Equal(t, "/metrics", routeTemplate(req))
}
