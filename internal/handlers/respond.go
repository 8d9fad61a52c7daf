package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// Every endpoint answers with the same envelope. The success flag and
// message travel alongside the payload so clients never guess at shapes.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// validate is shared across handlers; validator caches struct metadata.
var validate = validator.New()

// development toggles whether internal error detail reaches clients.
var development = true

// SetDevelopment configures error detail exposure; called once at startup.
func SetDevelopment(dev bool) {
	development = dev
}

func respond(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: status < 400, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, nil, message)
}

// respondInternal logs the real error and sends a generic failure, with
// detail only in development mode.
func respondInternal(w http.ResponseWriter, err error, message string) {
	log.Printf("%s: %v", message, err)
	if development {
		respond(w, http.StatusInternalServerError, nil, message+": "+err.Error())
		return
	}
	respond(w, http.StatusInternalServerError, nil, message)
}

// respondMongoError maps persistence failures onto the error taxonomy:
// missing document → 404, duplicate key → 400, anything else → 500.
func respondMongoError(w http.ResponseWriter, err error, notFoundMessage, internalMessage string) {
	switch {
	case err == mongo.ErrNoDocuments:
		respondError(w, http.StatusNotFound, notFoundMessage)
	case mongo.IsDuplicateKeyError(err):
		respondError(w, http.StatusBadRequest, "Duplicate record")
	default:
		respondInternal(w, err, internalMessage)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// validateStruct runs the validator tags on a decoded payload.
func validateStruct(w http.ResponseWriter, payload interface{}) bool {
	if err := validate.Struct(payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
