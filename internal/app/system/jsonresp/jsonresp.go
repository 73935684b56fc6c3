// Package jsonresp writes the API's response envelope:
//
//	{ "success": bool, "message"?: string, "data"?: any, "error"?: string, "count"?: int }
package jsonresp

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/eventhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// Write encodes env with the given status.
func Write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	Write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a successful envelope with a count.
func List(w http.ResponseWriter, data any, count int) {
	Write(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Error writes err using its apperr classification. Unclassified errors are
// logged with their detail and reported generically.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	Write(w, status, Envelope{Success: false, Error: apperr.Message(err)})
}
