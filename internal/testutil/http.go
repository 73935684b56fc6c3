package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/eventhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganizerPrincipal returns a fresh organizer principal.
func OrganizerPrincipal() models.Principal {
	return models.Principal{
		ID:    primitive.NewObjectID(),
		Role:  models.RoleOrganizer,
		Name:  "Test Organizer",
		Email: "organizer@test.com",
	}
}

// AttendeePrincipal returns a fresh attendee principal.
func AttendeePrincipal() models.Principal {
	return models.Principal{
		ID:    primitive.NewObjectID(),
		Role:  models.RoleAttendee,
		Name:  "Test Attendee",
		Email: "attendee@test.com",
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(method, target string, v any) *http.Request {
	b, _ := json.Marshal(v)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with p in context.
// This bypasses bearer-token verification.
func NewAuthenticatedRequest(method, target string, p models.Principal) *http.Request {
	return auth.WithTestPrincipal(httptest.NewRequest(method, target, nil), p)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// Envelope decodes the JSON response body into the API envelope shape.
func (r *ResponseRecorder) Envelope(t interface {
	Fatalf(string, ...any)
}) Envelope {
	var env Envelope
	if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, r.Body.String())
	}
	return env
}

// Envelope mirrors jsonresp.Envelope with Data left raw for per-test decoding.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
}
