package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ddrmaster1000/garmin-workout/internal/convert"
	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
)

// stubConverter returns a canned workout or error.
type stubConverter struct {
	workout *garmin.Workout
	err     error
}

func (s *stubConverter) Convert(_ context.Context, _ string, _ garmin.Sport) (*garmin.Workout, error) {
	return s.workout, s.err
}

func newTestServer(conv Converter) *Server {
	log := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return New(conv, "test-key", 5*time.Second, log)
}

func postConvert(t *testing.T, srv *Server, body, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// TestHandleConvertSuccess verifies a successful conversion returns the
// Garmin document with a request ID header.
func TestHandleConvertSuccess(t *testing.T) {
	dist := 100.0
	srv := newTestServer(&stubConverter{workout: &garmin.Workout{
		Name:                    "Swim",
		Sport:                   garmin.SportSwimming,
		EstimatedDurationInSecs: 120,
		Segments: []garmin.Segment{
			{Steps: []garmin.Step{{Type: garmin.StepInterval, Distance: &dist}}},
		},
	}})

	rec := postConvert(t, srv, `{"workoutText":"6 x 100m","sport":"swimming"}`, "test-key")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload["workoutName"] != "Swim" {
		t.Errorf("workoutName = %v, want Swim", payload["workoutName"])
	}
	if _, ok := payload["workoutSegments"]; !ok {
		t.Error("workoutSegments missing from payload")
	}
}

// TestHandleConvertBadRequests verifies malformed bodies and unknown sports
// are rejected with 400 before any conversion work.
func TestHandleConvertBadRequests(t *testing.T) {
	srv := newTestServer(&stubConverter{err: errors.New("should not be reached")})

	for _, body := range []string{
		"not json",
		`{"workoutText":"6 x 100m","sport":"rowing"}`,
	} {
		rec := postConvert(t, srv, body, "test-key")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

// TestHandleConvertAuth verifies the convert endpoint requires a valid API
// key while health and sports stay open.
func TestHandleConvertAuth(t *testing.T) {
	srv := newTestServer(&stubConverter{})

	if rec := postConvert(t, srv, `{}`, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}
	if rec := postConvert(t, srv, `{}`, "wrong"); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	for _, path := range []string{"/healthz", "/api/v1/sports"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200 without a key", path, rec.Code)
		}
	}
}

// TestHandleConvertErrorMapping verifies the converter's error kinds map to
// distinct HTTP statuses.
func TestHandleConvertErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"empty text", convert.ErrEmptyWorkoutText, http.StatusBadRequest},
		{"unsupported sport", convert.ErrUnsupportedSport, http.StatusBadRequest},
		{"malformed response", &convert.MalformedResponseError{Reason: "no segments"}, http.StatusUnprocessableEntity},
		{"invocation failure", &convert.InvocationError{Err: errors.New("throttled")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		srv := newTestServer(&stubConverter{err: tc.err})
		rec := postConvert(t, srv, `{"workoutText":"x","sport":"swimming"}`, "test-key")
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

// TestHandleSports verifies the sports listing.
func TestHandleSports(t *testing.T) {
	srv := newTestServer(&stubConverter{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sports", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var sports []string
	if err := json.NewDecoder(rec.Body).Decode(&sports); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(sports) != 3 {
		t.Fatalf("got %d sports, want 3", len(sports))
	}
}
