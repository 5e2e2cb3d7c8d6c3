package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddrmaster1000/garmin-workout/internal/convert"
	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
)

type convertRequest struct {
	WorkoutText string `json:"workoutText"`
	Sport       string `json:"sport"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	sport, err := garmin.ParseSport(req.Sport)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.convertTimeout)
	defer cancel()

	workout, err := s.conv.Convert(ctx, req.WorkoutText, sport)
	if err != nil {
		s.log.Error("convert error", "sport", sport, "error", err, "request_id", requestIDFromContext(r.Context()))
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, workout.Payload())
}

// statusForError maps the converter's error taxonomy onto HTTP statuses:
// caller mistakes are 400, an uninterpretable model answer is 422, and a
// failed model call is 502 (the only kind a client might retry).
func statusForError(err error) int {
	var invocationErr *convert.InvocationError
	var malformedErr *convert.MalformedResponseError
	switch {
	case errors.Is(err, convert.ErrEmptyWorkoutText), errors.Is(err, convert.ErrUnsupportedSport):
		return http.StatusBadRequest
	case errors.As(err, &malformedErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invocationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []garmin.Sport{
		garmin.SportSwimming,
		garmin.SportRunning,
		garmin.SportCycling,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
