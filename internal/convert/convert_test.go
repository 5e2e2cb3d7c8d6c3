package convert

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
)

// stubInvoker returns a canned reply and counts invocations.
type stubInvoker struct {
	reply string
	err   error
	calls int
}

func (s *stubInvoker) Converse(_ context.Context, _, _, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

const swimReply = `{
  "workoutName": "Warm Up Swim",
  "segments": [
    {
      "name": "Warm Up",
      "steps": [
        {"type": "warmup", "distance": 300},
        {
          "type": "repeat",
          "repeatCount": 6,
          "steps": [
            {"type": "interval", "distance": 100, "intensity": "RPE 3-4 -- Z2", "effort": 3},
            {"type": "rest", "duration": 20}
          ]
        }
      ]
    }
  ]
}`

// TestConvertSwim verifies a swim conversion end to end: structure mapping,
// pool-length pass-through, repeat nesting, and the duration estimate.
func TestConvertSwim(t *testing.T) {
	inv := &stubInvoker{reply: swimReply}
	conv := New(inv)

	w, err := conv.Convert(context.Background(), "Number of Sets: 1\n6 x 100m @ RPE 3-4 -- Z2, 20 sec rest", garmin.SportSwimming)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if inv.calls != 1 {
		t.Errorf("invoker calls = %d, want 1", inv.calls)
	}

	if w.Name != "Warm Up Swim" {
		t.Errorf("name = %q, want Warm Up Swim", w.Name)
	}
	if len(w.Segments) != 1 || len(w.Segments[0].Steps) != 2 {
		t.Fatalf("segments = %+v, want 1 segment with 2 steps", w.Segments)
	}

	warmup := w.Segments[0].Steps[0]
	if warmup.Type != garmin.StepWarmup {
		t.Errorf("first step type = %v, want warmup", warmup.Type)
	}
	// 300 is not a pool length; it converts to yards.
	if got, want := *warmup.Distance, 300*1.09361; math.Abs(got-want) > 1e-9 {
		t.Errorf("warmup distance = %v, want %v", got, want)
	}

	repeat := w.Segments[0].Steps[1]
	if !repeat.IsRepeat() || repeat.RepeatCount != 6 {
		t.Fatalf("second step = %+v, want 6x repeat", repeat)
	}
	interval := repeat.Steps[0]
	// 100 is a pool length; it passes through unchanged.
	if *interval.Distance != 100 {
		t.Errorf("interval distance = %v, want 100", *interval.Distance)
	}
	if interval.Intensity != "RPE 3-4 -- Z2" {
		t.Errorf("intensity = %q, want verbatim text", interval.Intensity)
	}
	if interval.Effort != 3 {
		t.Errorf("effort = %d, want 3", interval.Effort)
	}
	if *repeat.Steps[1].Duration != 20 {
		t.Errorf("rest duration = %v, want 20", *repeat.Steps[1].Duration)
	}

	// warmup 300m -> 328.083yd at 1.2 s/yd, plus 6 x (100yd at 1.2 s/yd + 20s rest).
	want := int(math.Round(300*1.09361*1.2 + 6*(100*1.2+20)))
	if w.EstimatedDurationInSecs != want {
		t.Errorf("estimated duration = %d, want %d", w.EstimatedDurationInSecs, want)
	}
}

// TestConvertRunKeepsMiles verifies non-swim distances are not converted.
func TestConvertRunKeepsMiles(t *testing.T) {
	inv := &stubInvoker{reply: `{
		"workoutName": "Tempo Run",
		"segments": [{"name": "Main", "steps": [{"type": "interval", "distance": 3}]}]
	}`}
	conv := New(inv)

	w, err := conv.Convert(context.Background(), "3 mile tempo", garmin.SportRunning)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if got := *w.Segments[0].Steps[0].Distance; got != 3 {
		t.Errorf("distance = %v, want 3 untouched", got)
	}
	// 3 miles at the default 600 s/mile pace.
	if w.EstimatedDurationInSecs != 1800 {
		t.Errorf("estimated duration = %d, want 1800", w.EstimatedDurationInSecs)
	}
}

// TestConvertCustomPaces verifies WithPaces changes the duration estimate.
func TestConvertCustomPaces(t *testing.T) {
	inv := &stubInvoker{reply: `{
		"workoutName": "Ride",
		"segments": [{"name": "Main", "steps": [{"type": "interval", "distance": 10}]}]
	}`}
	conv := New(inv, WithPaces(Paces{SwimSecsPerYard: 1.2, RunSecsPerMile: 600, CyclingSecsPerMile: 120}))

	w, err := conv.Convert(context.Background(), "10 mile ride", garmin.SportCycling)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if w.EstimatedDurationInSecs != 1200 {
		t.Errorf("estimated duration = %d, want 1200", w.EstimatedDurationInSecs)
	}
}

// TestConvertGuards verifies empty text and unsupported sports fail before
// any model invocation.
func TestConvertGuards(t *testing.T) {
	inv := &stubInvoker{reply: swimReply}
	conv := New(inv)

	_, err := conv.Convert(context.Background(), "   \n", garmin.SportSwimming)
	if !errors.Is(err, ErrEmptyWorkoutText) {
		t.Errorf("empty text error = %v, want ErrEmptyWorkoutText", err)
	}

	_, err = conv.Convert(context.Background(), "6 x 100m", garmin.Sport("rowing"))
	if !errors.Is(err, ErrUnsupportedSport) {
		t.Errorf("bad sport error = %v, want ErrUnsupportedSport", err)
	}

	if inv.calls != 0 {
		t.Errorf("invoker calls = %d, want 0 (guards run before the network)", inv.calls)
	}
}

// TestConvertInvocationError verifies a failed model call surfaces as
// *InvocationError wrapping the cause.
func TestConvertInvocationError(t *testing.T) {
	cause := errors.New("throttled")
	inv := &stubInvoker{err: cause}
	conv := New(inv)

	_, err := conv.Convert(context.Background(), "6 x 100m", garmin.SportSwimming)
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error type = %T, want *InvocationError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error does not wrap the cause: %v", err)
	}
}

// TestConvertMalformedResponses verifies uninterpretable replies surface as
// *MalformedResponseError with no partial workout.
func TestConvertMalformedResponses(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"no json", "Sorry, I can't help with that."},
		{"wrong shape", `{"something": "else"}`},
		{"no name", `{"segments": [{"steps": [{"type": "interval", "distance": 100}]}]}`},
		{"no segments", `{"workoutName": "Swim", "segments": []}`},
		{"empty segment", `{"workoutName": "Swim", "segments": [{"steps": []}]}`},
		{"unknown step type", `{"workoutName": "Swim", "segments": [{"steps": [{"type": "sprint", "distance": 100}]}]}`},
		{"no quantity", `{"workoutName": "Swim", "segments": [{"steps": [{"type": "interval"}]}]}`},
		{"repeat without count", `{"workoutName": "Swim", "segments": [{"steps": [{"type": "repeat", "steps": [{"type": "interval", "distance": 100}]}]}]}`},
		{"repeat without children", `{"workoutName": "Swim", "segments": [{"steps": [{"type": "repeat", "repeatCount": 4}]}]}`},
	}

	for _, tc := range cases {
		conv := New(&stubInvoker{reply: tc.reply})
		w, err := conv.Convert(context.Background(), "6 x 100m", garmin.SportSwimming)
		if err == nil {
			t.Errorf("%s: Convert succeeded, want error", tc.name)
			continue
		}
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: error type = %T, want *MalformedResponseError", tc.name, err)
		}
		if w != nil {
			t.Errorf("%s: got partial workout %+v, want nil", tc.name, w)
		}
	}
}

// TestConvertZeroDistanceStep verifies an explicit zero quantity is kept
// rather than treated as missing.
func TestConvertZeroDistanceStep(t *testing.T) {
	inv := &stubInvoker{reply: `{
		"workoutName": "Swim",
		"segments": [{"steps": [{"type": "rest", "duration": 0}]}]
	}`}
	conv := New(inv)

	w, err := conv.Convert(context.Background(), "rest", garmin.SportSwimming)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if got := *w.Segments[0].Steps[0].Duration; got != 0 {
		t.Errorf("duration = %v, want 0", got)
	}
}
