// Package convert turns free-text Wahoo workout exports into Garmin workout
// objects. The text understanding is delegated to a hosted model via a single
// Converse call; this package formats the prompt, isolates the JSON reply,
// applies the swim distance rule, and assembles the output object.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
)

// Invoker is the remote text-generation capability, injected at construction
// so the converter stays testable with a stub. One Converse call per
// conversion; no retry at this layer.
type Invoker interface {
	Converse(ctx context.Context, system, user, prefill string) (string, error)
}

// Paces holds the advisory per-sport pace assumptions used to estimate a
// duration for distance-only steps. The estimate populates
// estimatedDurationInSecs and is not authoritative.
type Paces struct {
	SwimSecsPerYard    float64
	RunSecsPerMile     float64
	CyclingSecsPerMile float64
}

// DefaultPaces: a 2:00/100yd swim, a 10:00/mile run, a 20 mph ride.
var DefaultPaces = Paces{
	SwimSecsPerYard:    1.2,
	RunSecsPerMile:     600,
	CyclingSecsPerMile: 180,
}

func (p Paces) secsPerUnit(sport garmin.Sport) float64 {
	switch sport {
	case garmin.SportSwimming:
		return p.SwimSecsPerYard
	case garmin.SportRunning:
		return p.RunSecsPerMile
	case garmin.SportCycling:
		return p.CyclingSecsPerMile
	}
	return 0
}

// Converter builds prompts, invokes the model, and assembles workouts.
type Converter struct {
	invoker Invoker
	paces   Paces
	log     *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithPaces overrides the duration-estimate pace assumptions.
func WithPaces(p Paces) Option {
	return func(c *Converter) { c.paces = p }
}

// WithLogger sets the logger used for conversion progress.
func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) { c.log = log }
}

// New creates a Converter around the given model invoker.
func New(invoker Invoker, opts ...Option) *Converter {
	c := &Converter{
		invoker: invoker,
		paces:   DefaultPaces,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// modelWorkout is the model's raw structured answer.
type modelWorkout struct {
	WorkoutName string         `json:"workoutName"`
	Segments    []modelSegment `json:"segments"`
}

type modelSegment struct {
	Name  string      `json:"name"`
	Steps []modelStep `json:"steps"`
}

type modelStep struct {
	Type        string      `json:"type"`
	Distance    *float64    `json:"distance,omitempty"`
	Duration    *float64    `json:"duration,omitempty"`
	Intensity   string      `json:"intensity,omitempty"`
	Effort      int         `json:"effort,omitempty"`
	RepeatCount int         `json:"repeatCount,omitempty"`
	Steps       []modelStep `json:"steps,omitempty"`
}

// Convert turns raw workout text into a Garmin workout for the given sport.
// It makes exactly one model call; bad input fails before the network. The
// returned errors are distinct kinds (ErrEmptyWorkoutText,
// ErrUnsupportedSport, *InvocationError, *MalformedResponseError) so a
// wrapping caller can decide what is worth retrying.
func (c *Converter) Convert(ctx context.Context, rawText string, sport garmin.Sport) (*garmin.Workout, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyWorkoutText
	}
	if !sport.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSport, sport)
	}

	reply, err := c.invoker.Converse(ctx, systemPrompt(), userMessage(rawText, sport), jsonPrefill)
	if err != nil {
		return nil, &InvocationError{Err: err}
	}
	c.log.Info("model reply received", "sport", sport, "chars", len(reply))

	payload, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var mw modelWorkout
	if err := json.Unmarshal([]byte(payload), &mw); err != nil {
		return nil, &MalformedResponseError{Reason: "payload does not match the workout schema", Err: err}
	}
	if mw.WorkoutName == "" {
		return nil, &MalformedResponseError{Reason: "workout has no name"}
	}
	if len(mw.Segments) == 0 {
		return nil, &MalformedResponseError{Reason: "workout has no segments"}
	}

	segments := make([]garmin.Segment, len(mw.Segments))
	for i, seg := range mw.Segments {
		steps, err := mapSteps(seg.Steps)
		if err != nil {
			return nil, err
		}
		if len(steps) == 0 {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("segment %d has no steps", i+1)}
		}
		segments[i] = garmin.Segment{Name: seg.Name, Steps: steps}
	}

	w := &garmin.Workout{
		Name:     mw.WorkoutName,
		Sport:    sport,
		Segments: segments,
	}

	// Every distance reachable from a swim workout is expressed in yards,
	// including inside nested repeat groups.
	if sport == garmin.SportSwimming {
		for i := range w.Segments {
			applyYards(w.Segments[i].Steps)
		}
	}

	w.EstimatedDurationInSecs = int(math.Round(c.estimateDuration(w.Segments, sport)))

	c.log.Info("workout converted",
		"name", w.Name,
		"sport", w.Sport,
		"segments", len(w.Segments),
		"estimated_duration_secs", w.EstimatedDurationInSecs,
	)
	return w, nil
}

// mapSteps maps intermediate step records into the output representation,
// preserving order. A step missing its type or its quantity fails the whole
// conversion rather than being dropped.
func mapSteps(in []modelStep) ([]garmin.Step, error) {
	steps := make([]garmin.Step, 0, len(in))
	for i, ms := range in {
		if ms.Type == "" {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("step %d has no type", i+1)}
		}
		st, err := garmin.ParseStepType(ms.Type)
		if err != nil {
			return nil, &MalformedResponseError{Reason: err.Error()}
		}

		if st == garmin.StepRepeat {
			if ms.RepeatCount < 1 {
				return nil, &MalformedResponseError{Reason: fmt.Sprintf("repeat step %d has no repeatCount", i+1)}
			}
			children, err := mapSteps(ms.Steps)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				return nil, &MalformedResponseError{Reason: fmt.Sprintf("repeat step %d has no nested steps", i+1)}
			}
			steps = append(steps, garmin.Step{
				Type:        st,
				RepeatCount: ms.RepeatCount,
				Steps:       children,
			})
			continue
		}

		if ms.Distance == nil && ms.Duration == nil {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("step %d (%s) has neither distance nor duration", i+1, st)}
		}
		steps = append(steps, garmin.Step{
			Type:      st,
			Distance:  ms.Distance,
			Duration:  ms.Duration,
			Intensity: ms.Intensity,
			Effort:    ms.Effort,
		})
	}
	return steps, nil
}

// estimateDuration sums step durations; distance-only steps contribute an
// estimate from the per-sport pace assumption.
func (c *Converter) estimateDuration(segments []garmin.Segment, sport garmin.Sport) float64 {
	var total float64
	for _, seg := range segments {
		total += c.estimateSteps(seg.Steps, sport)
	}
	return total
}

func (c *Converter) estimateSteps(steps []garmin.Step, sport garmin.Sport) float64 {
	var total float64
	for _, step := range steps {
		switch {
		case step.IsRepeat():
			total += float64(step.RepeatCount) * c.estimateSteps(step.Steps, sport)
		case step.Duration != nil:
			total += *step.Duration
		case step.Distance != nil:
			total += *step.Distance * c.paces.secsPerUnit(sport)
		}
	}
	return total
}
