// Package garmin defines the Garmin Connect workout object model: a workout
// holds ordered segments, segments hold ordered steps, and a step is either
// an executable instruction (warmup, interval, recovery, rest, cooldown) or
// a repeat group wrapping nested steps. Values are assembled once by the
// converter and never mutated; Payload is the only behavior.
package garmin

import "fmt"

// Sport is the workout discipline tag. It selects the Garmin sportType and
// controls whether swim distance conversion applies upstream.
type Sport string

const (
	SportSwimming Sport = "swimming"
	SportRunning  Sport = "running"
	SportCycling  Sport = "cycling"
)

// sportTypeIDs holds Garmin Connect workout-service sportTypeId values.
var sportTypeIDs = map[Sport]int{
	SportRunning:  1,
	SportCycling:  2,
	SportSwimming: 4,
}

// ParseSport validates a user-supplied sport tag.
func ParseSport(s string) (Sport, error) {
	sport := Sport(s)
	if _, ok := sportTypeIDs[sport]; !ok {
		return "", fmt.Errorf("unknown sport %q (expected swimming, running, or cycling)", s)
	}
	return sport, nil
}

// Valid reports whether the sport is one of the recognized tags.
func (s Sport) Valid() bool {
	_, ok := sportTypeIDs[s]
	return ok
}

// StepType identifies what a step instructs the athlete to do.
type StepType string

const (
	StepWarmup   StepType = "warmup"
	StepCooldown StepType = "cooldown"
	StepInterval StepType = "interval"
	StepRecovery StepType = "recovery"
	StepRest     StepType = "rest"
	StepRepeat   StepType = "repeat"
)

// stepTypeIDs holds Garmin Connect stepTypeId values. Display order matches
// the ID for every step type.
var stepTypeIDs = map[StepType]int{
	StepWarmup:   1,
	StepCooldown: 2,
	StepInterval: 3,
	StepRecovery: 4,
	StepRest:     5,
	StepRepeat:   6,
}

// ParseStepType validates a step type emitted by the model.
func ParseStepType(s string) (StepType, error) {
	st := StepType(s)
	if _, ok := stepTypeIDs[st]; !ok {
		return "", fmt.Errorf("unknown step type %q", s)
	}
	return st, nil
}

// Workout is the destination-format object uploaded to Garmin Connect.
type Workout struct {
	Name                    string
	Sport                   Sport
	EstimatedDurationInSecs int
	Segments                []Segment
}

// Segment is an ordered group of steps (e.g. "Warm Up", "Main Set").
type Segment struct {
	Name  string
	Steps []Step
}

// Step is a single instructed unit. Executable steps end on a distance or a
// duration; repeat groups carry an iteration count and nested steps.
// For swimming workouts every Distance is in yards.
type Step struct {
	Type      StepType
	Distance  *float64 // yards for swimming, miles otherwise
	Duration  *float64 // seconds
	Intensity string   // free-form target descriptor, passed through unchanged
	Effort    int      // 1-5 swim effort level, 0 when absent

	// Repeat group fields, meaningful only when Type == StepRepeat.
	RepeatCount int
	Steps       []Step
}

// IsRepeat reports whether the step is a repeat group.
func (s Step) IsRepeat() bool {
	return s.Type == StepRepeat
}
