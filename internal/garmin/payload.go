package garmin

// Garmin Connect end condition and target type identifiers. Distance uses
// conditionTypeId 3; conditionTypeId 1 is the lap button, which swim steps
// in particular must never use.
const (
	conditionTime       = 2
	conditionDistance   = 3
	conditionIterations = 7

	targetNone            = 1
	targetSwimInstruction = 18
)

// Payload serializes the workout into the nested document accepted by the
// Garmin Connect workout-service upload API. It is read-only: the workout is
// never mutated.
func (w *Workout) Payload() map[string]any {
	segments := make([]map[string]any, len(w.Segments))
	order := 1
	for i, seg := range w.Segments {
		var steps []map[string]any
		for _, step := range seg.Steps {
			steps = append(steps, stepPayload(step, w.Sport, &order))
		}
		segments[i] = map[string]any{
			"segmentOrder": i + 1,
			"sportType":    sportTypePayload(w.Sport),
			"workoutSteps": steps,
		}
	}

	return map[string]any{
		"workoutName":             w.Name,
		"sportType":               sportTypePayload(w.Sport),
		"estimatedDurationInSecs": w.EstimatedDurationInSecs,
		"workoutSegments":         segments,
	}
}

func sportTypePayload(s Sport) map[string]any {
	return map[string]any{
		"sportTypeId":  sportTypeIDs[s],
		"sportTypeKey": string(s),
		"displayOrder": sportTypeIDs[s],
	}
}

func stepTypePayload(t StepType) map[string]any {
	return map[string]any{
		"stepTypeId":   stepTypeIDs[t],
		"stepTypeKey":  string(t),
		"displayOrder": stepTypeIDs[t],
	}
}

// stepPayload serializes one step, assigning stepOrder in document order
// across nesting (the counter is shared with nested repeat children).
func stepPayload(s Step, sport Sport, order *int) map[string]any {
	if s.IsRepeat() {
		return repeatPayload(s, sport, order)
	}

	m := map[string]any{
		"type":       "ExecutableStepDTO",
		"stepOrder":  *order,
		"stepType":   stepTypePayload(s.Type),
		"targetType": map[string]any{"workoutTargetTypeId": targetNone, "workoutTargetTypeKey": "no.target", "displayOrder": 1},
	}
	*order++

	switch {
	case s.Distance != nil:
		m["endCondition"] = map[string]any{
			"conditionTypeId":  conditionDistance,
			"conditionTypeKey": "distance",
			"displayOrder":     conditionDistance,
			"displayable":      true,
		}
		m["endConditionValue"] = *s.Distance
	case s.Duration != nil:
		m["endCondition"] = map[string]any{
			"conditionTypeId":  conditionTime,
			"conditionTypeKey": "time",
			"displayOrder":     conditionTime,
			"displayable":      true,
		}
		m["endConditionValue"] = *s.Duration
	}

	if s.Intensity != "" {
		m["description"] = s.Intensity
	}

	// Swim effort rides on the secondary target slot ("swim.instruction").
	if sport == SportSwimming && s.Effort > 0 {
		m["secondaryTargetType"] = map[string]any{
			"workoutTargetTypeId":  targetSwimInstruction,
			"workoutTargetTypeKey": "swim.instruction",
			"displayOrder":         targetSwimInstruction,
		}
		m["secondaryTargetValueOne"] = float64(s.Effort)
		m["secondaryTargetValueTwo"] = 0.0
	}

	return m
}

func repeatPayload(s Step, sport Sport, order *int) map[string]any {
	m := map[string]any{
		"type":               "RepeatGroupDTO",
		"stepOrder":          *order,
		"stepType":           stepTypePayload(StepRepeat),
		"numberOfIterations": s.RepeatCount,
		"smartRepeat":        false,
		"endCondition": map[string]any{
			"conditionTypeId":  conditionIterations,
			"conditionTypeKey": "iterations",
			"displayOrder":     conditionIterations,
			"displayable":      false,
		},
	}
	*order++

	children := make([]map[string]any, 0, len(s.Steps))
	for _, child := range s.Steps {
		children = append(children, stepPayload(child, sport, order))
	}
	m["workoutSteps"] = children

	return m
}
