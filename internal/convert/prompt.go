package convert

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
)

//go:embed system_prompt.txt
var promptTemplate string

// SchemaDoc is the intermediate JSON schema the model is instructed to emit.
// It is spliced into the system prompt and also published as an MCP resource.
const SchemaDoc = `{
  "workoutName": "string",
  "segments": [
    {
      "name": "string",
      "steps": [
        {
          "type": "warmup|interval|recovery|rest|cooldown",
          "distance": 100,
          "duration": 20,
          "intensity": "RPE 3-4 -- Z2",
          "effort": 2
        },
        {
          "type": "repeat",
          "repeatCount": 6,
          "steps": []
        }
      ]
    }
  ]
}`

// jsonPrefill is sent as the start of the assistant turn so the model emits
// the payload immediately instead of leading with prose.
const jsonPrefill = "```json"

func systemPrompt() string {
	return strings.Replace(promptTemplate, "{schema}", SchemaDoc, 1)
}

// userMessage embeds the raw export verbatim and frames the units the sport
// conventionally uses, so interval quantities come back in predictable units.
func userMessage(rawText string, sport garmin.Sport) string {
	var frame string
	switch sport {
	case garmin.SportSwimming:
		frame = "This is a swimming workout. Interval distances are in meters."
	case garmin.SportRunning:
		frame = "This is a running workout. Express distances in miles and durations in seconds."
	case garmin.SportCycling:
		frame = "This is a cycling workout. Express distances in miles and durations in seconds."
	}

	return fmt.Sprintf(`Convert this %s workout to the JSON workout document.
%s

%s`, sport, frame, rawText)
}
