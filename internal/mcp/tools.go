package mcp

import (
	"context"

	"github.com/ddrmaster1000/garmin-workout/internal/convert"
	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolConvertWorkout = mcp.NewTool("convert_workout",
	mcp.WithDescription("Convert a free-text workout description into a structured Garmin Connect workout document. Swim distances in the input are meters and come back as yards."),
	mcp.WithString("workout_text", mcp.Required(), mcp.Description("The workout description, e.g. a Wahoo plan export")),
	mcp.WithString("sport", mcp.Required(), mcp.Description("The sport the workout is for"), mcp.Enum("swimming", "running", "cycling")),
)

var toolToYards = mcp.NewTool("to_yards",
	mcp.WithDescription("Convert a swim distance from meters to yards. Standard pool lengths (25, 50, 100, 200) pass through unchanged; everything else is multiplied by 1.09361."),
	mcp.WithNumber("meters", mcp.Required(), mcp.Description("Distance in meters")),
)

// --- Tool handlers ---

func (h *handlers) convertWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("workout_text")
	if err != nil {
		return mcp.NewToolResultError("workout_text parameter is required"), nil
	}

	sportStr, err := req.RequireString("sport")
	if err != nil {
		return mcp.NewToolResultError("sport parameter is required"), nil
	}
	sport, err := garmin.ParseSport(sportStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workout, err := h.conv.Convert(ctx, text, sport)
	if err != nil {
		h.log.Error("mcp convert_workout", "sport", sport, "error", err)
		return mcp.NewToolResultError("conversion failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout.Payload())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) toYards(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meters, err := req.RequireFloat("meters")
	if err != nil {
		return mcp.NewToolResultError("meters parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]float64{
		"meters": meters,
		"yards":  convert.ToYards(meters),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) workoutSchema(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     convert.SchemaDoc,
		},
	}, nil
}
