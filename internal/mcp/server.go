// Package mcp exposes the workout converter over the Model Context
// Protocol, so MCP clients can turn free-text workouts into Garmin
// Connect documents without going through the HTTP API.
package mcp

import (
	"context"
	"log/slog"

	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Converter is the conversion surface the MCP tools need.
type Converter interface {
	Convert(ctx context.Context, rawText string, sport garmin.Sport) (*garmin.Workout, error)
}

// New creates an MCP server with the conversion tools and the workout
// schema resource registered.
func New(conv Converter, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("garmin-workout", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Converts free-text workout descriptions (swimming, running, cycling) into structured Garmin Connect workout documents. Swim distances are given in meters and converted to yards."),
	)

	h := &handlers{conv: conv, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolConvertWorkout, Handler: h.convertWorkout},
		server.ServerTool{Tool: toolToYards, Handler: h.toYards},
	)

	s.AddResources(
		server.ServerResource{Resource: resWorkoutSchema, Handler: h.workoutSchema},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	conv Converter
	log  *slog.Logger
}

var resWorkoutSchema = mcp.NewResource(
	"garmin://workout-schema",
	"Workout Schema",
	mcp.WithResourceDescription("The intermediate JSON schema a converted workout follows before it is mapped into a Garmin Connect document"),
	mcp.WithMIMEType("application/json"),
)
