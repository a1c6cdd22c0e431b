package mcp

import (
	"log/slog"

	"github.com/claude/workoutlog/internal/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(svc api.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("WorkoutLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("WorkoutLog workout tracker. Define routines of exercises with target sets and reps, start sessions against a routine, and record the sets performed. Reads may be served from cache; pass refresh=true to read the server's current state."),
	)

	h := &handlers{svc: svc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListRoutines, Handler: h.listRoutines},
		server.ServerTool{Tool: toolGetRoutine, Handler: h.getRoutine},
		server.ServerTool{Tool: toolListExerciseRoutines, Handler: h.listExerciseRoutines},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolCreateRoutine, Handler: h.createRoutine},
		server.ServerTool{Tool: toolUpdateRoutine, Handler: h.updateRoutine},
		server.ServerTool{Tool: toolDeleteRoutine, Handler: h.deleteRoutine},
		server.ServerTool{Tool: toolStartSession, Handler: h.startSession},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
		server.ServerTool{Tool: toolAddSet, Handler: h.addSet},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRoutines, Handler: h.routines},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc api.Service
	log *slog.Logger
}

// --- Resource definitions ---

var resRoutines = mcp.NewResource(
	"workoutlog://routines",
	"Routines",
	mcp.WithResourceDescription("All workout routines with their exercises and target sets/reps"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"workoutlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The most recent workout sessions with recorded exercises and sets"),
	mcp.WithMIMEType("application/json"),
)
