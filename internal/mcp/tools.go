package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseFlexTime accepts RFC 3339 or a bare date. Empty means now.
func parseFlexTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// optionalCursor turns an empty "after" argument into the first page.
func optionalCursor(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sessionSummary adds derived totals to a session.
type sessionSummary struct {
	models.WorkoutSession
	SetCount int     `json:"setCount"`
	Volume   float64 `json:"volume"`
}

func summarize(s models.WorkoutSession) sessionSummary {
	return sessionSummary{WorkoutSession: s, SetCount: s.SetCount(), Volume: s.Volume()}
}

// --- Tool definitions ---

var refreshOption = mcp.WithBoolean("refresh", mcp.Description("Bypass the local cache and read from the server. Defaults to false."))

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List workout routines with their exercises and target sets/reps, in server order."),
	mcp.WithNumber("limit", mcp.Description("Page size. Defaults to 20.")),
	mcp.WithString("after", mcp.Description("Cursor: the id of the last routine of the previous page.")),
	refreshOption,
)

var toolGetRoutine = mcp.NewTool("get_routine",
	mcp.WithDescription("Get one workout routine by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Routine id")),
	refreshOption,
)

var toolListExerciseRoutines = mcp.NewTool("list_exercise_routines",
	mcp.WithDescription("List the exercises defined in a routine. Use their ids with add_exercise."),
	mcp.WithString("routine_id", mcp.Required(), mcp.Description("Routine id")),
	refreshOption,
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List workout sessions with recorded exercises and sets, plus set count and volume (weight x reps) per session."),
	mcp.WithNumber("limit", mcp.Description("Page size. Defaults to 8.")),
	mcp.WithString("after", mcp.Description("Cursor: the id of the last session of the previous page.")),
	refreshOption,
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get one workout session with its exercises and sets."),
	mcp.WithString("routine_id", mcp.Required(), mcp.Description("Routine the session was recorded against")),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	refreshOption,
)

var toolCreateRoutine = mcp.NewTool("create_routine",
	mcp.WithDescription("Create an empty workout routine. Add exercises with update_routine."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Routine name, e.g. 'Legs'")),
)

var toolUpdateRoutine = mcp.NewTool("update_routine",
	mcp.WithDescription("Replace a routine's name and full exercise list. Exercises without an id are created; existing exercises omitted from the list are removed."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Routine id")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Routine name")),
	mcp.WithString("exercises", mcp.Description(`JSON array of exercises, e.g. [{"id":"...","name":"Squat","sets":5,"reps":5}]. Defaults to none.`)),
)

var toolDeleteRoutine = mcp.NewTool("delete_routine",
	mcp.WithDescription("Delete a workout routine. Returns the number of routines removed."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Routine id")),
)

var toolStartSession = mcp.NewTool("start_session",
	mcp.WithDescription("Start a workout session against a routine. Returns the new session id."),
	mcp.WithString("routine_id", mcp.Required(), mcp.Description("Routine id")),
	mcp.WithString("start", mcp.Description("Start time (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolAddExercise = mcp.NewTool("add_exercise",
	mcp.WithDescription("Add one of the routine's exercises to a session. Returns the new exercise id for add_set."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	mcp.WithString("exercise_routine_id", mcp.Required(), mcp.Description("Exercise id from list_exercise_routines")),
)

var toolAddSet = mcp.NewTool("add_set",
	mcp.WithDescription("Record a performed set for an exercise in a session. Returns the new set id."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id from add_exercise or get_session")),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
	mcp.WithString("unit", mcp.Description("Weight unit, e.g. kg or lb")),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
)

// --- Tool handlers ---

// toolResult serializes v, or reports err as a tool error.
func (h *handlers) toolResult(tool string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", api.DefaultPageSize)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	routines, err := h.svc.ListRoutines(ctx, limit, optionalCursor(req.GetString("after", "")), req.GetBool("refresh", false))
	return h.toolResult("list_routines", routines, err)
}

func (h *handlers) getRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	routine, err := h.svc.GetRoutine(ctx, id, req.GetBool("refresh", false))
	return h.toolResult("get_routine", routine, err)
}

func (h *handlers) listExerciseRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routineID, err := req.RequireString("routine_id")
	if err != nil {
		return mcp.NewToolResultError("routine_id parameter is required"), nil
	}
	ers, err := h.svc.ListExerciseRoutines(ctx, routineID, req.GetBool("refresh", false))
	return h.toolResult("list_exercise_routines", ers, err)
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 8)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	sessions, err := h.svc.ListSessions(ctx, limit, optionalCursor(req.GetString("after", "")), req.GetBool("refresh", false))
	if err != nil {
		return h.toolResult("list_sessions", nil, err)
	}
	summaries := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, summarize(s))
	}
	return h.toolResult("list_sessions", summaries, nil)
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routineID, err := req.RequireString("routine_id")
	if err != nil {
		return mcp.NewToolResultError("routine_id parameter is required"), nil
	}
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	session, err := h.svc.GetSession(ctx, routineID, sessionID, req.GetBool("refresh", false))
	if err != nil {
		return h.toolResult("get_session", nil, err)
	}
	return h.toolResult("get_session", summarize(session), nil)
}

func (h *handlers) createRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	created, err := h.svc.CreateRoutine(ctx, name)
	return h.toolResult("create_routine", created, err)
}

func (h *handlers) updateRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	name, err := req.RequireString("name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	routine := models.WorkoutRoutine{ID: id, Name: name, ExerciseRoutines: []models.ExerciseRoutine{}}
	if raw := req.GetString("exercises", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &routine.ExerciseRoutines); err != nil {
			return mcp.NewToolResultError("invalid exercises: " + err.Error()), nil
		}
	}
	for i, er := range routine.ExerciseRoutines {
		if er.Sets < 0 || er.Reps < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("exercise %d: sets and reps must be non-negative", i)), nil
		}
	}

	updated, err := h.svc.UpdateRoutine(ctx, routine)
	return h.toolResult("update_routine", updated, err)
}

func (h *handlers) deleteRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	n, err := h.svc.DeleteRoutine(ctx, id)
	return h.toolResult("delete_routine", map[string]int{"deleted": n}, err)
}

func (h *handlers) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routineID, err := req.RequireString("routine_id")
	if err != nil {
		return mcp.NewToolResultError("routine_id parameter is required"), nil
	}
	start, err := parseFlexTime(req.GetString("start", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	id, err := h.svc.StartSession(ctx, routineID, start)
	return h.toolResult("start_session", map[string]string{"id": id}, err)
}

func (h *handlers) addExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	exerciseRoutineID, err := req.RequireString("exercise_routine_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_routine_id parameter is required"), nil
	}
	id, err := h.svc.AddExercise(ctx, sessionID, exerciseRoutineID)
	return h.toolResult("add_exercise", map[string]string{"id": id}, err)
}

func (h *handlers) addSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	if weight < 0 || reps < 0 {
		return mcp.NewToolResultError("weight and reps must be non-negative"), nil
	}

	entry := models.SetEntry{
		Weight: weight,
		Reps:   reps,
		Unit:   req.GetString("unit", ""),
		Notes:  req.GetString("notes", ""),
	}
	id, err := h.svc.AddSetEntry(ctx, exerciseID, entry)
	return h.toolResult("add_set", map[string]string{"id": id}, err)
}
