// Package graphqltest provides an in-memory workout GraphQL backend for tests.
// It understands the operations in package wire, dispatching on the
// operation name rather than parsing documents.
package graphqltest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/wire"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Path is the endpoint path the backend serves.
const Path = "/graphql"

type request struct {
	Query         string                     `json:"query"`
	Variables     map[string]json.RawMessage `json:"variables"`
	OperationName string                     `json:"operationName"`
}

type gqlError struct {
	Message string `json:"message"`
}

// Backend is an http.Handler holding routines and sessions in memory.
type Backend struct {
	mu       sync.Mutex
	routines []*wire.WorkoutRoutineFull
	sessions []*wire.WorkoutSessionFull
	calls    map[string]int
	failNext map[string][]string
	omitNext map[string]int
	down     bool

	router chi.Router
	log    *slog.Logger
}

// NewBackend creates an empty backend.
func NewBackend(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	b := &Backend{
		calls:    make(map[string]int),
		failNext: make(map[string][]string),
		omitNext: make(map[string]int),
		router:   chi.NewRouter(),
		log:      log,
	}
	b.router.Use(requestLogging(log))
	b.router.Post(Path, b.handle)
	return b
}

// NewServer starts an httptest server for a fresh backend and returns the
// endpoint URL. The server is closed when the test ends.
func NewServer(t testing.TB) (string, *Backend) {
	t.Helper()
	b := NewBackend(nil)
	ts := httptest.NewServer(b)
	t.Cleanup(ts.Close)
	return ts.URL + Path, b
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Calls returns how many requests named op reached the backend.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls returns the number of requests of any operation.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// FailNext makes the next request named op answer with GraphQL errors
// carrying messages, in order.
func (b *Backend) FailNext(op string, messages ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext[op] = append(b.failNext[op], messages...)
}

// OmitNext makes the next request named op answer with an empty data object.
func (b *Backend) OmitNext(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.omitNext[op]++
}

// SetDown makes every request fail with 503 and no GraphQL body.
func (b *Backend) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls[req.OperationName]++

	if b.down {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	if msgs := b.failNext[req.OperationName]; len(msgs) > 0 {
		delete(b.failNext, req.OperationName)
		errs := make([]gqlError, 0, len(msgs))
		for _, m := range msgs {
			errs = append(errs, gqlError{Message: m})
		}
		writeJSON(w, map[string]any{"data": nil, "errors": errs})
		return
	}
	if b.omitNext[req.OperationName] > 0 {
		b.omitNext[req.OperationName]--
		writeJSON(w, map[string]any{"data": map[string]any{}})
		return
	}

	data, err := b.dispatch(req)
	if err != nil {
		b.log.Debug("graphql backend error", "op", req.OperationName, "error", err)
		writeJSON(w, map[string]any{"data": nil, "errors": []gqlError{{Message: err.Error()}}})
		return
	}
	writeJSON(w, map[string]any{"data": data})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func variable[T any](req request, name string) (T, error) {
	var v T
	raw, ok := req.Variables[name]
	if !ok {
		return v, fmt.Errorf("variable $%s is required", name)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("variable $%s: %w", name, err)
	}
	return v, nil
}

func optionalString(req request, name string) string {
	raw, ok := req.Variables[name]
	if !ok {
		return ""
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return ""
	}
	return *s
}

func (b *Backend) dispatch(req request) (any, error) {
	switch req.OperationName {
	case wire.OpWorkoutRoutines:
		return b.workoutRoutines(req)
	case wire.OpWorkoutRoutine:
		return b.workoutRoutine(req)
	case wire.OpWorkoutSessions:
		return b.workoutSessions(req)
	case wire.OpWorkoutSession:
		return b.workoutSession(req)
	case wire.OpExerciseRoutines:
		return b.exerciseRoutines(req)
	case wire.OpCreateWorkoutRoutine:
		return b.createWorkoutRoutine(req)
	case wire.OpUpdateWorkoutRoutine:
		return b.updateWorkoutRoutine(req)
	case wire.OpDeleteWorkoutRoutine:
		return b.deleteWorkoutRoutine(req)
	case wire.OpAddWorkoutSession:
		return b.addWorkoutSession(req)
	case wire.OpAddExercise:
		return b.addExercise(req)
	case wire.OpAddSet:
		return b.addSet(req)
	default:
		return nil, fmt.Errorf("unknown operation %q", req.OperationName)
	}
}

// page returns the [start, end) window after the element whose id is after.
func page(ids []string, limit int, after string) (int, int) {
	start := 0
	if after != "" {
		if i := slices.Index(ids, after); i >= 0 {
			start = i + 1
		}
	}
	end := len(ids)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return start, end
}

func pageInfo(ids []string, start, end int) wire.PageInfo {
	info := wire.PageInfo{HasNextPage: end < len(ids)}
	if end > start {
		last := ids[end-1]
		info.EndCursor = &last
	}
	return info
}

func (b *Backend) workoutRoutines(req request) (any, error) {
	limit, err := variable[int](req, "limit")
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(b.routines))
	for i, r := range b.routines {
		ids[i] = r.ID
	}
	start, end := page(ids, limit, optionalString(req, "after"))

	conn := wire.WorkoutRoutineConnection{Edges: []wire.WorkoutRoutineEdge{}, PageInfo: pageInfo(ids, start, end)}
	for _, r := range b.routines[start:end] {
		conn.Edges = append(conn.Edges, wire.WorkoutRoutineEdge{Cursor: r.ID, Node: *r})
	}
	return wire.WorkoutRoutinesData{WorkoutRoutines: &conn}, nil
}

func (b *Backend) findRoutine(id string) (int, *wire.WorkoutRoutineFull) {
	for i, r := range b.routines {
		if r.ID == id {
			return i, r
		}
	}
	return -1, nil
}

func (b *Backend) workoutRoutine(req request) (any, error) {
	id, err := variable[string](req, "workoutRoutineId")
	if err != nil {
		return nil, err
	}
	_, r := b.findRoutine(id)
	if r == nil {
		return nil, fmt.Errorf("workout routine %s not found", id)
	}
	return wire.WorkoutRoutineData{WorkoutRoutine: r}, nil
}

func (b *Backend) exerciseRoutines(req request) (any, error) {
	id, err := variable[string](req, "workoutRoutineId")
	if err != nil {
		return nil, err
	}
	_, r := b.findRoutine(id)
	if r == nil {
		return nil, fmt.Errorf("workout routine %s not found", id)
	}
	ers := slices.Clone(r.ExerciseRoutines)
	if ers == nil {
		ers = []wire.ExerciseRoutineFull{}
	}
	return wire.ExerciseRoutinesData{ExerciseRoutines: &ers}, nil
}

func (b *Backend) workoutSessions(req request) (any, error) {
	limit, err := variable[int](req, "limit")
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(b.sessions))
	for i, s := range b.sessions {
		ids[i] = s.ID
	}
	start, end := page(ids, limit, optionalString(req, "after"))

	conn := wire.WorkoutSessionConnection{Edges: []wire.WorkoutSessionEdge{}, PageInfo: pageInfo(ids, start, end)}
	for _, s := range b.sessions[start:end] {
		conn.Edges = append(conn.Edges, wire.WorkoutSessionEdge{Cursor: s.ID, Node: *s})
	}
	return wire.WorkoutSessionsData{WorkoutSessions: &conn}, nil
}

func (b *Backend) findSession(id string) *wire.WorkoutSessionFull {
	for _, s := range b.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (b *Backend) workoutSession(req request) (any, error) {
	routineID, err := variable[string](req, "workoutRoutineId")
	if err != nil {
		return nil, err
	}
	sessionID, err := variable[string](req, "workoutSessionId")
	if err != nil {
		return nil, err
	}
	s := b.findSession(sessionID)
	if s == nil || s.WorkoutRoutineID != routineID {
		return nil, fmt.Errorf("workout session %s not found for routine %s", sessionID, routineID)
	}
	return wire.WorkoutSessionData{WorkoutSession: s}, nil
}

func exerciseRoutinesFromInput(in []wire.ExerciseRoutineInput) ([]wire.ExerciseRoutineFull, error) {
	out := make([]wire.ExerciseRoutineFull, 0, len(in))
	for _, er := range in {
		if er.Sets < 0 || er.Reps < 0 {
			return nil, fmt.Errorf("exercise %q: sets and reps must be non-negative", er.Name)
		}
		id := er.ID
		if id == "" {
			id = uuid.NewString()
		}
		sets, reps := er.Sets, er.Reps
		out = append(out, wire.ExerciseRoutineFull{ID: id, Name: er.Name, Sets: &sets, Reps: &reps})
	}
	return out, nil
}

func (b *Backend) createWorkoutRoutine(req request) (any, error) {
	in, err := variable[wire.WorkoutRoutineInput](req, "routine")
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("routine name is required")
	}
	ers, err := exerciseRoutinesFromInput(in.ExerciseRoutines)
	if err != nil {
		return nil, err
	}
	r := &wire.WorkoutRoutineFull{ID: uuid.NewString(), Name: in.Name, ExerciseRoutines: ers}
	b.routines = append(b.routines, r)
	return wire.CreateWorkoutRoutineData{
		CreateWorkoutRoutine: &wire.CreatedWorkoutRoutine{ID: r.ID, Name: r.Name},
	}, nil
}

func (b *Backend) updateWorkoutRoutine(req request) (any, error) {
	in, err := variable[wire.WorkoutRoutineInput](req, "workoutRoutine")
	if err != nil {
		return nil, err
	}
	_, r := b.findRoutine(in.ID)
	if r == nil {
		return nil, fmt.Errorf("workout routine %s not found", in.ID)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("routine name is required")
	}
	ers, err := exerciseRoutinesFromInput(in.ExerciseRoutines)
	if err != nil {
		return nil, err
	}
	r.Name = in.Name
	r.ExerciseRoutines = ers
	return wire.UpdateWorkoutRoutineData{UpdateWorkoutRoutine: r}, nil
}

func (b *Backend) deleteWorkoutRoutine(req request) (any, error) {
	id, err := variable[string](req, "workoutRoutineId")
	if err != nil {
		return nil, err
	}
	deleted := 0
	if i, _ := b.findRoutine(id); i >= 0 {
		b.routines = slices.Delete(b.routines, i, i+1)
		b.sessions = slices.DeleteFunc(b.sessions, func(s *wire.WorkoutSessionFull) bool {
			return s.WorkoutRoutineID == id
		})
		deleted = 1
	}
	return wire.DeleteWorkoutRoutineData{DeleteWorkoutRoutine: &deleted}, nil
}

func (b *Backend) addWorkoutSession(req request) (any, error) {
	in, err := variable[wire.WorkoutSessionInput](req, "workout")
	if err != nil {
		return nil, err
	}
	if _, r := b.findRoutine(in.WorkoutRoutineID); r == nil {
		return nil, fmt.Errorf("workout routine %s not found", in.WorkoutRoutineID)
	}
	start, err := time.Parse(parser.TimeLayout, in.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	s := &wire.WorkoutSessionFull{
		ID:               uuid.NewString(),
		WorkoutRoutineID: in.WorkoutRoutineID,
		Start:            parser.FormatTime(start),
		Exercises:        []wire.ExerciseFull{},
	}
	b.sessions = append(b.sessions, s)
	id := s.ID
	return wire.AddWorkoutSessionData{AddWorkoutSession: &id}, nil
}

func (b *Backend) addExercise(req request) (any, error) {
	sessionID, err := variable[string](req, "workoutSessionId")
	if err != nil {
		return nil, err
	}
	in, err := variable[wire.ExerciseInput](req, "exercise")
	if err != nil {
		return nil, err
	}
	s := b.findSession(sessionID)
	if s == nil {
		return nil, fmt.Errorf("workout session %s not found", sessionID)
	}
	_, r := b.findRoutine(s.WorkoutRoutineID)
	if r == nil {
		return nil, fmt.Errorf("workout routine %s not found", s.WorkoutRoutineID)
	}
	idx := slices.IndexFunc(r.ExerciseRoutines, func(er wire.ExerciseRoutineFull) bool {
		return er.ID == in.ExerciseRoutineID
	})
	if idx < 0 {
		return nil, fmt.Errorf("exercise routine %s not in routine %s", in.ExerciseRoutineID, r.ID)
	}

	name := r.ExerciseRoutines[idx].Name
	notes := in.Notes
	e := wire.ExerciseFull{
		ID:                uuid.NewString(),
		ExerciseRoutineID: in.ExerciseRoutineID,
		Name:              &name,
		Notes:             &notes,
		SetEntries:        []wire.SetEntryFull{},
	}
	s.Exercises = append(s.Exercises, e)
	return wire.AddExerciseData{AddExercise: &e.ID}, nil
}

func (b *Backend) addSet(req request) (any, error) {
	exerciseID, err := variable[string](req, "exerciseId")
	if err != nil {
		return nil, err
	}
	in, err := variable[wire.SetEntryInput](req, "set")
	if err != nil {
		return nil, err
	}
	if in.Weight < 0 || in.Reps < 0 {
		return nil, fmt.Errorf("weight and reps must be non-negative")
	}
	for _, s := range b.sessions {
		for i := range s.Exercises {
			e := &s.Exercises[i]
			if e.ID != exerciseID {
				continue
			}
			weight, reps, unit, notes := in.Weight, in.Reps, in.Unit, in.Notes
			set := wire.SetEntryFull{ID: uuid.NewString(), Weight: &weight, Reps: &reps, Unit: &unit, Notes: &notes}
			e.SetEntries = append(e.SetEntries, set)
			return wire.AddSetData{AddSet: &set.ID}, nil
		}
	}
	return nil, fmt.Errorf("exercise %s not found", exerciseID)
}
