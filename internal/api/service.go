// Package api is the single gateway to the workout-tracking GraphQL backend.
// Every operation resolves failures into an *Error before returning.
package api

import (
	"context"
	"time"

	"github.com/claude/workoutlog/internal/graphql"
	"github.com/claude/workoutlog/internal/models"
)

// Service is the full-arity contract used by view-models, the CLI and the MCP
// tools. Reads take forceNetwork: false prefers cached data, true always goes
// to the network and refreshes the cache. Mutations always go to the network
// and do not invalidate cached reads; re-fetch with forceNetwork to observe
// their effect.
type Service interface {
	ListRoutines(ctx context.Context, limit int, after *string, forceNetwork bool) ([]models.WorkoutRoutine, error)
	GetRoutine(ctx context.Context, id string, forceNetwork bool) (models.WorkoutRoutine, error)
	ListSessions(ctx context.Context, limit int, after *string, forceNetwork bool) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, routineID, sessionID string, forceNetwork bool) (models.WorkoutSession, error)
	ListExerciseRoutines(ctx context.Context, routineID string, forceNetwork bool) ([]models.ExerciseRoutine, error)

	CreateRoutine(ctx context.Context, name string) (models.CreatedRoutine, error)
	UpdateRoutine(ctx context.Context, routine models.WorkoutRoutine) (models.WorkoutRoutine, error)
	DeleteRoutine(ctx context.Context, id string) (int, error)
	StartSession(ctx context.Context, routineID string, start time.Time) (string, error)
	AddExercise(ctx context.Context, sessionID, exerciseRoutineID string) (string, error)
	AddSetEntry(ctx context.Context, exerciseID string, entry models.SetEntry) (string, error)
}

// Transport is the GraphQL collaborator. *graphql.Client satisfies it.
type Transport interface {
	Fetch(ctx context.Context, op graphql.Operation, policy graphql.CachePolicy) (*graphql.Response, error)
	Perform(ctx context.Context, op graphql.Operation) (*graphql.Response, error)
}

var _ Transport = (*graphql.Client)(nil)

// DefaultPageSize is used by the convenience helpers below.
const DefaultPageSize = 20

// Routines lists the first page of routines, preferring cached data.
func Routines(ctx context.Context, s Service, limit int) ([]models.WorkoutRoutine, error) {
	return s.ListRoutines(ctx, limit, nil, false)
}

// Routine fetches one routine, preferring cached data.
func Routine(ctx context.Context, s Service, id string) (models.WorkoutRoutine, error) {
	return s.GetRoutine(ctx, id, false)
}

// Sessions lists the first page of sessions, preferring cached data.
func Sessions(ctx context.Context, s Service, limit int) ([]models.WorkoutSession, error) {
	return s.ListSessions(ctx, limit, nil, false)
}

// Session fetches one session, preferring cached data.
func Session(ctx context.Context, s Service, routineID, sessionID string) (models.WorkoutSession, error) {
	return s.GetSession(ctx, routineID, sessionID, false)
}

// ExerciseRoutines lists a routine's exercises, preferring cached data.
func ExerciseRoutines(ctx context.Context, s Service, routineID string) ([]models.ExerciseRoutine, error) {
	return s.ListExerciseRoutines(ctx, routineID, false)
}
