package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/workoutlog/internal/graphql"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/wire"
)

// Client implements Service on top of a GraphQL Transport.
type Client struct {
	transport Transport
	log       *slog.Logger
}

// Compile-time check: Client satisfies Service.
var _ Service = (*Client)(nil)

// NewClient creates a Client. The transport is expected to be the single
// process-wide GraphQL client.
func NewClient(transport Transport, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{transport: transport, log: log}
}

func policyFor(forceNetwork bool) graphql.CachePolicy {
	if forceNetwork {
		return graphql.FetchIgnoringCacheData
	}
	return graphql.ReturnCacheDataElseFetch
}

func pageVariables(limit int, after *string) map[string]any {
	vars := map[string]any{"limit": limit}
	if after != nil {
		vars["after"] = *after
	}
	return vars
}

// resolve maps a transport result onto the error taxonomy and decodes data
// into out. missing is the kind reported when the response has no data.
func (c *Client) resolve(op string, resp *graphql.Response, err error, out any, missing ErrorKind) *Error {
	var apiErr *Error
	switch {
	case err != nil:
		apiErr = networkError(err)
	case resp == nil:
		apiErr = networkError(errors.New("transport returned no response"))
	case len(resp.Errors) > 0:
		apiErr = graphQLError(resp.Errors[0].Message)
	default:
		if derr := resp.Decode(out); derr != nil {
			if errors.Is(derr, graphql.ErrNoData) {
				apiErr = &Error{Kind: missing, Err: derr}
			} else {
				apiErr = parsingError(derr)
			}
		}
	}
	if apiErr != nil {
		c.log.Warn("api call failed", "op", op, "kind", apiErr.Kind.String(), "error", apiErr)
	}
	return apiErr
}

func (c *Client) fetch(ctx context.Context, op graphql.Operation, forceNetwork bool, out any, missing ErrorKind) *Error {
	policy := policyFor(forceNetwork)
	c.log.Debug("api fetch", "op", op.Name, "policy", policy.String())
	resp, err := c.transport.Fetch(ctx, op, policy)
	return c.resolve(op.Name, resp, err, out, missing)
}

func (c *Client) perform(ctx context.Context, op graphql.Operation, out any, missing ErrorKind) *Error {
	c.log.Debug("api perform", "op", op.Name)
	resp, err := c.transport.Perform(ctx, op)
	return c.resolve(op.Name, resp, err, out, missing)
}

// fail logs a post-decode failure and returns it as an error.
func (c *Client) fail(op string, e *Error) error {
	c.log.Warn("api call failed", "op", op, "kind", e.Kind.String(), "error", e)
	return e
}

func (c *Client) ListRoutines(ctx context.Context, limit int, after *string, forceNetwork bool) ([]models.WorkoutRoutine, error) {
	op := graphql.Operation{
		Name:      wire.OpWorkoutRoutines,
		Document:  wire.WorkoutRoutinesQuery,
		Variables: pageVariables(limit, after),
	}
	var data wire.WorkoutRoutinesData
	if err := c.fetch(ctx, op, forceNetwork, &data, KindUnknown); err != nil {
		return nil, err
	}
	if data.WorkoutRoutines == nil {
		return nil, c.fail(op.Name, unknownError(errors.New("workoutRoutines missing")))
	}

	routines := make([]models.WorkoutRoutine, 0, len(data.WorkoutRoutines.Edges))
	for _, edge := range data.WorkoutRoutines.Edges {
		r, err := parser.ParseWorkoutRoutine(edge.Node)
		if err != nil {
			return nil, c.fail(op.Name, parsingError(err))
		}
		routines = append(routines, r)
	}
	return routines, nil
}

func (c *Client) GetRoutine(ctx context.Context, id string, forceNetwork bool) (models.WorkoutRoutine, error) {
	op := graphql.Operation{
		Name:      wire.OpWorkoutRoutine,
		Document:  wire.WorkoutRoutineQuery,
		Variables: map[string]any{"workoutRoutineId": id},
	}
	var data wire.WorkoutRoutineData
	if err := c.fetch(ctx, op, forceNetwork, &data, KindUnknown); err != nil {
		return models.WorkoutRoutine{}, err
	}
	if data.WorkoutRoutine == nil {
		return models.WorkoutRoutine{}, c.fail(op.Name, unknownError(errors.New("workoutRoutine missing")))
	}

	r, err := parser.ParseWorkoutRoutine(*data.WorkoutRoutine)
	if err != nil {
		return models.WorkoutRoutine{}, c.fail(op.Name, parsingError(err))
	}
	return r, nil
}

func (c *Client) ListSessions(ctx context.Context, limit int, after *string, forceNetwork bool) ([]models.WorkoutSession, error) {
	op := graphql.Operation{
		Name:      wire.OpWorkoutSessions,
		Document:  wire.WorkoutSessionsQuery,
		Variables: pageVariables(limit, after),
	}
	var data wire.WorkoutSessionsData
	if err := c.fetch(ctx, op, forceNetwork, &data, KindParsing); err != nil {
		return nil, err
	}
	if data.WorkoutSessions == nil {
		return nil, c.fail(op.Name, parsingError(errors.New("workoutSessions missing")))
	}

	sessions := make([]models.WorkoutSession, 0, len(data.WorkoutSessions.Edges))
	for _, edge := range data.WorkoutSessions.Edges {
		s, err := parser.ParseWorkoutSession(edge.Node)
		if err != nil {
			return nil, c.fail(op.Name, parsingError(err))
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (c *Client) GetSession(ctx context.Context, routineID, sessionID string, forceNetwork bool) (models.WorkoutSession, error) {
	op := graphql.Operation{
		Name:     wire.OpWorkoutSession,
		Document: wire.WorkoutSessionQuery,
		Variables: map[string]any{
			"workoutRoutineId": routineID,
			"workoutSessionId": sessionID,
		},
	}
	var data wire.WorkoutSessionData
	if err := c.fetch(ctx, op, forceNetwork, &data, KindUnknown); err != nil {
		return models.WorkoutSession{}, err
	}
	if data.WorkoutSession == nil {
		return models.WorkoutSession{}, c.fail(op.Name, unknownError(errors.New("workoutSession missing")))
	}

	s, err := parser.ParseWorkoutSession(*data.WorkoutSession)
	if err != nil {
		return models.WorkoutSession{}, c.fail(op.Name, parsingError(err))
	}
	return s, nil
}

func (c *Client) ListExerciseRoutines(ctx context.Context, routineID string, forceNetwork bool) ([]models.ExerciseRoutine, error) {
	op := graphql.Operation{
		Name:      wire.OpExerciseRoutines,
		Document:  wire.ExerciseRoutinesQuery,
		Variables: map[string]any{"workoutRoutineId": routineID},
	}
	var data wire.ExerciseRoutinesData
	if err := c.fetch(ctx, op, forceNetwork, &data, KindUnknown); err != nil {
		return nil, err
	}
	if data.ExerciseRoutines == nil {
		return nil, c.fail(op.Name, unknownError(errors.New("exerciseRoutines missing")))
	}

	ers, err := parser.ParseExerciseRoutines(*data.ExerciseRoutines)
	if err != nil {
		return nil, c.fail(op.Name, parsingError(err))
	}
	return ers, nil
}

// CreateRoutine creates an empty routine. A response without the created
// routine is reported as a GraphQL error with no message.
func (c *Client) CreateRoutine(ctx context.Context, name string) (models.CreatedRoutine, error) {
	op := graphql.Operation{
		Name:     wire.OpCreateWorkoutRoutine,
		Document: wire.CreateWorkoutRoutineMutation,
		Variables: map[string]any{
			"routine": parser.WorkoutRoutineInput(models.WorkoutRoutine{Name: name}),
		},
	}
	var data wire.CreateWorkoutRoutineData
	if err := c.perform(ctx, op, &data, KindGraphQL); err != nil {
		return models.CreatedRoutine{}, err
	}
	if data.CreateWorkoutRoutine == nil {
		return models.CreatedRoutine{}, c.fail(op.Name, &Error{Kind: KindGraphQL})
	}
	return models.CreatedRoutine{
		ID:   data.CreateWorkoutRoutine.ID,
		Name: data.CreateWorkoutRoutine.Name,
	}, nil
}

// UpdateRoutine sends the full routine, including its exercise list, and
// returns the server's copy.
func (c *Client) UpdateRoutine(ctx context.Context, routine models.WorkoutRoutine) (models.WorkoutRoutine, error) {
	op := graphql.Operation{
		Name:     wire.OpUpdateWorkoutRoutine,
		Document: wire.UpdateWorkoutRoutineMutation,
		Variables: map[string]any{
			"workoutRoutine": parser.WorkoutRoutineInput(routine),
		},
	}
	var data wire.UpdateWorkoutRoutineData
	if err := c.perform(ctx, op, &data, KindUnknown); err != nil {
		return models.WorkoutRoutine{}, err
	}
	if data.UpdateWorkoutRoutine == nil {
		return models.WorkoutRoutine{}, c.fail(op.Name, unknownError(errors.New("updateWorkoutRoutine missing")))
	}

	r, err := parser.ParseWorkoutRoutine(*data.UpdateWorkoutRoutine)
	if err != nil {
		return models.WorkoutRoutine{}, c.fail(op.Name, parsingError(err))
	}
	return r, nil
}

// DeleteRoutine returns the number of routines the server removed.
func (c *Client) DeleteRoutine(ctx context.Context, id string) (int, error) {
	op := graphql.Operation{
		Name:      wire.OpDeleteWorkoutRoutine,
		Document:  wire.DeleteWorkoutRoutineMutation,
		Variables: map[string]any{"workoutRoutineId": id},
	}
	var data wire.DeleteWorkoutRoutineData
	if err := c.perform(ctx, op, &data, KindUnknown); err != nil {
		return 0, err
	}
	if data.DeleteWorkoutRoutine == nil {
		return 0, c.fail(op.Name, unknownError(errors.New("deleteWorkoutRoutine missing")))
	}
	return *data.DeleteWorkoutRoutine, nil
}

// StartSession creates a session with no exercises and returns its ID.
func (c *Client) StartSession(ctx context.Context, routineID string, start time.Time) (string, error) {
	op := graphql.Operation{
		Name:     wire.OpAddWorkoutSession,
		Document: wire.AddWorkoutSessionMutation,
		Variables: map[string]any{
			"workout": parser.WorkoutSessionInput(models.WorkoutSession{
				WorkoutRoutineID: routineID,
				Start:            start,
			}),
		},
	}
	var data wire.AddWorkoutSessionData
	return c.performID(ctx, op, &data, func() *string { return data.AddWorkoutSession })
}

// AddExercise instantiates an exercise routine inside a session.
func (c *Client) AddExercise(ctx context.Context, sessionID, exerciseRoutineID string) (string, error) {
	op := graphql.Operation{
		Name:     wire.OpAddExercise,
		Document: wire.AddExerciseMutation,
		Variables: map[string]any{
			"workoutSessionId": sessionID,
			"exercise": parser.ExerciseInput(models.Exercise{
				ExerciseRoutineID: exerciseRoutineID,
			}),
		},
	}
	var data wire.AddExerciseData
	return c.performID(ctx, op, &data, func() *string { return data.AddExercise })
}

// AddSetEntry records a set against an exercise instance.
func (c *Client) AddSetEntry(ctx context.Context, exerciseID string, entry models.SetEntry) (string, error) {
	op := graphql.Operation{
		Name:     wire.OpAddSet,
		Document: wire.AddSetMutation,
		Variables: map[string]any{
			"exerciseId": exerciseID,
			"set":        parser.SetEntryInput(entry),
		},
	}
	var data wire.AddSetData
	return c.performID(ctx, op, &data, func() *string { return data.AddSet })
}

// performID runs a mutation whose payload is a single new identifier.
func (c *Client) performID(ctx context.Context, op graphql.Operation, out any, field func() *string) (string, error) {
	if err := c.perform(ctx, op, out, KindUnknown); err != nil {
		return "", err
	}
	id := field()
	if id == nil || *id == "" {
		return "", c.fail(op.Name, unknownError(fmt.Errorf("%s returned no id", op.Name)))
	}
	return *id, nil
}
