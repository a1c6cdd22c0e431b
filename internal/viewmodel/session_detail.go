package viewmodel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/models"
)

// ErrNoSession is returned by actions that need a loaded session.
var ErrNoSession = errors.New("no session loaded")

// SessionDetailState is the session screen: the session itself and the
// routine's exercises offered by the exercise picker.
type SessionDetailState struct {
	Status
	Session          models.WorkoutSession
	ExerciseRoutines []models.ExerciseRoutine
}

// SessionDetail shows one session and records exercises and sets in it.
type SessionDetail struct {
	Observable[SessionDetailState]

	svc api.Service
	log *slog.Logger
}

// NewSessionDetail creates an empty SessionDetail.
func NewSessionDetail(svc api.Service, log *slog.Logger) *SessionDetail {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SessionDetail{svc: svc, log: log}
}

func sessionDetailStatus(s *SessionDetailState) *Status { return &s.Status }

type sessionDetail struct {
	session    models.WorkoutSession
	sessionErr error
	ers        []models.ExerciseRoutine
	ersErr     error
}

// Load fetches the session and its routine's exercises concurrently. Each
// half that succeeds replaces its data even when the other fails.
func (vm *SessionDetail) Load(ctx context.Context, routineID, sessionID string, forceNetwork bool) error {
	var res sessionDetail
	_, err := do(&vm.Observable, sessionDetailStatus,
		func() (struct{}, error) {
			sessionDone := api.Go(ctx, api.Inline,
				func(ctx context.Context) (models.WorkoutSession, error) {
					return vm.svc.GetSession(ctx, routineID, sessionID, forceNetwork)
				},
				func(s models.WorkoutSession, err error) { res.session, res.sessionErr = s, err })
			ersDone := api.Go(ctx, api.Inline,
				func(ctx context.Context) ([]models.ExerciseRoutine, error) {
					return vm.svc.ListExerciseRoutines(ctx, routineID, forceNetwork)
				},
				func(ers []models.ExerciseRoutine, err error) { res.ers, res.ersErr = ers, err })
			<-sessionDone
			<-ersDone

			vm.update(func(s *SessionDetailState) {
				if res.sessionErr == nil {
					s.Session = res.session
				}
				if res.ersErr == nil {
					s.ExerciseRoutines = res.ers
				}
			})
			if res.sessionErr != nil {
				return struct{}{}, res.sessionErr
			}
			return struct{}{}, res.ersErr
		},
		nil)
	return err
}

// AddExercise instantiates an exercise routine in the loaded session and
// reloads the session from the network.
func (vm *SessionDetail) AddExercise(ctx context.Context, exerciseRoutineID string) (string, error) {
	session := vm.Snapshot().Session
	if session.ID == "" {
		return "", ErrNoSession
	}
	id, err := do(&vm.Observable, sessionDetailStatus,
		func() (string, error) { return vm.svc.AddExercise(ctx, session.ID, exerciseRoutineID) },
		nil)
	if err != nil {
		return "", err
	}
	vm.log.Info("exercise added", "session", session.ID, "exercise", id)
	return id, vm.Load(ctx, session.WorkoutRoutineID, session.ID, true)
}

// AddSet records a set for an exercise of the loaded session and reloads the
// session from the network.
func (vm *SessionDetail) AddSet(ctx context.Context, exerciseID string, entry models.SetEntry) (string, error) {
	session := vm.Snapshot().Session
	if session.ID == "" {
		return "", ErrNoSession
	}
	id, err := do(&vm.Observable, sessionDetailStatus,
		func() (string, error) { return vm.svc.AddSetEntry(ctx, exerciseID, entry) },
		nil)
	if err != nil {
		return "", err
	}
	vm.log.Info("set added", "exercise", exerciseID, "set", id)
	return id, vm.Load(ctx, session.WorkoutRoutineID, session.ID, true)
}
