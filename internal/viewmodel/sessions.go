package viewmodel

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/models"
)

// SessionPageSize is the number of sessions the session list shows.
const SessionPageSize = 8

// SessionListState is the session list screen.
type SessionListState struct {
	Status
	Sessions []models.WorkoutSession
}

// SessionList loads recent sessions and starts new ones.
type SessionList struct {
	Observable[SessionListState]

	svc api.Service
	log *slog.Logger
}

// NewSessionList creates an empty SessionList.
func NewSessionList(svc api.Service, log *slog.Logger) *SessionList {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SessionList{svc: svc, log: log}
}

func sessionListStatus(s *SessionListState) *Status { return &s.Status }

// Load replaces the list with the first page of sessions.
func (vm *SessionList) Load(ctx context.Context, forceNetwork bool) error {
	_, err := do(&vm.Observable, sessionListStatus,
		func() ([]models.WorkoutSession, error) {
			return vm.svc.ListSessions(ctx, SessionPageSize, nil, forceNetwork)
		},
		func(s *SessionListState, sessions []models.WorkoutSession) {
			s.Sessions = sessions
		})
	return err
}

// Start records a new session for routineID and reloads the list from the
// network. It returns the new session's id.
func (vm *SessionList) Start(ctx context.Context, routineID string, start time.Time) (string, error) {
	id, err := do(&vm.Observable, sessionListStatus,
		func() (string, error) { return vm.svc.StartSession(ctx, routineID, start) },
		nil)
	if err != nil {
		return "", err
	}
	vm.log.Info("session started", "id", id, "routine", routineID)
	return id, vm.Load(ctx, true)
}
