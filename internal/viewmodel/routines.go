package viewmodel

import (
	"context"
	"log/slog"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/models"
)

// RoutineListState is the routine list screen.
type RoutineListState struct {
	Status
	Routines []models.WorkoutRoutine
}

// RoutineList loads, creates and deletes routines.
type RoutineList struct {
	Observable[RoutineListState]

	svc      api.Service
	log      *slog.Logger
	pageSize int
}

// NewRoutineList creates a RoutineList that loads api.DefaultPageSize routines.
func NewRoutineList(svc api.Service, log *slog.Logger) *RoutineList {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RoutineList{svc: svc, log: log, pageSize: api.DefaultPageSize}
}

func routineListStatus(s *RoutineListState) *Status { return &s.Status }

// Load replaces the list with the first page of routines.
func (vm *RoutineList) Load(ctx context.Context, forceNetwork bool) error {
	_, err := do(&vm.Observable, routineListStatus,
		func() ([]models.WorkoutRoutine, error) {
			return vm.svc.ListRoutines(ctx, vm.pageSize, nil, forceNetwork)
		},
		func(s *RoutineListState, routines []models.WorkoutRoutine) {
			s.Routines = routines
		})
	return err
}

// Create adds an empty routine named name and reloads the list from the
// network.
func (vm *RoutineList) Create(ctx context.Context, name string) (models.CreatedRoutine, error) {
	created, err := do(&vm.Observable, routineListStatus,
		func() (models.CreatedRoutine, error) { return vm.svc.CreateRoutine(ctx, name) },
		nil)
	if err != nil {
		return created, err
	}
	vm.log.Info("routine created", "id", created.ID, "name", created.Name)
	return created, vm.Load(ctx, true)
}

// Delete removes a routine and reloads the list from the network. It returns
// the number of routines the server removed.
func (vm *RoutineList) Delete(ctx context.Context, id string) (int, error) {
	n, err := do(&vm.Observable, routineListStatus,
		func() (int, error) { return vm.svc.DeleteRoutine(ctx, id) },
		nil)
	if err != nil {
		return 0, err
	}
	vm.log.Info("routine deleted", "id", id, "count", n)
	return n, vm.Load(ctx, true)
}
