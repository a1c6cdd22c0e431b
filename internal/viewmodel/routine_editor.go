package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/models"
)

// ErrBusy is returned by local edits attempted while an action is in flight.
var ErrBusy = errors.New("routine is loading")

// RoutineEditorState is the edit-routine screen. Routine is the last copy
// read from the server; Draft holds local edits until Save.
type RoutineEditorState struct {
	Status
	Routine models.WorkoutRoutine
	Draft   models.WorkoutRoutine
	// EditErr is the message of the last failed Save.
	EditErr string
}

// Dirty reports whether the draft differs from the server copy.
func (s RoutineEditorState) Dirty() bool {
	return s.Draft.Name != s.Routine.Name ||
		!slices.Equal(s.Draft.ExerciseRoutines, s.Routine.ExerciseRoutines)
}

// RoutineEditor loads one routine and saves edits to it.
type RoutineEditor struct {
	Observable[RoutineEditorState]

	svc api.Service
	log *slog.Logger
}

// NewRoutineEditor creates an empty editor.
func NewRoutineEditor(svc api.Service, log *slog.Logger) *RoutineEditor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RoutineEditor{svc: svc, log: log}
}

func editorStatus(s *RoutineEditorState) *Status { return &s.Status }

// Load fetches the routine and resets the draft to it.
func (vm *RoutineEditor) Load(ctx context.Context, id string, forceNetwork bool) error {
	_, err := do(&vm.Observable, editorStatus,
		func() (models.WorkoutRoutine, error) { return vm.svc.GetRoutine(ctx, id, forceNetwork) },
		func(s *RoutineEditorState, r models.WorkoutRoutine) {
			s.Routine = r
			s.Draft = cloneRoutine(r)
		})
	return err
}

// SetName renames the draft.
func (vm *RoutineEditor) SetName(name string) {
	vm.update(func(s *RoutineEditorState) { s.Draft.Name = name })
}

// AddExercise appends an exercise to the draft. It has no id until saved.
func (vm *RoutineEditor) AddExercise(name string, sets, reps int) {
	vm.update(func(s *RoutineEditorState) {
		ers := slices.Clone(s.Draft.ExerciseRoutines)
		s.Draft.ExerciseRoutines = append(ers, models.ExerciseRoutine{Name: name, Sets: sets, Reps: reps})
	})
}

// ReplaceExercises swaps the draft's whole exercise list. Entries keep their
// ids so recorded sessions still resolve them.
func (vm *RoutineEditor) ReplaceExercises(ers []models.ExerciseRoutine) {
	vm.update(func(s *RoutineEditorState) { s.Draft.ExerciseRoutines = slices.Clone(ers) })
}

// RemoveExercise drops the draft exercise at index. It is refused while an
// action is in flight.
func (vm *RoutineEditor) RemoveExercise(index int) error {
	var err error
	vm.update(func(s *RoutineEditorState) {
		if s.Loading {
			err = ErrBusy
			return
		}
		if index < 0 || index >= len(s.Draft.ExerciseRoutines) {
			err = errors.New("exercise index out of range")
			return
		}
		s.Draft.ExerciseRoutines = slices.Delete(slices.Clone(s.Draft.ExerciseRoutines), index, index+1)
	})
	return err
}

// Save sends the draft to the server. On success the routine is re-read from
// the network; on failure EditErr is set, the draft is kept and Err is left
// as it was.
func (vm *RoutineEditor) Save(ctx context.Context) (models.WorkoutRoutine, error) {
	draft := vm.Snapshot().Draft
	updated, err := track(&vm.Observable, editorStatus,
		func() (models.WorkoutRoutine, error) { return vm.svc.UpdateRoutine(ctx, draft) },
		func(s *RoutineEditorState, r models.WorkoutRoutine, err error) {
			if err != nil {
				s.EditErr = err.Error()
				return
			}
			s.EditErr = ""
			s.Routine = r
			s.Draft = cloneRoutine(r)
		})
	if err != nil {
		return models.WorkoutRoutine{}, err
	}
	vm.log.Info("routine updated", "id", updated.ID, "exercises", updated.ExerciseCount())
	return updated, vm.Load(ctx, updated.ID, true)
}

func cloneRoutine(r models.WorkoutRoutine) models.WorkoutRoutine {
	r.ExerciseRoutines = slices.Clone(r.ExerciseRoutines)
	return r
}
