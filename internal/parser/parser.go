// Package parser maps GraphQL fragments to domain records and domain records
// to GraphQL inputs. All functions are pure.
//
// Empty lists parse to nil, so a record with no children survives the
// input/fragment round trip unchanged. Inputs always carry [] on the wire.
package parser

import (
	"fmt"
	"time"

	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/wire"
)

// TimeLayout is the wire format of session start timestamps.
const TimeLayout = time.RFC3339Nano

// DecodeError reports a fragment field that is missing or out of range.
type DecodeError struct {
	Type  string
	Field string
	Msg   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s.%s: %s", e.Type, e.Field, e.Msg)
}

func missing(typ, field string) error {
	return &DecodeError{Type: typ, Field: field, Msg: "missing"}
}

func negative(typ, field string, v any) error {
	return &DecodeError{Type: typ, Field: field, Msg: fmt.Sprintf("negative value %v", v)}
}

// ParseExerciseRoutine converts an ExerciseRoutineFull fragment.
func ParseExerciseRoutine(f wire.ExerciseRoutineFull) (models.ExerciseRoutine, error) {
	const typ = "ExerciseRoutine"
	if f.ID == "" {
		return models.ExerciseRoutine{}, missing(typ, "id")
	}
	if f.Sets == nil {
		return models.ExerciseRoutine{}, missing(typ, "sets")
	}
	if f.Reps == nil {
		return models.ExerciseRoutine{}, missing(typ, "reps")
	}
	if *f.Sets < 0 {
		return models.ExerciseRoutine{}, negative(typ, "sets", *f.Sets)
	}
	if *f.Reps < 0 {
		return models.ExerciseRoutine{}, negative(typ, "reps", *f.Reps)
	}
	return models.ExerciseRoutine{
		ID:   f.ID,
		Name: f.Name,
		Sets: *f.Sets,
		Reps: *f.Reps,
	}, nil
}

// ParseExerciseRoutines converts a list, preserving order.
func ParseExerciseRoutines(fs []wire.ExerciseRoutineFull) ([]models.ExerciseRoutine, error) {
	if len(fs) == 0 {
		return nil, nil
	}
	out := make([]models.ExerciseRoutine, 0, len(fs))
	for i, f := range fs {
		er, err := ParseExerciseRoutine(f)
		if err != nil {
			return nil, fmt.Errorf("exercise routine %d: %w", i, err)
		}
		out = append(out, er)
	}
	return out, nil
}

// ParseWorkoutRoutine converts a WorkoutRoutineFull fragment.
func ParseWorkoutRoutine(f wire.WorkoutRoutineFull) (models.WorkoutRoutine, error) {
	const typ = "WorkoutRoutine"
	if f.ID == "" {
		return models.WorkoutRoutine{}, missing(typ, "id")
	}
	if f.Name == "" {
		return models.WorkoutRoutine{}, missing(typ, "name")
	}
	ers, err := ParseExerciseRoutines(f.ExerciseRoutines)
	if err != nil {
		return models.WorkoutRoutine{}, fmt.Errorf("routine %s: %w", f.ID, err)
	}
	return models.WorkoutRoutine{
		ID:               f.ID,
		Name:             f.Name,
		ExerciseRoutines: ers,
	}, nil
}

// ParseSetEntry converts a SetEntryFull fragment.
func ParseSetEntry(f wire.SetEntryFull) (models.SetEntry, error) {
	const typ = "SetEntry"
	if f.ID == "" {
		return models.SetEntry{}, missing(typ, "id")
	}
	if f.Weight == nil {
		return models.SetEntry{}, missing(typ, "weight")
	}
	if f.Reps == nil {
		return models.SetEntry{}, missing(typ, "reps")
	}
	if *f.Weight < 0 {
		return models.SetEntry{}, negative(typ, "weight", *f.Weight)
	}
	if *f.Reps < 0 {
		return models.SetEntry{}, negative(typ, "reps", *f.Reps)
	}
	return models.SetEntry{
		ID:     f.ID,
		Weight: *f.Weight,
		Reps:   *f.Reps,
		Unit:   deref(f.Unit),
		Notes:  deref(f.Notes),
	}, nil
}

// ParseExercise converts an ExerciseFull fragment and its set entries.
func ParseExercise(f wire.ExerciseFull) (models.Exercise, error) {
	const typ = "Exercise"
	if f.ID == "" {
		return models.Exercise{}, missing(typ, "id")
	}
	if f.ExerciseRoutineID == "" {
		return models.Exercise{}, missing(typ, "exerciseRoutineId")
	}
	var sets []models.SetEntry
	for i, sf := range f.SetEntries {
		s, err := ParseSetEntry(sf)
		if err != nil {
			return models.Exercise{}, fmt.Errorf("exercise %s set %d: %w", f.ID, i, err)
		}
		sets = append(sets, s)
	}
	return models.Exercise{
		ID:                f.ID,
		ExerciseRoutineID: f.ExerciseRoutineID,
		Name:              deref(f.Name),
		Notes:             deref(f.Notes),
		SetEntries:        sets,
	}, nil
}

// ParseWorkoutSession converts a WorkoutSessionFull fragment. Start is
// returned in UTC.
func ParseWorkoutSession(f wire.WorkoutSessionFull) (models.WorkoutSession, error) {
	const typ = "WorkoutSession"
	if f.ID == "" {
		return models.WorkoutSession{}, missing(typ, "id")
	}
	if f.WorkoutRoutineID == "" {
		return models.WorkoutSession{}, missing(typ, "workoutRoutineId")
	}
	if f.Start == "" {
		return models.WorkoutSession{}, missing(typ, "start")
	}
	start, err := time.Parse(TimeLayout, f.Start)
	if err != nil {
		return models.WorkoutSession{}, &DecodeError{Type: typ, Field: "start", Msg: err.Error()}
	}
	if start.IsZero() {
		return models.WorkoutSession{}, &DecodeError{Type: typ, Field: "start", Msg: "zero time"}
	}
	var exercises []models.Exercise
	for _, ef := range f.Exercises {
		e, err := ParseExercise(ef)
		if err != nil {
			return models.WorkoutSession{}, fmt.Errorf("session %s: %w", f.ID, err)
		}
		exercises = append(exercises, e)
	}
	return models.WorkoutSession{
		ID:               f.ID,
		WorkoutRoutineID: f.WorkoutRoutineID,
		Start:            start.UTC(),
		Exercises:        exercises,
	}, nil
}

// ExerciseRoutineInput converts an exercise routine for a mutation.
func ExerciseRoutineInput(er models.ExerciseRoutine) wire.ExerciseRoutineInput {
	return wire.ExerciseRoutineInput{
		ID:   er.ID,
		Name: er.Name,
		Sets: er.Sets,
		Reps: er.Reps,
	}
}

// WorkoutRoutineInput converts a routine, including its full exercise list.
// The exercise list is never nil on the wire.
func WorkoutRoutineInput(r models.WorkoutRoutine) wire.WorkoutRoutineInput {
	ers := make([]wire.ExerciseRoutineInput, 0, len(r.ExerciseRoutines))
	for _, er := range r.ExerciseRoutines {
		ers = append(ers, ExerciseRoutineInput(er))
	}
	return wire.WorkoutRoutineInput{
		ID:               r.ID,
		Name:             r.Name,
		ExerciseRoutines: ers,
	}
}

// SetEntryInput converts a set entry for the addSet mutation.
func SetEntryInput(s models.SetEntry) wire.SetEntryInput {
	return wire.SetEntryInput{
		ID:     s.ID,
		Weight: s.Weight,
		Reps:   s.Reps,
		Unit:   s.Unit,
		Notes:  s.Notes,
	}
}

// ExerciseInput converts an exercise instance and its sets.
func ExerciseInput(e models.Exercise) wire.ExerciseInput {
	sets := make([]wire.SetEntryInput, 0, len(e.SetEntries))
	for _, s := range e.SetEntries {
		sets = append(sets, SetEntryInput(s))
	}
	return wire.ExerciseInput{
		ID:                e.ID,
		ExerciseRoutineID: e.ExerciseRoutineID,
		Name:              e.Name,
		Notes:             e.Notes,
		SetEntries:        sets,
	}
}

// WorkoutSessionInput converts a session. Start is sent in UTC.
func WorkoutSessionInput(s models.WorkoutSession) wire.WorkoutSessionInput {
	exercises := make([]wire.ExerciseInput, 0, len(s.Exercises))
	for _, e := range s.Exercises {
		exercises = append(exercises, ExerciseInput(e))
	}
	return wire.WorkoutSessionInput{
		ID:               s.ID,
		WorkoutRoutineID: s.WorkoutRoutineID,
		Start:            FormatTime(s.Start),
		Exercises:        exercises,
	}
}

// FormatTime renders t in the wire timestamp layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
