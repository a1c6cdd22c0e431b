package models

import "time"

// WorkoutRoutine is a named template of exercises with target sets/reps.
// ID is assigned by the server; it is empty until the routine has been created.
type WorkoutRoutine struct {
	ID               string            `json:"id" yaml:"id,omitempty"`
	Name             string            `json:"name" yaml:"name"`
	ExerciseRoutines []ExerciseRoutine `json:"exerciseRoutines" yaml:"exercise_routines"`
}

// ExerciseRoutine is one exercise within a routine. New entries added locally
// carry an empty ID until the routine is saved.
type ExerciseRoutine struct {
	ID   string `json:"id" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
	Sets int    `json:"sets" yaml:"sets"`
	Reps int    `json:"reps" yaml:"reps"`
}

// CreatedRoutine is the server's echo of a newly created routine.
type CreatedRoutine struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkoutSession is one performance of a routine.
type WorkoutSession struct {
	ID               string     `json:"id"`
	WorkoutRoutineID string     `json:"workoutRoutineId"`
	Start            time.Time  `json:"start"`
	Exercises        []Exercise `json:"exercises"`
}

// Exercise is an ExerciseRoutine instantiated inside a session.
type Exercise struct {
	ID                string     `json:"id"`
	ExerciseRoutineID string     `json:"exerciseRoutineId"`
	Name              string     `json:"name,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	SetEntries        []SetEntry `json:"setEntries"`
}

// SetEntry is a single recorded set.
type SetEntry struct {
	ID     string  `json:"id,omitempty"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Unit   string  `json:"unit,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// ExerciseCount returns the number of exercise routines in r.
func (r WorkoutRoutine) ExerciseCount() int {
	return len(r.ExerciseRoutines)
}

// SetCount returns the total number of sets recorded across the session.
func (s WorkoutSession) SetCount() int {
	n := 0
	for _, e := range s.Exercises {
		n += len(e.SetEntries)
	}
	return n
}

// Volume returns the sum of weight x reps over every set in the session.
func (s WorkoutSession) Volume() float64 {
	var v float64
	for _, e := range s.Exercises {
		for _, set := range e.SetEntries {
			v += set.Weight * float64(set.Reps)
		}
	}
	return v
}

// ExerciseByID finds an exercise instance in the session.
func (s WorkoutSession) ExerciseByID(id string) (Exercise, bool) {
	for _, e := range s.Exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}
