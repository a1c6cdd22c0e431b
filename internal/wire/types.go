package wire

// Fragment shapes. Pointer fields distinguish "absent" from zero so the
// parser can reject incomplete payloads.

type ExerciseRoutineFull struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets *int   `json:"sets"`
	Reps *int   `json:"reps"`
}

type WorkoutRoutineFull struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	ExerciseRoutines []ExerciseRoutineFull `json:"exerciseRoutines"`
}

type SetEntryFull struct {
	ID     string   `json:"id"`
	Weight *float64 `json:"weight"`
	Reps   *int     `json:"reps"`
	Unit   *string  `json:"unit"`
	Notes  *string  `json:"notes"`
}

type ExerciseFull struct {
	ID                string         `json:"id"`
	ExerciseRoutineID string         `json:"exerciseRoutineId"`
	Name              *string        `json:"name"`
	Notes             *string        `json:"notes"`
	SetEntries        []SetEntryFull `json:"setEntries"`
}

type WorkoutSessionFull struct {
	ID               string         `json:"id"`
	WorkoutRoutineID string         `json:"workoutRoutineId"`
	Start            string         `json:"start"`
	Exercises        []ExerciseFull `json:"exercises"`
}

// PageInfo is the relay-style pagination block of a connection.
type PageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type WorkoutRoutineEdge struct {
	Cursor string             `json:"cursor"`
	Node   WorkoutRoutineFull `json:"node"`
}

type WorkoutRoutineConnection struct {
	Edges    []WorkoutRoutineEdge `json:"edges"`
	PageInfo PageInfo             `json:"pageInfo"`
}

type WorkoutSessionEdge struct {
	Cursor string             `json:"cursor"`
	Node   WorkoutSessionFull `json:"node"`
}

type WorkoutSessionConnection struct {
	Edges    []WorkoutSessionEdge `json:"edges"`
	PageInfo PageInfo             `json:"pageInfo"`
}

type CreatedWorkoutRoutine struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payloads of each operation's "data" object. A nil field means the server
// omitted it.

type WorkoutRoutinesData struct {
	WorkoutRoutines *WorkoutRoutineConnection `json:"workoutRoutines"`
}

type WorkoutRoutineData struct {
	WorkoutRoutine *WorkoutRoutineFull `json:"workoutRoutine"`
}

type WorkoutSessionsData struct {
	WorkoutSessions *WorkoutSessionConnection `json:"workoutSessions"`
}

type WorkoutSessionData struct {
	WorkoutSession *WorkoutSessionFull `json:"workoutSession"`
}

type ExerciseRoutinesData struct {
	ExerciseRoutines *[]ExerciseRoutineFull `json:"exerciseRoutines"`
}

type CreateWorkoutRoutineData struct {
	CreateWorkoutRoutine *CreatedWorkoutRoutine `json:"createWorkoutRoutine"`
}

type UpdateWorkoutRoutineData struct {
	UpdateWorkoutRoutine *WorkoutRoutineFull `json:"updateWorkoutRoutine"`
}

type DeleteWorkoutRoutineData struct {
	DeleteWorkoutRoutine *int `json:"deleteWorkoutRoutine"`
}

type AddWorkoutSessionData struct {
	AddWorkoutSession *string `json:"addWorkoutSession"`
}

type AddExerciseData struct {
	AddExercise *string `json:"addExercise"`
}

type AddSetData struct {
	AddSet *string `json:"addSet"`
}

// Inputs. JSON names match the fragments above so an input can be read back
// as a fragment.

type ExerciseRoutineInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

// WorkoutRoutineInput serves both createWorkoutRoutine (no ID) and
// updateWorkoutRoutine.
type WorkoutRoutineInput struct {
	ID               string                 `json:"id,omitempty"`
	Name             string                 `json:"name"`
	ExerciseRoutines []ExerciseRoutineInput `json:"exerciseRoutines"`
}

type SetEntryInput struct {
	ID     string  `json:"id,omitempty"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Unit   string  `json:"unit,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

type ExerciseInput struct {
	ID                string          `json:"id,omitempty"`
	ExerciseRoutineID string          `json:"exerciseRoutineId"`
	Name              string          `json:"name,omitempty"`
	Notes             string          `json:"notes"`
	SetEntries        []SetEntryInput `json:"setEntries"`
}

type WorkoutSessionInput struct {
	ID               string          `json:"id,omitempty"`
	WorkoutRoutineID string          `json:"workoutRoutineId"`
	Start            string          `json:"start"`
	Exercises        []ExerciseInput `json:"exercises"`
}
