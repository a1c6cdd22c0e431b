// Package wire holds the GraphQL documents sent to the workout API and the
// Go shapes of their fragments, payloads and inputs.
package wire

// Fragments shared by queries and mutations.
const (
	fragmentExerciseRoutineFull = `fragment ExerciseRoutineFull on ExerciseRoutine {
  id
  name
  sets
  reps
}`

	fragmentWorkoutRoutineFull = `fragment WorkoutRoutineFull on WorkoutRoutine {
  id
  name
  exerciseRoutines {
    ...ExerciseRoutineFull
  }
}`

	fragmentSetEntryFull = `fragment SetEntryFull on SetEntry {
  id
  weight
  reps
  unit
  notes
}`

	fragmentExerciseFull = `fragment ExerciseFull on Exercise {
  id
  exerciseRoutineId
  name
  notes
  setEntries {
    ...SetEntryFull
  }
}`

	fragmentWorkoutSessionFull = `fragment WorkoutSessionFull on WorkoutSession {
  id
  workoutRoutineId
  start
  exercises {
    ...ExerciseFull
  }
}`
)

// Operation names. The API and the test backend dispatch on these.
const (
	OpWorkoutRoutines      = "WorkoutRoutines"
	OpWorkoutRoutine       = "WorkoutRoutine"
	OpWorkoutSessions      = "WorkoutSessions"
	OpWorkoutSession       = "WorkoutSession"
	OpExerciseRoutines     = "ExerciseRoutines"
	OpCreateWorkoutRoutine = "CreateWorkoutRoutine"
	OpUpdateWorkoutRoutine = "UpdateWorkoutRoutine"
	OpDeleteWorkoutRoutine = "DeleteWorkoutRoutine"
	OpAddWorkoutSession    = "AddWorkoutSession"
	OpAddExercise          = "AddExercise"
	OpAddSet               = "AddSet"
)

const routineFragments = fragmentWorkoutRoutineFull + "\n" + fragmentExerciseRoutineFull

const sessionFragments = fragmentWorkoutSessionFull + "\n" + fragmentExerciseFull + "\n" + fragmentSetEntryFull

// Query documents.
const (
	WorkoutRoutinesQuery = `query WorkoutRoutines($limit: Int!, $after: String) {
  workoutRoutines(limit: $limit, after: $after) {
    edges {
      cursor
      node {
        ...WorkoutRoutineFull
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}
` + routineFragments

	WorkoutRoutineQuery = `query WorkoutRoutine($workoutRoutineId: ID!) {
  workoutRoutine(workoutRoutineId: $workoutRoutineId) {
    ...WorkoutRoutineFull
  }
}
` + routineFragments

	WorkoutSessionsQuery = `query WorkoutSessions($limit: Int!, $after: String) {
  workoutSessions(limit: $limit, after: $after) {
    edges {
      cursor
      node {
        ...WorkoutSessionFull
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}
` + sessionFragments

	WorkoutSessionQuery = `query WorkoutSession($workoutRoutineId: ID!, $workoutSessionId: ID!) {
  workoutSession(workoutRoutineId: $workoutRoutineId, workoutSessionId: $workoutSessionId) {
    ...WorkoutSessionFull
  }
}
` + sessionFragments

	ExerciseRoutinesQuery = `query ExerciseRoutines($workoutRoutineId: ID!) {
  exerciseRoutines(workoutRoutineId: $workoutRoutineId) {
    ...ExerciseRoutineFull
  }
}
` + fragmentExerciseRoutineFull
)

// Mutation documents.
const (
	CreateWorkoutRoutineMutation = `mutation CreateWorkoutRoutine($routine: WorkoutRoutineInput!) {
  createWorkoutRoutine(routine: $routine) {
    id
    name
  }
}`

	UpdateWorkoutRoutineMutation = `mutation UpdateWorkoutRoutine($workoutRoutine: UpdateWorkoutRoutineInput!) {
  updateWorkoutRoutine(workoutRoutine: $workoutRoutine) {
    ...WorkoutRoutineFull
  }
}
` + routineFragments

	DeleteWorkoutRoutineMutation = `mutation DeleteWorkoutRoutine($workoutRoutineId: ID!) {
  deleteWorkoutRoutine(workoutRoutineId: $workoutRoutineId)
}`

	AddWorkoutSessionMutation = `mutation AddWorkoutSession($workout: WorkoutSessionInput!) {
  addWorkoutSession(workout: $workout)
}`

	AddExerciseMutation = `mutation AddExercise($workoutSessionId: ID!, $exercise: ExerciseInput!) {
  addExercise(workoutSessionId: $workoutSessionId, exercise: $exercise)
}`

	AddSetMutation = `mutation AddSet($exerciseId: ID!, $set: SetEntryInput!) {
  addSet(exerciseId: $exerciseId, set: $set)
}`
)
