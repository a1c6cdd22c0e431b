package viewmodel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/graphql"
	"github.com/claude/workoutlog/internal/graphqltest"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/wire"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newService(t *testing.T) (*api.Client, *graphqltest.Backend) {
	t.Helper()
	endpoint, backend := graphqltest.NewServer(t)
	gql := graphql.NewClient(endpoint, graphql.WithCache(graphql.NewMemoryCache(0, 0)))
	return api.NewClient(gql, nil), backend
}

func TestRoutineListCreateReloads(t *testing.T) {
	svc, backend := newService(t)
	vm := NewRoutineList(svc, nil)
	ctx := context.Background()

	if err := vm.Load(ctx, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := vm.Snapshot().Routines; len(got) != 0 {
		t.Fatalf("routines = %+v, want none", got)
	}

	created, err := vm.Create(ctx, "Legs")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	state := vm.Snapshot()
	if state.Err != "" || state.Loading {
		t.Errorf("status = %+v, want idle without error", state.Status)
	}
	if len(state.Routines) != 1 || state.Routines[0].ID != created.ID {
		t.Errorf("routines = %+v, want [%s]", state.Routines, created.ID)
	}
	if n := backend.Calls(wire.OpWorkoutRoutines); n != 2 {
		t.Errorf("list calls = %d, want 2", n)
	}

	if _, err := vm.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := vm.Snapshot().Routines; len(got) != 0 {
		t.Errorf("routines after delete = %+v, want none", got)
	}
}

func TestRoutineListErrorKeepsData(t *testing.T) {
	svc, backend := newService(t)
	vm := NewRoutineList(svc, nil)
	ctx := context.Background()

	if _, err := vm.Create(ctx, "Legs"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := vm.Snapshot().Routines

	backend.FailNext(wire.OpWorkoutRoutines, "backend unavailable")
	err := vm.Load(ctx, true)
	if !errors.Is(err, api.ErrGraphQL) {
		t.Fatalf("Load err = %v, want graphql error", err)
	}
	state := vm.Snapshot()
	if state.Err != err.Error() {
		t.Errorf("Err = %q, want %q", state.Err, err.Error())
	}
	if len(state.Routines) != len(before) || state.Routines[0].ID != before[0].ID {
		t.Errorf("routines = %+v, want prior %+v", state.Routines, before)
	}

	if err := vm.Load(ctx, true); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := vm.Snapshot().Err; got != "" {
		t.Errorf("Err after success = %q, want empty", got)
	}
}

func TestRoutineEditorSave(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateRoutine(ctx, "Push")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	vm := NewRoutineEditor(svc, nil)
	if err := vm.Load(ctx, created.ID, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	vm.SetName("Push Day")
	vm.AddExercise("Bench", 5, 5)
	vm.AddExercise("Dips", 3, 10)
	vm.AddExercise("Flyes", 3, 12)
	if err := vm.RemoveExercise(2); err != nil {
		t.Fatalf("RemoveExercise: %v", err)
	}
	if !vm.Snapshot().Dirty() {
		t.Error("draft not dirty after edits")
	}
	if got := vm.Snapshot().Draft.ExerciseRoutines[0].ID; got != "" {
		t.Errorf("unsaved exercise id = %q, want empty", got)
	}

	saved, err := vm.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	state := vm.Snapshot()
	if state.Dirty() {
		t.Error("draft dirty after save")
	}
	if state.Routine.Name != "Push Day" || saved.Name != "Push Day" {
		t.Errorf("name = %q, want %q", state.Routine.Name, "Push Day")
	}
	if len(state.Routine.ExerciseRoutines) != 2 {
		t.Fatalf("exercises = %+v, want 2", state.Routine.ExerciseRoutines)
	}
	for i, er := range state.Routine.ExerciseRoutines {
		if er.ID == "" {
			t.Errorf("exercise %d has no id after save", i)
		}
	}
}

func TestRoutineEditorSaveFailure(t *testing.T) {
	svc, backend := newService(t)
	ctx := context.Background()
	created, err := svc.CreateRoutine(ctx, "Push")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	vm := NewRoutineEditor(svc, nil)
	if err := vm.Load(ctx, created.ID, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	vm.SetName("Pull")
	backend.FailNext(wire.OpUpdateWorkoutRoutine, "name taken")
	if _, err := vm.Save(ctx); err == nil {
		t.Fatal("Save succeeded, want error")
	}
	state := vm.Snapshot()
	if state.EditErr != "graphql error: name taken" {
		t.Errorf("EditErr = %q, want %q", state.EditErr, "graphql error: name taken")
	}
	if state.Draft.Name != "Pull" || state.Routine.Name != "Push" {
		t.Errorf("draft/routine = %q/%q, want Pull/Push", state.Draft.Name, state.Routine.Name)
	}
	if state.Err != "" {
		t.Errorf("Err = %q, want empty after a failed save", state.Err)
	}
}

func TestRoutineEditorSaveFailureKeepsLoadError(t *testing.T) {
	svc, backend := newService(t)
	ctx := context.Background()
	created, err := svc.CreateRoutine(ctx, "Push")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	vm := NewRoutineEditor(svc, nil)
	if err := vm.Load(ctx, created.ID, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	backend.FailNext(wire.OpWorkoutRoutine, "stale")
	if err := vm.Load(ctx, created.ID, true); err == nil {
		t.Fatal("forced Load succeeded, want error")
	}

	vm.SetName("Pull")
	backend.FailNext(wire.OpUpdateWorkoutRoutine, "name taken")
	if _, err := vm.Save(ctx); err == nil {
		t.Fatal("Save succeeded, want error")
	}
	state := vm.Snapshot()
	if state.Err != "graphql error: stale" {
		t.Errorf("Err = %q, want %q", state.Err, "graphql error: stale")
	}
	if state.EditErr != "graphql error: name taken" {
		t.Errorf("EditErr = %q, want %q", state.EditErr, "graphql error: name taken")
	}
	if state.Loading {
		t.Error("still loading after Save returned")
	}
}

type blockingService struct {
	api.Service
	release chan struct{}
}

func (s *blockingService) GetRoutine(ctx context.Context, id string, _ bool) (models.WorkoutRoutine, error) {
	<-s.release
	return models.WorkoutRoutine{ID: id, Name: "Legs"}, nil
}

func TestRemoveExerciseRefusedWhileLoading(t *testing.T) {
	svc := &blockingService{release: make(chan struct{})}
	vm := NewRoutineEditor(svc, nil)
	vm.AddExercise("Squat", 5, 5)

	updates, unsubscribe := vm.Subscribe()
	defer unsubscribe()

	loaded := make(chan error)
	go func() { loaded <- vm.Load(context.Background(), "r1", false) }()

	for state := range updates {
		if state.Loading {
			break
		}
	}
	if err := vm.RemoveExercise(0); !errors.Is(err, ErrBusy) {
		t.Errorf("RemoveExercise while loading: err = %v, want ErrBusy", err)
	}
	close(svc.release)
	if err := <-loaded; err != nil {
		t.Fatalf("Load: %v", err)
	}
	if vm.Snapshot().Loading {
		t.Error("still loading after Load returned")
	}
}

func TestSessionListStart(t *testing.T) {
	svc, backend := newService(t)
	ctx := context.Background()
	created, err := svc.CreateRoutine(ctx, "Legs")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	vm := NewSessionList(svc, nil)
	start := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	id, err := vm.Start(ctx, created.ID, start)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	sessions := vm.Snapshot().Sessions
	if len(sessions) != 1 || sessions[0].ID != id || !sessions[0].Start.Equal(start) {
		t.Errorf("sessions = %+v, want one started at %v", sessions, start)
	}

	for range SessionPageSize + 2 {
		if _, err := svc.StartSession(ctx, created.ID, start); err != nil {
			t.Fatalf("StartSession: %v", err)
		}
	}
	if err := vm.Load(ctx, true); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(vm.Snapshot().Sessions); got != SessionPageSize {
		t.Errorf("sessions = %d, want page of %d", got, SessionPageSize)
	}
	if n := backend.Calls(wire.OpWorkoutSessions); n != 2 {
		t.Errorf("session list calls = %d, want 2", n)
	}
}

func TestSessionDetailRecordsSets(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateRoutine(ctx, "Legs")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}
	if _, err := svc.UpdateRoutine(ctx, models.WorkoutRoutine{
		ID:               created.ID,
		Name:             "Legs",
		ExerciseRoutines: []models.ExerciseRoutine{{Name: "Squat", Sets: 5, Reps: 5}},
	}); err != nil {
		t.Fatalf("UpdateRoutine: %v", err)
	}
	sessionID, err := svc.StartSession(ctx, created.ID, time.Now())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	vm := NewSessionDetail(svc, nil)
	if err := vm.Load(ctx, created.ID, sessionID, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	state := vm.Snapshot()
	if state.Session.ID != sessionID {
		t.Fatalf("session id = %q, want %q", state.Session.ID, sessionID)
	}
	if len(state.ExerciseRoutines) != 1 {
		t.Fatalf("exercise routines = %+v, want 1", state.ExerciseRoutines)
	}

	exerciseID, err := vm.AddExercise(ctx, state.ExerciseRoutines[0].ID)
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	if _, err := vm.AddSet(ctx, exerciseID, models.SetEntry{Weight: 80, Reps: 5, Unit: "kg"}); err != nil {
		t.Fatalf("AddSet: %v", err)
	}
	session := vm.Snapshot().Session
	if got := session.SetCount(); got != 1 {
		t.Errorf("set count = %d, want 1", got)
	}
	if got := session.Volume(); got != 400 {
		t.Errorf("volume = %v, want 400", got)
	}
}

func TestSessionDetailPartialFailure(t *testing.T) {
	svc, backend := newService(t)
	ctx := context.Background()
	created, err := svc.CreateRoutine(ctx, "Legs")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}
	sessionID, err := svc.StartSession(ctx, created.ID, time.Now())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	vm := NewSessionDetail(svc, nil)
	backend.FailNext(wire.OpExerciseRoutines, "picker unavailable")
	err = vm.Load(ctx, created.ID, sessionID, false)
	if !errors.Is(err, api.ErrGraphQL) {
		t.Fatalf("Load err = %v, want graphql error", err)
	}
	state := vm.Snapshot()
	if state.Session.ID != sessionID {
		t.Errorf("session id = %q, want %q", state.Session.ID, sessionID)
	}
	if state.Err != "graphql error: picker unavailable" {
		t.Errorf("Err = %q, want %q", state.Err, "graphql error: picker unavailable")
	}
}

func TestSessionDetailActionsNeedSession(t *testing.T) {
	svc, backend := newService(t)
	vm := NewSessionDetail(svc, nil)
	ctx := context.Background()

	if _, err := vm.AddExercise(ctx, "er1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("AddExercise err = %v, want ErrNoSession", err)
	}
	if _, err := vm.AddSet(ctx, "x1", models.SetEntry{Weight: 20, Reps: 5}); !errors.Is(err, ErrNoSession) {
		t.Errorf("AddSet err = %v, want ErrNoSession", err)
	}
	if n := backend.TotalCalls(); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestSubscribeLatestWins(t *testing.T) {
	var o Observable[int]
	ch, unsubscribe := o.Subscribe()

	if got := <-ch; got != 0 {
		t.Errorf("initial = %d, want 0", got)
	}
	for i := 1; i <= 5; i++ {
		o.update(func(s *int) { *s = i })
	}
	if got := <-ch; got != 5 {
		t.Errorf("latest = %d, want 5", got)
	}

	unsubscribe()
	unsubscribe()
	if _, ok := <-ch; ok {
		t.Error("channel open after unsubscribe")
	}
	o.update(func(s *int) { *s = 6 })
}
