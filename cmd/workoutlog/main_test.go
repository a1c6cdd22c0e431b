package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/claude/workoutlog/internal/graphqltest"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/viewmodel"
	"github.com/claude/workoutlog/internal/wire"
)

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("workoutlog %s: %v\n%s", strings.Join(args, " "), err, errOut)
	}
	return out
}

func firstID(t *testing.T, out string) string {
	t.Helper()
	id := uuidPattern.FindString(out)
	if id == "" {
		t.Fatalf("no id in output:\n%s", out)
	}
	return id
}

func useBackend(t *testing.T) *graphqltest.Backend {
	t.Helper()
	endpoint, backend := graphqltest.NewServer(t)
	t.Setenv("WORKOUTLOG_CONFIG", "")
	t.Setenv("WORKOUTLOG_API_ENDPOINT", endpoint)
	t.Setenv("WORKOUTLOG_CACHE_BACKEND", "sqlite")
	t.Setenv("WORKOUTLOG_CACHE_DIR", t.TempDir())
	t.Setenv("WORKOUTLOG_LOG_LEVEL", "error")
	return backend
}

func TestVersionNeedsNoConfig(t *testing.T) {
	t.Setenv("WORKOUTLOG_API_ENDPOINT", "")
	out := mustRun(t, "version")
	if !strings.Contains(out, "workoutlog dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestMissingEndpointFails(t *testing.T) {
	t.Setenv("WORKOUTLOG_CONFIG", "")
	t.Setenv("WORKOUTLOG_API_ENDPOINT", "")
	_, errOut, err := runCLI(t, "routines", "list")
	if err == nil {
		t.Fatal("expected error without api.endpoint")
	}
	if !strings.Contains(errOut, "api.endpoint is required") {
		t.Errorf("stderr = %q, want config error", errOut)
	}
}

func TestRoutineAndSessionWorkflow(t *testing.T) {
	useBackend(t)

	routineID := firstID(t, mustRun(t, "routines", "create", "Legs"))

	out := mustRun(t, "routines", "add-exercise", routineID, "Squat", "--sets", "5", "--reps", "5")
	if !strings.Contains(out, "Squat") {
		t.Errorf("add-exercise output missing Squat:\n%s", out)
	}

	out = mustRun(t, "exercises", routineID, "--refresh")
	exerciseRoutineID := firstID(t, out)

	out = mustRun(t, "routines", "list", "--refresh")
	if !strings.Contains(out, "Legs") || !strings.Contains(out, routineID) {
		t.Errorf("routines list missing Legs:\n%s", out)
	}

	sessionID := firstID(t, mustRun(t, "sessions", "start", routineID, "--at", "2024-06-15T10:30:00Z"))
	exerciseID := firstID(t, mustRun(t, "sessions", "add-exercise", routineID, sessionID, exerciseRoutineID))

	out = mustRun(t, "sessions", "add-set", routineID, sessionID, exerciseID, "--weight", "100", "--reps", "5")
	if !strings.Contains(out, "100 kg") || !strings.Contains(out, "volume 500") {
		t.Errorf("add-set output:\n%s", out)
	}

	out = mustRun(t, "sessions", "list", "--refresh")
	if !strings.Contains(out, sessionID) {
		t.Errorf("sessions list missing %s:\n%s", sessionID, out)
	}

	out = mustRun(t, "routines", "delete", routineID)
	if !strings.Contains(out, "deleted routine") {
		t.Errorf("delete output = %q", out)
	}
}

func TestRoutineUpdateFromFile(t *testing.T) {
	useBackend(t)
	routineID := firstID(t, mustRun(t, "routines", "create", "Push"))

	file := filepath.Join(t.TempDir(), "push.yaml")
	def := `
name: Push Day
exercise_routines:
  - name: Bench
    sets: 5
    reps: 5
  - name: Dips
    sets: 3
    reps: 12
`
	if err := os.WriteFile(file, []byte(def), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "routines", "update", routineID, "-f", file)
	for _, want := range []string{"Push Day", "Bench", "Dips"} {
		if !strings.Contains(out, want) {
			t.Errorf("update output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "routines", "update", routineID, "--name", "Push Day")
	if !strings.Contains(out, "no changes") {
		t.Errorf("second update output = %q, want no changes", out)
	}

	out = mustRun(t, "routines", "remove-exercise", routineID, "1")
	if strings.Contains(out, "Dips") {
		t.Errorf("Dips still present:\n%s", out)
	}
}

func TestUnknownExerciseRejected(t *testing.T) {
	backend := useBackend(t)
	routineID := firstID(t, mustRun(t, "routines", "create", "Legs"))
	sessionID := firstID(t, mustRun(t, "sessions", "start", routineID))

	_, errOut, err := runCLI(t, "sessions", "add-exercise", routineID, sessionID, "no-such-exercise")
	if err == nil {
		t.Fatal("expected error for unknown exercise")
	}
	if !strings.Contains(errOut, "not part of routine") {
		t.Errorf("stderr = %q", errOut)
	}
	if n := backend.Calls(wire.OpAddExercise); n != 0 {
		t.Errorf("AddExercise calls = %d, want 0", n)
	}
}

func TestNetworkErrorHint(t *testing.T) {
	backend := useBackend(t)
	backend.SetDown(true)

	_, errOut, err := runCLI(t, "routines", "list", "--refresh")
	if err == nil {
		t.Fatal("expected error when backend is down")
	}
	if !strings.Contains(errOut, "network error") || !strings.Contains(errOut, "api.endpoint reachable") {
		t.Errorf("stderr = %q, want network hint", errOut)
	}
}

func TestReadRoutineFileValidation(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"no name":  "exercise_routines:\n  - sets: 3\n    reps: 5\n",
		"negative": "exercise_routines:\n  - name: Squat\n    sets: -1\n    reps: 5\n",
		"bad yaml": "exercise_routines: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := readRoutineFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFormatSessionDetail(t *testing.T) {
	state := viewmodel.SessionDetailState{
		Session: models.WorkoutSession{
			ID:    "s1",
			Start: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
			Exercises: []models.Exercise{
				{ID: "e1", Name: "Squat", SetEntries: []models.SetEntry{
					{ID: "x1", Weight: 100, Reps: 5, Unit: "kg"},
					{ID: "x2", Weight: 102.5, Reps: 3, Unit: "kg"},
				}},
				{ID: "e2", Name: "Lunge", SetEntries: []models.SetEntry{}},
			},
		},
	}
	state.Err = "graphql error: stale"

	out := formatSessionDetail(state)
	for _, want := range []string{"Session s1", "Squat", "102.5 kg", "Lunge", "2 sets, volume 807.5", "error: graphql error: stale"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseStart(t *testing.T) {
	got, err := parseStart("2024-06-15T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
	got, err = parseStart("2024-06-15 07:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 7 || got.Location() != time.Local {
		t.Errorf("start = %v, want 07:00 local", got)
	}
	if _, err := parseStart("tomorrow"); err == nil {
		t.Error("expected error for invalid start")
	}
}
