package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/viewmodel"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

const timeFormat = "2006-01-02 15:04"

func formatTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func formatRoutineTable(routines []models.WorkoutRoutine) string {
	rows := make([][]string, 0, len(routines))
	for _, r := range routines {
		names := make([]string, 0, len(r.ExerciseRoutines))
		for _, er := range r.ExerciseRoutines {
			names = append(names, er.Name)
		}
		rows = append(rows, []string{r.ID, r.Name, strconv.Itoa(r.ExerciseCount()), strings.Join(names, ", ")})
	}
	return formatTable([]string{"ID", "NAME", "EXERCISES", "INCLUDES"}, rows)
}

func formatExerciseRoutineTable(ers []models.ExerciseRoutine) string {
	rows := make([][]string, 0, len(ers))
	for i, er := range ers {
		rows = append(rows, []string{strconv.Itoa(i), er.ID, er.Name, strconv.Itoa(er.Sets), strconv.Itoa(er.Reps)})
	}
	return formatTable([]string{"#", "ID", "NAME", "SETS", "REPS"}, rows)
}

func formatSessionTable(sessions []models.WorkoutSession) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.WorkoutRoutineID,
			s.Start.Local().Format(timeFormat),
			strconv.Itoa(len(s.Exercises)),
			strconv.Itoa(s.SetCount()),
			formatWeight(s.Volume(), ""),
		})
	}
	return formatTable([]string{"ID", "ROUTINE", "START", "EXERCISES", "SETS", "VOLUME"}, rows)
}

func formatSessionDetail(state viewmodel.SessionDetailState) string {
	var b strings.Builder
	s := state.Session
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Session "+s.ID), mutedStyle.Render("started "+s.Start.Local().Format(timeFormat)))

	rows := make([][]string, 0, s.SetCount())
	for _, e := range s.Exercises {
		if len(e.SetEntries) == 0 {
			rows = append(rows, []string{e.ID, e.Name, "-", "", "", e.Notes})
			continue
		}
		for i, set := range e.SetEntries {
			id, name := "", ""
			if i == 0 {
				id, name = e.ID, e.Name
			}
			rows = append(rows, []string{id, name, strconv.Itoa(i + 1), formatWeight(set.Weight, set.Unit), strconv.Itoa(set.Reps), set.Notes})
		}
	}
	b.WriteString(formatTable([]string{"EXERCISE", "NAME", "SET", "WEIGHT", "REPS", "NOTES"}, rows))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d sets, volume %s\n", s.SetCount(), formatWeight(s.Volume(), ""))

	if len(state.ExerciseRoutines) > 0 {
		b.WriteString(mutedStyle.Render("Available exercises:"))
		b.WriteString("\n")
		b.WriteString(formatExerciseRoutineTable(state.ExerciseRoutines))
		b.WriteString("\n")
	}
	if state.Err != "" {
		b.WriteString(formatError(state.Err))
	}
	return b.String()
}

func formatWeight(w float64, unit string) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func formatError(msg string) string {
	return errorStyle.Render("error: "+msg) + "\n"
}

func formatOK(format string, args ...any) string {
	return successStyle.Render(fmt.Sprintf(format, args...)) + "\n"
}

// parseStart accepts RFC 3339, "2006-01-02 15:04" in local time, or empty
// for now.
func parseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(timeFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q: want RFC 3339 or %q", s, timeFormat)
	}
	return t, nil
}
