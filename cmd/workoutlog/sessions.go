package main

import (
	"errors"
	"fmt"

	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/viewmodel"
	"github.com/spf13/cobra"
)

func newExercisesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "exercises <routine-id>",
		Short: "List the exercises defined in a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ers, err := c.app.Service.ListExerciseRoutines(cmd.Context(), args[0], c.refresh)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatExerciseRoutineTable(ers))
			return nil
		},
	}
}

func newSessionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "s"},
		Short:   "Record workout sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewSessionList(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), c.refresh); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSessionTable(vm.Snapshot().Sessions))
			return nil
		},
	}

	var at string
	start := &cobra.Command{
		Use:   "start <routine-id>",
		Short: "Start a session against a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseStart(at)
			if err != nil {
				return err
			}
			vm := viewmodel.NewSessionList(c.app.Service, nil)
			id, err := vm.Start(cmd.Context(), args[0], t)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatOK("started session %s", id))
			return nil
		},
	}
	start.Flags().StringVar(&at, "at", "", `start time, RFC 3339 or "2006-01-02 15:04" (default now)`)

	show := &cobra.Command{
		Use:   "show <routine-id> <session-id>",
		Short: "Show a session with its exercises and sets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewSessionDetail(c.app.Service, nil)
			err := vm.Load(cmd.Context(), args[0], args[1], c.refresh)
			if err != nil && vm.Snapshot().Session.ID == "" {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSessionDetail(vm.Snapshot()))
			return nil
		},
	}

	addExercise := &cobra.Command{
		Use:   "add-exercise <routine-id> <session-id> <exercise-routine-id>",
		Short: "Add one of the routine's exercises to a session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewSessionDetail(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), args[0], args[1], true); err != nil {
				return err
			}
			known := false
			for _, er := range vm.Snapshot().ExerciseRoutines {
				if er.ID == args[2] {
					known = true
				}
			}
			if !known {
				return fmt.Errorf("exercise %s is not part of routine %s", args[2], args[0])
			}
			id, err := vm.AddExercise(cmd.Context(), args[2])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatOK("added exercise %s", id))
			return nil
		},
	}

	var entry models.SetEntry
	addSet := &cobra.Command{
		Use:   "add-set <routine-id> <session-id> <exercise-id>",
		Short: "Record a performed set",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if entry.Weight < 0 || entry.Reps < 0 {
				return errors.New("--weight and --reps must be non-negative")
			}
			vm := viewmodel.NewSessionDetail(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), args[0], args[1], true); err != nil {
				return err
			}
			if _, ok := vm.Snapshot().Session.ExerciseByID(args[2]); !ok {
				return fmt.Errorf("exercise %s is not in session %s", args[2], args[1])
			}
			if _, err := vm.AddSet(cmd.Context(), args[2], entry); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSessionDetail(vm.Snapshot()))
			return nil
		},
	}
	addSet.Flags().Float64VarP(&entry.Weight, "weight", "w", 0, "weight lifted")
	addSet.Flags().IntVarP(&entry.Reps, "reps", "n", 0, "repetitions performed")
	addSet.Flags().StringVarP(&entry.Unit, "unit", "u", "kg", "weight unit")
	addSet.Flags().StringVar(&entry.Notes, "notes", "", "free-form notes")
	_ = addSet.MarkFlagRequired("reps")

	cmd.AddCommand(list, start, show, addExercise, addSet)
	return cmd
}
