package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/viewmodel"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRoutinesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routines",
		Aliases: []string{"routine", "r"},
		Short:   "Manage workout routines",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewRoutineList(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), c.refresh); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatRoutineTable(vm.Snapshot().Routines))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <routine-id>",
		Short: "Show a routine and its exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewRoutineEditor(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), args[0], c.refresh); err != nil {
				return err
			}
			printRoutine(cmd, vm.Snapshot().Routine)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewRoutineList(c.app.Service, nil)
			created, err := vm.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatOK("created routine %s (%s)", created.Name, created.ID))
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <routine-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a routine",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewRoutineList(c.app.Service, nil)
			n, err := vm.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("routine %s not found", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), formatOK("deleted routine %s", args[0]))
			return nil
		},
	}

	var file, name string
	update := &cobra.Command{
		Use:   "update <routine-id>",
		Short: "Rename a routine or replace its exercises from a YAML file",
		Long: `Rename a routine or replace its exercises from a YAML file.

The file holds a routine in this shape; exercises keep their ids, exercises
without an id are created, and exercises left out are removed:

  name: Legs
  exercise_routines:
    - id: 5f0c...
      name: Squat
      sets: 5
      reps: 5
    - name: Lunge
      sets: 3
      reps: 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && name == "" {
				return errors.New("nothing to update: pass --file or --name")
			}
			vm := viewmodel.NewRoutineEditor(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), args[0], true); err != nil {
				return err
			}
			if file != "" {
				def, err := readRoutineFile(file)
				if err != nil {
					return err
				}
				if def.Name != "" {
					vm.SetName(def.Name)
				}
				vm.ReplaceExercises(def.ExerciseRoutines)
			}
			if name != "" {
				vm.SetName(name)
			}
			return saveRoutine(cmd, vm)
		},
	}
	update.Flags().StringVarP(&file, "file", "f", "", "YAML routine definition")
	update.Flags().StringVar(&name, "name", "", "new routine name")

	var sets, reps int
	addExercise := &cobra.Command{
		Use:   "add-exercise <routine-id> <name>",
		Short: "Append an exercise to a routine",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sets < 0 || reps < 0 {
				return errors.New("--sets and --reps must be non-negative")
			}
			vm := viewmodel.NewRoutineEditor(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), args[0], true); err != nil {
				return err
			}
			vm.AddExercise(args[1], sets, reps)
			return saveRoutine(cmd, vm)
		},
	}
	addExercise.Flags().IntVar(&sets, "sets", 3, "target sets")
	addExercise.Flags().IntVar(&reps, "reps", 10, "target reps per set")

	removeExercise := &cobra.Command{
		Use:   "remove-exercise <routine-id> <index>",
		Short: "Remove the exercise at index (as shown by routines show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			vm := viewmodel.NewRoutineEditor(c.app.Service, nil)
			if err := vm.Load(cmd.Context(), args[0], true); err != nil {
				return err
			}
			if err := vm.RemoveExercise(index); err != nil {
				return err
			}
			return saveRoutine(cmd, vm)
		},
	}

	cmd.AddCommand(list, show, create, del, update, addExercise, removeExercise)
	return cmd
}

func saveRoutine(cmd *cobra.Command, vm *viewmodel.RoutineEditor) error {
	if !vm.Snapshot().Dirty() {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("no changes"))
		return nil
	}
	if _, err := vm.Save(cmd.Context()); err != nil {
		return err
	}
	printRoutine(cmd, vm.Snapshot().Routine)
	return nil
}

func printRoutine(cmd *cobra.Command, r models.WorkoutRoutine) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", titleStyle.Render(r.Name), mutedStyle.Render(r.ID))
	fmt.Fprintln(out, formatExerciseRoutineTable(r.ExerciseRoutines))
}

func readRoutineFile(path string) (models.WorkoutRoutine, error) {
	var r models.WorkoutRoutine
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("reading routine file: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parsing routine file: %w", err)
	}
	if r.ExerciseRoutines == nil {
		r.ExerciseRoutines = []models.ExerciseRoutine{}
	}
	for i, er := range r.ExerciseRoutines {
		if er.Name == "" {
			return r, fmt.Errorf("routine file: exercise %d has no name", i)
		}
		if er.Sets < 0 || er.Reps < 0 {
			return r, fmt.Errorf("routine file: exercise %q: sets and reps must be non-negative", er.Name)
		}
	}
	return r, nil
}
