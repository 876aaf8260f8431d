package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/harbour/internal/domain"
)

var now = time.Now

var (
	taskTitle      string
	taskImportance string
	taskHours      string
	taskDue        string
	taskDeps       string
	lsJSON         bool
	clearYes       bool
)

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&taskTitle, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&taskImportance, "importance", "i", "", "importance, a whole number from 1 to 10")
	cmd.Flags().StringVarP(&taskHours, "hours", "e", "", "estimated hours, at least 1")
	cmd.Flags().StringVarP(&taskDue, "due", "d", "", "due date, YYYY-MM-DD or DD/MM/YYYY")
	cmd.Flags().StringVar(&taskDeps, "deps", "", "comma separated ids of tasks this one depends on")
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	Example: `  harbour add -t "Fix login bug" -i 8 -e 3 -d 07/12/2025
  harbour add -t "Deploy" -i 6 -e 1 -d 2025-12-12 --deps T1,T2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		d := domain.Draft{
			Title:          taskTitle,
			Importance:     taskImportance,
			EstimatedHours: taskHours,
			DueDate:        taskDue,
			Dependencies:   taskDeps,
		}
		task, err := a.svc.Add(cmd.Context(), d)
		if err != nil {
			return MapError(fmt.Errorf("failed to add task: %w", err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", task.ID, task.Title)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a task; flags not given keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		d, err := a.svc.BeginEdit(args[0])
		if err != nil {
			return MapError(err)
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			d.Title = taskTitle
		}
		if flags.Changed("importance") {
			d.Importance = taskImportance
		}
		if flags.Changed("hours") {
			d.EstimatedHours = taskHours
		}
		if flags.Changed("due") {
			d.DueDate = taskDue
		}
		if flags.Changed("deps") {
			d.Dependencies = taskDeps
		}

		task, err := a.svc.Update(cmd.Context(), args[0], d)
		if err != nil {
			return MapError(fmt.Errorf("failed to update task: %w", err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", task.ID, task.Title)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Delete(cmd.Context(), args[0]); err != nil {
			return MapError(fmt.Errorf("failed to delete task: %w", err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completed flag; completing one asks for the next task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.svc.ToggleCompleted(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("failed to toggle task: %w", err))
		}

		out := cmd.OutOrStdout()
		if !res.Task.Completed {
			fmt.Fprintf(out, "Reopened %s: %s\n", res.Task.ID, res.Task.Title)
			return nil
		}

		fmt.Fprintf(out, "Completed %s: %s\n", res.Task.ID, res.Task.Title)
		if res.SuggestErr != nil {
			// the toggle is saved; only the follow-up failed
			fmt.Fprintln(out, warnStyle.Render("Could not get a suggestion: "+MapError(res.SuggestErr).Error()))
			return nil
		}
		renderSuggestion(out, res.Suggestion, now())
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		tasks := a.svc.Tasks()
		if lsJSON {
			return renderJSON(cmd.OutOrStdout(), tasks)
		}
		renderTasks(cmd.OutOrStdout(), tasks, now())
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task and the stored list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return NewCLIError("refusing to clear tasks", "Re-run with --yes to delete every task", nil)
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Clear(cmd.Context()); err != nil {
			return MapError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all tasks")
		return nil
	},
}

func init() {
	addDraftFlags(addCmd)

	addDraftFlags(editCmd)

	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "print tasks as JSON")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "confirm")

	RootCmd.AddCommand(addCmd, editCmd, rmCmd, doneCmd, lsCmd, clearCmd)
}
