package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taskflow/internal/client"
	"taskflow/internal/model"
)

func newTasksCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "List and manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(e))
	cmd.AddCommand(newTasksAddCmd(e))
	cmd.AddCommand(newTasksEditCmd(e))
	cmd.AddCommand(newTasksToggleCmd(e))
	cmd.AddCommand(newTasksDeleteCmd(e))
	return cmd
}

func (e *env) synchronizer() *client.Synchronizer {
	return client.NewSynchronizer(e.client(), e.location(), e.logger())
}

func newTasksListCmd(e *env) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseTaskFilter(filter)
			if err != nil {
				return err
			}
			sync := e.synchronizer()
			if err := sync.Refresh(cmd.Context()); err != nil {
				return err
			}
			sync.SetFilter(f)
			renderTasks(e.out, sync.Visible(), f)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active, completed, habits or timeBlocked")
	return cmd
}

type taskFlags struct {
	description string
	category    string
	habit       bool
	start       string
	end         string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category name")
	cmd.Flags().BoolVar(&f.habit, "habit", false, "Track the task as a daily habit")
	cmd.Flags().StringVar(&f.start, "start", "", "Time block start (HH:MM), scheduled today")
	cmd.Flags().StringVar(&f.end, "end", "", "Time block end (HH:MM)")
}

func newTasksAddCmd(e *env) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := client.Task{
				Title:       args[0],
				Description: f.description,
				Category:    f.category,
				IsHabit:     f.habit,
			}
			if f.start != "" || f.end != "" {
				if f.start == "" || f.end == "" {
					return fmt.Errorf("--start and --end must be given together")
				}
				t.TimeBlock = &client.TimeBlock{Start: f.start, End: f.end}
			}

			created, err := e.synchronizer().Create(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, successStyle.Render("Task created"))
			fmt.Fprintln(e.out, taskLine(created))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newTasksEditCmd(e *env) *cobra.Command {
	var (
		f     taskFlags
		title string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sync := e.synchronizer()
			t, err := findTask(cmd.Context(), sync, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				t.Title = title
			}
			if flags.Changed("description") {
				t.Description = f.description
			}
			if flags.Changed("category") {
				t.Category = f.category
				t.Categorized = true
			}
			if flags.Changed("habit") {
				t.IsHabit = f.habit
			}
			if flags.Changed("start") || flags.Changed("end") {
				block := client.TimeBlock{}
				if t.TimeBlock != nil {
					block = *t.TimeBlock
				}
				if flags.Changed("start") {
					block.Start = f.start
				}
				if flags.Changed("end") {
					block.End = f.end
				}
				t.TimeBlock = &block
			}

			updated, err := sync.Update(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, successStyle.Render("Task updated"))
			fmt.Fprintln(e.out, taskLine(updated))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	return cmd
}

func newTasksToggleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip a task between open and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := e.synchronizer().Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, taskLine(t))
			return nil
		},
	}
}

func newTasksDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task with its time blocks and habit history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := e.synchronizer().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Task #%d deleted", id)))
			return nil
		},
	}
}

// findTask loads the mirror and returns task id from it.
func findTask(ctx context.Context, sync *client.Synchronizer, id uint) (client.Task, error) {
	if err := sync.Refresh(ctx); err != nil {
		return client.Task{}, err
	}
	for _, t := range sync.Snapshot().Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return client.Task{}, fmt.Errorf("task #%d not found", id)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
