package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskflow/internal/client"
	"taskflow/internal/stats"
)

func newHabitsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "habits",
		Aliases: []string{"habit", "h"},
		Short:   "Track habits and their statistics",
	}
	cmd.AddCommand(newHabitsListCmd(e))
	cmd.AddCommand(newHabitsCheckCmd(e))
	cmd.AddCommand(newHabitsClearCmd(e))
	cmd.AddCommand(newHabitsStatsCmd(e))
	cmd.AddCommand(newHabitsOverviewCmd(e))
	return cmd
}

func (e *env) today() time.Time {
	return time.Now().In(e.location())
}

func newHabitsListCmd(e *env) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with their recent history",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := e.client().ListHabits(cmd.Context())
			if err != nil {
				return err
			}
			habits := make([]client.Task, 0, len(views))
			for _, v := range views {
				habits = append(habits, client.FromView(v))
			}
			renderHabits(e.out, habits, e.today(), days)
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", 14, "Days of history to show")
	return cmd
}

func newHabitsCheckCmd(e *env) *cobra.Command {
	var (
		date string
		undo bool
	)

	cmd := &cobra.Command{
		Use:   "check <id>",
		Short: "Mark a habit done for a day (today by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if date == "" {
				date = e.today().Format(stats.DateLayout)
			}

			sync := e.synchronizer()
			if err := sync.Refresh(cmd.Context()); err != nil {
				return err
			}
			t, err := sync.SetHabit(cmd.Context(), id, date, !undo)
			if err != nil {
				return err
			}

			state := "completed"
			if undo {
				state = "uncompleted"
			}
			fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Habit %s for %s", state, date)))
			if t.ID != 0 {
				fmt.Fprintf(e.out, "%s %s %s\n", idStyle.Render(fmt.Sprintf("#%d", t.ID)), habitStrip(t.HabitHistory, e.today(), 14), titleStyle.Render(t.Title))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to record (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&undo, "undo", false, "Record the day as not done")
	return cmd
}

func newHabitsClearCmd(e *env) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove the history entry of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if date == "" {
				date = e.today().Format(stats.DateLayout)
			}
			if _, err := e.client().DeleteHabitEntry(cmd.Context(), id, date); err != nil {
				return err
			}
			fmt.Fprintln(e.out, successStyle.Render(fmt.Sprintf("Habit history entry for %s deleted", date)))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to clear (YYYY-MM-DD)")
	return cmd
}

func newHabitsStatsCmd(e *env) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats <id>",
		Short: "Show completion rate and streaks of a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api := e.client()
			habit, err := api.GetHabit(cmd.Context(), id)
			if err != nil {
				return err
			}
			s, err := api.HabitStats(cmd.Context(), id, days)
			if err != nil {
				return err
			}
			renderHabitStats(e.out, habit.Title, s)
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", stats.DefaultHabitDays, "Window in days")
	return cmd
}

func newHabitsOverviewCmd(e *env) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Compare completion rates across habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := e.client().HabitOverview(cmd.Context(), days)
			if err != nil {
				return err
			}
			renderOverview(e.out, o)
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", stats.DefaultOverviewDays, "Window in days")
	return cmd
}
