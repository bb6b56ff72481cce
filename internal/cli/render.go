package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/client"
	"taskflow/internal/model"
	"taskflow/internal/service"
	"taskflow/internal/stats"
)

func renderTasks(w io.Writer, tasks []client.Task, filter model.TaskFilter) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Tasks (%s, %d)", filter, len(tasks))))
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  nothing here"))
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, taskLine(t))
	}
}

func taskLine(t client.Task) string {
	check := "[ ]"
	title := titleStyle.Render(t.Title)
	if t.Completed {
		check = successStyle.Render("[x]")
		title = doneTitleStyle.Render(t.Title)
	}

	parts := []string{idStyle.Render(fmt.Sprintf("#%d", t.ID)), check, title, mutedStyle.Render("(" + t.Category + ")")}
	if t.TimeBlock != nil {
		parts = append(parts, warningStyle.Render(t.TimeBlock.Start+"-"+t.TimeBlock.End))
	}
	if t.IsHabit {
		parts = append(parts, mutedStyle.Render("habit"))
	}
	line := strings.Join(parts, " ")
	if t.Description != "" {
		line += "\n" + strings.Repeat(" ", 10) + mutedStyle.Render(t.Description)
	}
	return line
}

// renderHabits prints each habit with a strip of the last days, oldest first.
func renderHabits(w io.Writer, habits []client.Task, today time.Time, days int) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Habits (%d)", len(habits))))
	if len(habits) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no habits yet"))
		return
	}
	for _, h := range habits {
		fmt.Fprintf(w, "%s %s %s\n", idStyle.Render(fmt.Sprintf("#%d", h.ID)), habitStrip(h.HabitHistory, today, days), titleStyle.Render(h.Title))
	}
}

func habitStrip(history []client.HabitDay, today time.Time, days int) string {
	byDate := make(map[string]bool, len(history))
	for _, d := range history {
		byDate[d.Date] = d.Completed
	}

	var b strings.Builder
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(stats.DateLayout)
		done, ok := byDate[date]
		switch {
		case !ok:
			b.WriteString(mutedStyle.Render("·"))
		case done:
			b.WriteString(successStyle.Render("●"))
		default:
			b.WriteString(errorStyle.Render("○"))
		}
	}
	return b.String()
}

func renderHabitStats(w io.Writer, title string, s *service.HabitStats) {
	rows := []string{
		titleStyle.Render(title) + mutedStyle.Render(" over "+s.Period),
		"",
		field("Completion", rateStyle(float64(s.CompletionRate)).Render(fmt.Sprintf("%d%%", s.CompletionRate))),
		field("Completed days", fmt.Sprintf("%d / %d", s.CompletedDays, s.TotalDays)),
		field("Current streak", fmt.Sprintf("%d", s.CurrentStreak)),
		field("Longest streak", fmt.Sprintf("%d", s.LongestStreak)),
	}
	fmt.Fprintln(w, panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func renderOverview(w io.Writer, o *service.HabitOverview) {
	fmt.Fprintln(w, headerStyle.Render("Habit overview, last "+o.Period))
	fmt.Fprintln(w, field("Habits", fmt.Sprintf("%d (%d active)", o.TotalHabits, o.ActiveHabits)))
	fmt.Fprintln(w, field("Average", rateStyle(float64(o.AverageCompletionRate)).Render(fmt.Sprintf("%d%%", o.AverageCompletionRate))))
	fmt.Fprintln(w)

	for _, h := range o.Habits {
		rate := mutedStyle.Render("no entries")
		if h.CompletionRate != nil {
			rate = rateStyle(*h.CompletionRate).Render(fmt.Sprintf("%5.1f%%", *h.CompletionRate)) +
				mutedStyle.Render(fmt.Sprintf(" (%d/%d)", h.CompletedEntries, h.TotalEntries))
		}
		category := ""
		if h.CategoryName != nil {
			category = mutedStyle.Render(" (" + *h.CategoryName + ")")
		}
		fmt.Fprintf(w, "%s %s%s  %s\n", idStyle.Render(fmt.Sprintf("#%d", h.ID)), titleStyle.Render(h.Title), category, rate)
	}
}

func renderCategories(w io.Writer, categories []model.Category) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Categories (%d)", len(categories))))
	for _, c := range categories {
		fmt.Fprintf(w, "%s %s %s\n", idStyle.Render(fmt.Sprintf("#%d", c.ID)), badgeStyle(c.Color, c.TextColor).Render(c.Name), mutedStyle.Render(c.Color+" / "+c.TextColor))
	}
}

func renderHealth(w io.Writer, baseURL string, h *client.Health) {
	status := successStyle.Render(h.Status)
	if h.Status != "OK" {
		status = errorStyle.Render(h.Status)
	}
	rows := []string{
		field("Server", baseURL),
		field("Status", status),
		field("Database", h.Database),
	}
	if h.DBTime != "" {
		rows = append(rows, field("Database time", h.DBTime))
	}
	if h.Error != "" {
		rows = append(rows, field("Error", errorStyle.Render(h.Error)))
	}
	fmt.Fprintln(w, panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func field(label, value string) string {
	return labelStyle.Render(label) + value
}
