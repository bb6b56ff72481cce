package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/model"
	"taskflow/internal/stats"
)

// Notifier delivers a rendered report.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// ReportService builds human-readable habit digests for scheduled notifications.
type ReportService struct {
	habits *HabitService
	days   int
}

func NewReportService(habits *HabitService, days int) *ReportService {
	if days <= 0 {
		days = stats.DefaultOverviewDays
	}
	return &ReportService{habits: habits, days: days}
}

// HabitDigest renders the habit overview for the report window and lists the
// habits still open for today. The output uses Telegram HTML markup.
func (s *ReportService) HabitDigest(ctx context.Context) (string, error) {
	overview, err := s.habits.Overview(ctx, s.days)
	if err != nil {
		return "", err
	}
	habits, err := s.habits.List(ctx)
	if err != nil {
		return "", err
	}
	today := s.habits.clock.Today()

	var builder strings.Builder
	builder.WriteString("📋 <b>Habit digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s · last %s\n\n", today, overview.Period))

	builder.WriteString(fmt.Sprintf("📈 Average completion: <b>%d%%</b> (%d of %d habits active)\n\n",
		overview.AverageCompletionRate, overview.ActiveHabits, overview.TotalHabits))

	builder.WriteString("🏁 <b>Completion rates</b>\n")
	if len(overview.Habits) == 0 {
		builder.WriteString("— no habits yet\n")
	} else {
		for _, h := range overview.Habits {
			builder.WriteString(formatHabitRate(h))
		}
	}

	builder.WriteString("\n⏳ <b>Open today</b>\n")
	pending := pendingOn(habits, today)
	if len(pending) == 0 {
		builder.WriteString("— all done\n")
	} else {
		for _, v := range pending {
			builder.WriteString(formatPending(v))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

// pendingOn returns habits without a completed entry for date.
func pendingOn(habits []model.TaskView, date string) []model.TaskView {
	var pending []model.TaskView
	for _, v := range habits {
		done := false
		for _, h := range v.HabitHistory {
			if h.Date == date && h.Completed {
				done = true
				break
			}
		}
		if !done {
			pending = append(pending, v)
		}
	}
	return pending
}

func formatHabitRate(h stats.HabitRate) string {
	var sb strings.Builder

	icon := "⚪"
	rate := "no entries"
	if h.CompletionRate != nil {
		r := *h.CompletionRate
		switch {
		case r >= 80:
			icon = "🟢"
		case r >= 50:
			icon = "🟡"
		default:
			icon = "🔴"
		}
		rate = fmt.Sprintf("%.1f%% (%d/%d)", r, h.CompletedEntries, h.TotalEntries)
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(h.Title))))
	if h.CategoryName != nil {
		if name := strings.TrimSpace(*h.CategoryName); name != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
		}
	}
	sb.WriteString(fmt.Sprintf(" · %s\n", rate))
	return sb.String()
}

func formatPending(v model.TaskView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("♻️ %s", html.EscapeString(strings.TrimSpace(v.Title))))
	if v.Category != nil {
		if name := strings.TrimSpace(*v.Category); name != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
		}
	}
	if v.Description != nil {
		if desc := strings.TrimSpace(*v.Description); desc != "" {
			sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(desc)))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ReportJob renders the digest and hands it to a notifier. It is meant to be
// registered on the scheduler.
type ReportJob struct {
	report   *ReportService
	notifier Notifier
	timeout  time.Duration
	log      *zap.Logger
}

func NewReportJob(report *ReportService, notifier Notifier, log *zap.Logger) *ReportJob {
	return &ReportJob{report: report, notifier: notifier, timeout: 30 * time.Second, log: log.Named("report")}
}

// Run builds and sends one digest.
func (j *ReportJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	text, err := j.report.HabitDigest(ctx)
	if err != nil {
		return fmt.Errorf("build habit digest: %w", err)
	}
	if err := j.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("send habit digest: %w", err)
	}
	return nil
}

// Func adapts Run to a cron job, logging failures.
func (j *ReportJob) Func() func() {
	return func() {
		if err := j.Run(context.Background()); err != nil {
			j.log.Error("habit digest failed", zap.Error(err))
			return
		}
		j.log.Info("habit digest sent")
	}
}
