package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// DigestService builds human-readable status summaries for notification
// delivery: milestones past or near their target date and tasks approaching
// their end date.
type DigestService struct {
	db *gorm.DB
}

func NewDigestService(db *gorm.DB) *DigestService {
	return &DigestService{db: db}
}

// Summary returns the digest text for one owner, or "" when there is
// nothing worth sending. window is how far ahead of now to look.
func (s *DigestService) Summary(ctx context.Context, ownerID uint, now time.Time, window time.Duration) (string, error) {
	until := now.Add(window)

	milestones, err := repository.NewMilestoneRepository(s.db).ListPendingByOwner(ctx, ownerID, until)
	if err != nil {
		return "", err
	}
	tasks, err := repository.NewTaskRepository(s.db).ListDueByOwner(ctx, ownerID, until)
	if err != nil {
		return "", err
	}
	if len(milestones) == 0 && len(tasks) == 0 {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Status digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	if len(milestones) > 0 {
		builder.WriteString("\n🏁 <b>Milestones</b>\n")
		for _, milestone := range milestones {
			builder.WriteString(formatMilestone(milestone, now))
		}
	}

	if len(tasks) > 0 {
		builder.WriteString("\n🔥 <b>Tasks due</b>\n")
		for _, task := range tasks {
			builder.WriteString(formatDueTask(task, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatMilestone(milestone model.Milestone, now time.Time) string {
	var sb strings.Builder

	icon := "⏳"
	if now.After(milestone.TargetDate) {
		icon = "⚠️"
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(milestone.Name))))
	if now.After(milestone.TargetDate) {
		sb.WriteString(fmt.Sprintf("\n   🎯 %s — <b>overdue</b>", milestone.TargetDate.Format("2006-01-02")))
	} else {
		sb.WriteString(fmt.Sprintf("\n   🎯 %s", milestone.TargetDate.Format("2006-01-02")))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func formatDueTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "⏳"
	if task.EndDate != nil && now.After(*task.EndDate) {
		icon = "⚠️"
	}
	sb.WriteString(fmt.Sprintf("%s %s · %d%%", icon, html.EscapeString(strings.TrimSpace(task.Name)), task.Progress))
	if task.EndDate != nil {
		if now.After(*task.EndDate) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s — <b>overdue</b>", task.EndDate.Format("2006-01-02")))
		} else {
			daysLeft := int(task.EndDate.Sub(now).Hours()/24) + 1
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s · ≈%d day(s) left", task.EndDate.Format("2006-01-02"), daysLeft))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
