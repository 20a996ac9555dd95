package dispatcher

import (
	"fmt"
	"strings"
	"time"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"
)

// CompletedToday counts today's ticks without rolling the record over. A
// checklist left from an earlier day counts as zero.
func CompletedToday(record *models.UserRecord, now time.Time) int {
	if record.LastChecklistDate != now.Format(models.DateLayout) {
		return 0
	}
	return record.Checklist.Completed()
}

// DigestSummary is what the coach note gets written from.
func DigestSummary(record *models.UserRecord, now time.Time) utils.CoachSummary {
	summary := utils.CoachSummary{
		Name:           record.Name,
		Week:           record.CurrentWeek,
		Streak:         record.Streak,
		TotalDays:      record.TotalDays,
		CompletedToday: CompletedToday(record, now),
	}
	if plan, err := models.WeekPlanFor(record.CurrentWeek); err == nil {
		summary.Focus = plan.Focus
	}
	return summary
}

// Digest renders the morning push. It never changes the record.
func Digest(record *models.UserRecord, now time.Time, coachNote string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("☀️ صبح بخیر %s!\n\n", record.Name))
	sb.WriteString(models.DailySchedule(models.PersianWeekday(now.Weekday())))

	if plan, err := models.WeekPlanFor(record.CurrentWeek); err == nil {
		sb.WriteString(fmt.Sprintf("\n\n📚 هفته %d: %s\n", plan.Week, plan.Focus))
		for i, task := range plan.DailyTasks {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, task))
		}
	} else {
		sb.WriteString("\n\n" + models.NotDefinedText + "\n")
	}

	sb.WriteString(fmt.Sprintf("\n📋 چک‌لیست امروز: %d/3\n", CompletedToday(record, now)))
	sb.WriteString(fmt.Sprintf("🔥 Streak: %d روز", record.Streak))

	if note := strings.TrimSpace(coachNote); note != "" {
		sb.WriteString("\n\n💬 " + note)
	}
	return sb.String()
}
