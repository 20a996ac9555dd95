package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekPlanFor(t *testing.T) {
	t.Run("every camp week has a plan", func(t *testing.T) {
		for week := FirstWeek; week <= LastWeek; week++ {
			plan, err := WeekPlanFor(week)
			require.NoError(t, err, "week %d", week)
			assert.Equal(t, week, plan.Week)
			assert.NotEmpty(t, plan.Focus)
			assert.NotEmpty(t, plan.GrammarTopics)
			assert.NotEmpty(t, plan.VocabTopics)
			assert.NotEmpty(t, plan.DailyTasks)
		}
	})

	t.Run("returned plans do not share the catalog", func(t *testing.T) {
		plan, err := WeekPlanFor(3)
		require.NoError(t, err)
		focus := plan.DailyTasks[0]

		plan.DailyTasks[0] = "changed"
		plan.GrammarTopics[0] = "changed"
		plan.VocabTopics = append(plan.VocabTopics[:0], "changed")

		again, err := WeekPlanFor(3)
		require.NoError(t, err)
		assert.Equal(t, focus, again.DailyTasks[0])
		assert.NotEqual(t, "changed", again.GrammarTopics[0])
		assert.NotEqual(t, "changed", again.VocabTopics[0])
	})

	t.Run("weeks outside the camp are rejected", func(t *testing.T) {
		for _, week := range []int{-1, 0, 13, 100} {
			_, err := WeekPlanFor(week)
			assert.ErrorIs(t, err, ErrOutOfRangeWeek, "week %d", week)
		}
	})
}

func TestDailySchedule(t *testing.T) {
	t.Run("each weekday resolves to its own timetable", func(t *testing.T) {
		seen := map[string]bool{}
		for day := time.Sunday; day <= time.Saturday; day++ {
			name := PersianWeekday(day)
			require.NotEmpty(t, name)

			schedule := DailySchedule(name)
			assert.NotEqual(t, ScheduleNotDefined, schedule, name)
			assert.Contains(t, schedule, name)
			assert.False(t, seen[schedule], "duplicate schedule for %s", name)
			seen[schedule] = true
		}
	})

	t.Run("unknown names fall back to the placeholder", func(t *testing.T) {
		assert.Equal(t, ScheduleNotDefined, DailySchedule("Monday"))
		assert.Equal(t, ScheduleNotDefined, DailySchedule(""))
	})
}

func TestUserRecord(t *testing.T) {
	t.Run("new record starts at week one with default skills", func(t *testing.T) {
		u := NewUserRecord("U1", "2024-03-10")

		assert.Equal(t, FirstWeek, u.CurrentWeek)
		assert.Equal(t, DefaultSkills(), u.Skills)
		assert.Equal(t, "2024-03-10", u.StartDate)
		assert.False(t, u.Onboarded())
		assert.Empty(t, u.LastChecklistDate)
	})

	t.Run("moving forward marks weeks completed", func(t *testing.T) {
		u := NewUserRecord("U1", "2024-03-10")

		require.NoError(t, u.SetWeek(4))
		assert.Equal(t, []int{1, 2, 3}, u.CompletedWeeks)

		require.NoError(t, u.SetWeek(2))
		assert.Equal(t, 2, u.CurrentWeek)
		assert.Equal(t, []int{1, 2, 3}, u.CompletedWeeks)

		require.NoError(t, u.SetWeek(6))
		assert.Equal(t, []int{1, 2, 3, 4, 5}, u.CompletedWeeks)
	})

	t.Run("out of range week leaves the record alone", func(t *testing.T) {
		u := NewUserRecord("U1", "2024-03-10")

		assert.ErrorIs(t, u.SetWeek(13), ErrOutOfRangeWeek)
		assert.Equal(t, FirstWeek, u.CurrentWeek)
		assert.Empty(t, u.CompletedWeeks)
	})

	t.Run("clone does not share slices", func(t *testing.T) {
		u := NewUserRecord("U1", "2024-03-10")
		u.Errors = append(u.Errors, "der/die")

		c := u.Clone()
		c.Errors[0] = "changed"
		c.Errors = append(c.Errors, "more")

		assert.Equal(t, []string{"der/die"}, u.Errors)
	})

	t.Run("recent errors keeps the latest entries", func(t *testing.T) {
		u := NewUserRecord("U1", "2024-03-10")
		u.Errors = []string{"a", "b", "c"}

		assert.Equal(t, []string{"b", "c"}, u.RecentErrors(2))
		assert.Equal(t, []string{"a", "b", "c"}, u.RecentErrors(10))
	})

	t.Run("normalize fills missing fields", func(t *testing.T) {
		u := &UserRecord{Name: "Sara"}

		u.Normalize()

		assert.Equal(t, FirstWeek, u.CurrentWeek)
		assert.Equal(t, DefaultSkills(), u.Skills)
		assert.NotNil(t, u.Errors)
		assert.NotNil(t, u.MockTests)
		assert.NotNil(t, u.CompletedWeeks)
	})
}
