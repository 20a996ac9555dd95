package dispatcher

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/repository"
	"bootcamp-assistant/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	d     *Dispatcher
	repo  utils.UserRecordRepository
	clock *utils.FixedClock
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "test")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := &utils.FixedClock{Time: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)} // a Sunday
	repo := repository.NewFileRepository(testLogger(), filepath.Join(t.TempDir(), "users.json"), clock)
	return &testEnv{
		d:     New(testLogger(), repo, clock, models.DefaultLedgerPolicy()),
		repo:  repo,
		clock: clock,
	}
}

func (e *testEnv) nextDay() {
	e.clock.Time = e.clock.Time.AddDate(0, 0, 1)
}

func (e *testEnv) record(t *testing.T, userID string) *models.UserRecord {
	t.Helper()
	record, err := e.repo.Get(context.Background(), userID)
	require.NoError(t, err)
	return record
}

func (e *testEnv) onboard(t *testing.T, userID, name string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.d.OnStart(ctx, userID)
	require.NoError(t, err)
	_, err = e.d.OnText(ctx, userID, name)
	require.NoError(t, err)
}

func (e *testEnv) press(t *testing.T, userID string, tokens ...string) *models.Reply {
	t.Helper()
	var reply *models.Reply
	for _, token := range tokens {
		var err error
		reply, err = e.d.OnCallback(context.Background(), userID, token)
		require.NoError(t, err, token)
	}
	return reply
}

func TestOnboarding(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	var hooked []string
	env.d.OnOnboarded(func(ctx context.Context, record *models.UserRecord) {
		hooked = append(hooked, record.Name)
	})

	reply, err := env.d.OnStart(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, welcomeText, reply.Text)
	assert.Len(t, reply.Buttons, len(models.MainMenuLabels))

	record := env.record(t, "U1")
	assert.Zero(t, record.Streak)
	assert.Zero(t, record.Penalty)
	assert.Equal(t, models.Checklist{}, record.Checklist)

	reply, err = env.d.OnText(ctx, "U1", "Ali")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Ali")
	assert.Equal(t, "Ali", env.record(t, "U1").Name)

	// a second message is a menu lookup, not a rename
	reply, err = env.d.OnText(ctx, "U1", "Reza")
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Equal(t, "Ali", env.record(t, "U1").Name)
	assert.Equal(t, []string{"Ali"}, hooked)
}

func TestOnTextCreatesMissingRecord(t *testing.T) {
	env := newTestEnv(t)

	reply, err := env.d.OnText(context.Background(), "U9", "Sara")

	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "Sara", env.record(t, "U9").Name)
}

func TestMenuRouting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.onboard(t, "U1", "Ali")

	tests := []struct {
		label    string
		contains string
	}{
		{models.MenuToday, "برنامه یکشنبه"},
		{models.MenuChecklist, "چک‌لیست امروز"},
		{models.MenuStats, "آمار Ali"},
		{models.MenuWeekPlan, "برنامه هفته 1/12"},
		{models.MenuMockTest, "Mock Test Manager"},
		{models.MenuErrors, "دفتر اشتباهات"},
		{models.MenuSetWeek, "انتخاب هفته"},
		{models.MenuHelp, "راهنمای استفاده"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			reply, err := env.d.OnText(ctx, "U1", "  "+tt.label+" ")
			require.NoError(t, err)
			require.NotNil(t, reply)
			assert.Contains(t, reply.Text, tt.contains)
			assert.NotEmpty(t, reply.Buttons)
		})
	}

	t.Run("unrecognized text gets no reply", func(t *testing.T) {
		reply, err := env.d.OnText(ctx, "U1", "hello?")
		require.NoError(t, err)
		assert.Nil(t, reply)
	})
}

func TestChecklistFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("completing the day credits the streak once", func(t *testing.T) {
		env := newTestEnv(t)
		env.onboard(t, "U1", "Ali")

		reply := env.press(t, "U1", "check_block1", "check_block2", "check_sleep")
		assert.Contains(t, reply.Text, "Streak: 1")

		env.press(t, "U1", "check_sleep", "check_sleep")

		record := env.record(t, "U1")
		assert.Equal(t, 1, record.Streak)
		assert.Equal(t, 1, record.TotalDays)
		assert.Equal(t, 6.1, record.Skills.Reading)
	})

	t.Run("returning to zero shows the penalty", func(t *testing.T) {
		env := newTestEnv(t)
		env.onboard(t, "U1", "Ali")

		env.press(t, "U1", "check_block1")
		reply := env.press(t, "U1", "check_block1")

		assert.Contains(t, reply.Text, "50,000")
		assert.Equal(t, models.DefaultPenaltyAmount, env.record(t, "U1").Penalty)
	})

	t.Run("reset does not penalize", func(t *testing.T) {
		env := newTestEnv(t)
		env.onboard(t, "U1", "Ali")
		env.press(t, "U1", "check_block1", "check_block2", "check_sleep")

		reply := env.press(t, "U1", models.CallbackResetChecklist)

		assert.Contains(t, reply.Text, "ریست شد")
		record := env.record(t, "U1")
		assert.Equal(t, models.Checklist{}, record.Checklist)
		assert.Equal(t, 1, record.Streak)
		assert.Zero(t, record.Penalty)
	})

	t.Run("opening the checklist on a new day rolls it over", func(t *testing.T) {
		env := newTestEnv(t)
		env.onboard(t, "U1", "Ali")
		env.press(t, "U1", "check_block1", "check_block2", "check_sleep")

		env.nextDay()
		reply, err := env.d.OnText(ctx, "U1", models.MenuChecklist)
		require.NoError(t, err)

		assert.Contains(t, reply.Text, "⬜ بلوک صبح")
		record := env.record(t, "U1")
		assert.Equal(t, models.Checklist{}, record.Checklist)
		assert.Equal(t, "2024-03-11", record.LastChecklistDate)
		assert.Equal(t, 1, record.Streak)
		assert.Zero(t, record.Penalty)
	})

	t.Run("unknown item is an error", func(t *testing.T) {
		env := newTestEnv(t)
		env.onboard(t, "U1", "Ali")

		_, err := env.d.OnCallback(ctx, "U1", "check_nap")

		assert.ErrorIs(t, err, models.ErrInvalidChecklistItem)
	})

	t.Run("unknown token is an error", func(t *testing.T) {
		env := newTestEnv(t)
		env.onboard(t, "U1", "Ali")

		_, err := env.d.OnCallback(ctx, "U1", "launch_rocket")

		assert.Error(t, err)
	})
}

func TestSetWeek(t *testing.T) {
	env := newTestEnv(t)
	env.onboard(t, "U1", "Ali")

	reply := env.press(t, "U1", "set_week_5")
	assert.Contains(t, reply.Text, "هفته 5")
	record := env.record(t, "U1")
	assert.Equal(t, 5, record.CurrentWeek)
	assert.Equal(t, []int{1, 2, 3, 4}, record.CompletedWeeks)

	for _, token := range []string{"set_week_0", "set_week_13", "set_week_x"} {
		reply = env.press(t, "U1", token)
		assert.Equal(t, models.NotDefinedText, reply.Text, token)
	}
	assert.Equal(t, 5, env.record(t, "U1").CurrentWeek)
}

func TestMistakesAndMockTests(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.onboard(t, "U1", "Ali")

	t.Run("mistakes are appended", func(t *testing.T) {
		_, err := env.d.OnText(ctx, "U1", "اشتباه: wegen + Genitiv")
		require.NoError(t, err)
		reply, err := env.d.OnText(ctx, "U1", "Mistake: seit + Dativ")
		require.NoError(t, err)

		assert.Contains(t, reply.Text, "2")
		assert.Equal(t, []string{"wegen + Genitiv", "seit + Dativ"}, env.record(t, "U1").Errors)

		reply, err = env.d.OnText(ctx, "U1", models.MenuErrors)
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "1. wegen + Genitiv")
	})

	t.Run("prefix case folding keeps the entry intact", func(t *testing.T) {
		// U+212A KELVIN SIGN folds to k but is three bytes long
		_, err := env.d.OnText(ctx, "U1", "MISTA\u212aE: der Hund")
		require.NoError(t, err)

		errs := env.record(t, "U1").Errors
		assert.Equal(t, "der Hund", errs[len(errs)-1])
	})

	t.Run("empty mistake gets a hint", func(t *testing.T) {
		reply, err := env.d.OnText(ctx, "U1", "اشتباه:   ")
		require.NoError(t, err)
		assert.Equal(t, mistakeFormatHint, reply.Text)
	})

	t.Run("mock results are recorded", func(t *testing.T) {
		reply, err := env.d.OnText(ctx, "U1", "mock: Lesen 18/25")
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "18/25")

		tests := env.record(t, "U1").MockTests
		require.Len(t, tests, 1)
		assert.Equal(t, "Lesen", tests[0].Section)
		assert.Equal(t, 18, tests[0].Score)
		assert.Equal(t, 25, tests[0].MaxScore)
		assert.Equal(t, "2024-03-10", tests[0].Date)
		assert.NotEmpty(t, tests[0].ID)

		reply = env.press(t, "U1", models.CallbackMockResults)
		assert.Contains(t, reply.Text, "Lesen: 18/25 (72%)")
	})

	t.Run("malformed mock input gets the format", func(t *testing.T) {
		for _, text := range []string{"mock: Lesen", "mock: Lesen 30/25", "mock: Lesen abc"} {
			reply, err := env.d.OnText(ctx, "U1", text)
			require.NoError(t, err)
			assert.Equal(t, mockFormatHint, reply.Text, text)
		}
		assert.Len(t, env.record(t, "U1").MockTests, 1)
	})
}

func TestDigest(t *testing.T) {
	now := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	record := models.NewUserRecord("U1", "2024-03-01")
	record.Name = "Ali"
	record.Streak = 4
	record.Checklist = models.Checklist{Block1: true, Sleep: true}

	t.Run("stale checklist counts as zero", func(t *testing.T) {
		record.LastChecklistDate = "2024-03-09"

		text := Digest(record, now, "")

		assert.Contains(t, text, "صبح بخیر Ali")
		assert.Contains(t, text, "برنامه یکشنبه")
		assert.Contains(t, text, "0/3")
		assert.Contains(t, text, "Streak: 4")
		assert.True(t, record.Checklist.Block1, "digest must not modify the record")
	})

	t.Run("today's ticks and coach note are shown", func(t *testing.T) {
		record.LastChecklistDate = "2024-03-10"

		text := Digest(record, now, " ادامه بده! ")

		assert.Contains(t, text, "2/3")
		assert.Contains(t, text, "💬 ادامه بده!")
	})

	t.Run("summary mirrors the record", func(t *testing.T) {
		record.LastChecklistDate = "2024-03-10"

		summary := DigestSummary(record, now)

		assert.Equal(t, utils.CoachSummary{
			Name:           "Ali",
			Week:           1,
			Focus:          "مبانی گرامر و ساختارهای ساده",
			Streak:         4,
			CompletedToday: 2,
		}, summary)
	})
}
