package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("component", "test")
}

func testClock() *utils.FixedClock {
	loc, _ := time.LoadLocation("UTC")
	return &utils.FixedClock{Time: time.Date(2024, 3, 10, 9, 0, 0, 0, loc)}
}

func newTestFileRepo(t *testing.T) (utils.UserRecordRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_data.json")
	return NewFileRepository(testLogger(), path, testClock()), path
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file loads as empty", func(t *testing.T) {
		repo, _ := newTestFileRepo(t)

		users, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("init user is idempotent", func(t *testing.T) {
		repo, _ := newTestFileRepo(t)

		first, err := repo.InitUser(ctx, "U1")
		require.NoError(t, err)
		_, err = repo.Update(ctx, "U1", func(u *models.UserRecord) error {
			u.Name = "Ali"
			return nil
		})
		require.NoError(t, err)

		second, err := repo.InitUser(ctx, "U1")
		require.NoError(t, err)

		assert.Equal(t, "2024-03-10", first.StartDate)
		assert.Equal(t, "Ali", second.Name)
		assert.Equal(t, 0, second.Streak)
	})

	t.Run("records survive a reopen", func(t *testing.T) {
		repo, path := newTestFileRepo(t)
		_, err := repo.InitUser(ctx, "U1")
		require.NoError(t, err)
		_, err = repo.Update(ctx, "U1", func(u *models.UserRecord) error {
			u.Name = "Sara"
			u.Errors = append(u.Errors, "Akkusativ nach für")
			return nil
		})
		require.NoError(t, err)

		reopened := NewFileRepository(testLogger(), path, testClock())
		record, err := reopened.Get(ctx, "U1")

		require.NoError(t, err)
		assert.Equal(t, "U1", record.UserID)
		assert.Equal(t, "Sara", record.Name)
		assert.Equal(t, []string{"Akkusativ nach für"}, record.Errors)
	})

	t.Run("get and update fail for unknown users", func(t *testing.T) {
		repo, _ := newTestFileRepo(t)

		_, err := repo.Get(ctx, "nobody")
		assert.ErrorIs(t, err, models.ErrUnknownUser)

		_, err = repo.Update(ctx, "nobody", func(u *models.UserRecord) error { return nil })
		assert.ErrorIs(t, err, models.ErrUnknownUser)
	})

	t.Run("failed mutation is not persisted", func(t *testing.T) {
		repo, _ := newTestFileRepo(t)
		_, err := repo.InitUser(ctx, "U1")
		require.NoError(t, err)

		_, err = repo.Update(ctx, "U1", func(u *models.UserRecord) error {
			u.Streak = 99
			return models.ErrOutOfRangeWeek
		})
		require.ErrorIs(t, err, models.ErrOutOfRangeWeek)

		record, err := repo.Get(ctx, "U1")
		require.NoError(t, err)
		assert.Zero(t, record.Streak)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		repo, _ := newTestFileRepo(t)
		_, err := repo.InitUser(ctx, "U1")
		require.NoError(t, err)

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(ctx, "U1", func(u *models.UserRecord) error {
					u.TotalDays++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		record, err := repo.Get(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, workers, record.TotalDays)
	})

	t.Run("corrupt file is moved aside", func(t *testing.T) {
		repo, path := newTestFileRepo(t)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		users, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)

		matches, err := filepath.Glob(path + ".corrupt-*")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		content, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(content))

		_, err = repo.InitUser(ctx, "U1")
		require.NoError(t, err)
	})

	t.Run("save overwrites the whole mapping", func(t *testing.T) {
		repo, _ := newTestFileRepo(t)
		_, err := repo.InitUser(ctx, "U1")
		require.NoError(t, err)

		replacement := map[string]*models.UserRecord{
			"U2": models.NewUserRecord("U2", "2024-03-09"),
		}
		require.NoError(t, repo.Save(ctx, replacement))

		users, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Contains(t, users, "U2")
		assert.Equal(t, "U2", users["U2"].UserID)
	})
}
