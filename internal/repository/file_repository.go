package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/sirupsen/logrus"
)

// fileRepository keeps every user in one human-readable JSON document. A single
// mutex covers each read-modify-write so updates never get lost.
type fileRepository struct {
	logger *logrus.Entry
	path   string
	clock  utils.Clock
	mu     sync.Mutex
}

func NewFileRepository(logger *logrus.Entry, path string, clock utils.Clock) utils.UserRecordRepository {
	return &fileRepository{
		logger: logger,
		path:   path,
		clock:  clock,
	}
}

func (r *fileRepository) Load(ctx context.Context) (map[string]*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

func (r *fileRepository) Save(ctx context.Context, users map[string]*models.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(users)
}

func (r *fileRepository) InitUser(ctx context.Context, userID string) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load()
	if record, ok := users[userID]; ok {
		return record.Clone(), nil
	}

	record := models.NewUserRecord(userID, utils.Today(r.clock))
	users[userID] = record
	if err := r.save(users); err != nil {
		return nil, err
	}

	r.logger.WithField("userId", userID).Info("Created user record")
	return record.Clone(), nil
}

func (r *fileRepository) Get(ctx context.Context, userID string) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.load()[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownUser, userID)
	}
	return record.Clone(), nil
}

func (r *fileRepository) Update(ctx context.Context, userID string, mutate func(*models.UserRecord) error) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.load()
	record, ok := users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownUser, userID)
	}

	// mutate a copy so a failing callback leaves the stored record alone
	updated := record.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.Version++
	users[userID] = updated

	if err := r.save(users); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (r *fileRepository) load() map[string]*models.UserRecord {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.WithError(err).Warn("Failed to read user data file, treating as empty")
		}
		return map[string]*models.UserRecord{}
	}

	var users map[string]*models.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		r.quarantine(err)
		return map[string]*models.UserRecord{}
	}
	if users == nil {
		users = map[string]*models.UserRecord{}
	}

	for userID, record := range users {
		if record == nil {
			delete(users, userID)
			continue
		}
		record.UserID = userID
		record.Normalize()
	}
	return users
}

// quarantine moves an unreadable file aside so the next save does not destroy it.
func (r *fileRepository) quarantine(cause error) {
	target := fmt.Sprintf("%s.corrupt-%d", r.path, r.clock.Now().Unix())
	entry := r.logger.WithError(cause).WithField("moved_to", target)
	if err := os.Rename(r.path, target); err != nil {
		entry.WithField("rename_error", err.Error()).Error("User data file is corrupt and could not be moved aside")
		return
	}
	entry.Warn("User data file is corrupt, starting with no users")
}

func (r *fileRepository) save(users map[string]*models.UserRecord) error {
	now := r.clock.Now().UTC().Format(time.RFC3339)
	for _, record := range users {
		record.UpdatedAt = now
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user data: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		r.logger.WithError(err).Error("Failed to replace user data file")
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}
