package main

import (
	"context"

	"bootcamp-assistant/internal/dispatcher"
	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	logger        *logrus.Entry
	linebotClient utils.LinebotAPI
	openaiClient  utils.OpenaiAPI
	userRepo      utils.UserRecordRepository
	reminderRepo  utils.ReminderRepository
	clock         utils.Clock
}

func NewHandler(logger *logrus.Entry, linebotClient utils.LinebotAPI, openaiClient utils.OpenaiAPI, userRepo utils.UserRecordRepository, reminderRepo utils.ReminderRepository, clock utils.Clock) (*Handler, error) {
	return &Handler{
		logger:        logger,
		linebotClient: linebotClient,
		openaiClient:  openaiClient,
		userRepo:      userRepo,
		reminderRepo:  reminderRepo,
		clock:         clock,
	}, nil
}

// HandleRequest pushes the digest to request["userId"], or to every onboarded
// user when no id is given.
func (h *Handler) HandleRequest(ctx context.Context, request map[string]string) (map[string]interface{}, error) {
	targets, err := h.targets(ctx, request["userId"])
	if err != nil {
		h.logger.WithError(err).Error("Failed to load digest targets")
		return map[string]interface{}{
			"status":  "error",
			"message": "Failed to load users",
		}, nil
	}

	sent, failed := 0, 0
	for _, record := range targets {
		if err := h.pushDigest(ctx, record); err != nil {
			h.logger.WithError(err).WithField("user_id", record.UserID).Error("Failed to send digest")
			failed++
			continue
		}
		sent++
	}

	h.logger.WithFields(logrus.Fields{
		"sent":   sent,
		"failed": failed,
	}).Info("Digest run finished")

	status := "success"
	if failed > 0 {
		status = "partial"
	}
	return map[string]interface{}{
		"status": status,
		"sent":   sent,
		"failed": failed,
	}, nil
}

func (h *Handler) targets(ctx context.Context, userID string) ([]*models.UserRecord, error) {
	if userID == "" {
		return h.reminderRepo.GetReminderTargets(ctx)
	}

	record, err := h.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !record.Onboarded() {
		h.logger.WithField("user_id", userID).Info("User has not finished onboarding, skipping digest")
		return nil, nil
	}
	return []*models.UserRecord{record}, nil
}

func (h *Handler) pushDigest(ctx context.Context, record *models.UserRecord) error {
	now := h.clock.Now()

	var note string
	if h.openaiClient != nil {
		var err error
		note, err = h.openaiClient.CoachNote(ctx, dispatcher.DigestSummary(record, now))
		if err != nil {
			// the digest still goes out without a note
			h.logger.WithError(err).WithField("user_id", record.UserID).Warn("Failed to write coach note")
			note = ""
		}
	}

	return h.linebotClient.PushMessage(record.UserID, dispatcher.Digest(record, now, note))
}
