package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	mistakePrefixes = []string{"اشتباه:", "mistake:"}
	mockPrefixes    = []string{"mock:", "ماک:"}
)

// OnboardedFunc runs once a user's name has been stored.
type OnboardedFunc func(ctx context.Context, record *models.UserRecord)

// Dispatcher turns chat intents into record changes and reply payloads.
type Dispatcher struct {
	logger    *logrus.Entry
	repo      utils.UserRecordRepository
	clock     utils.Clock
	policy    models.LedgerPolicy
	onboarded OnboardedFunc
}

func New(logger *logrus.Entry, repo utils.UserRecordRepository, clock utils.Clock, policy models.LedgerPolicy) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		repo:   repo,
		clock:  clock,
		policy: policy,
	}
}

// OnOnboarded registers a hook that runs after the store update has finished.
func (d *Dispatcher) OnOnboarded(fn OnboardedFunc) {
	d.onboarded = fn
}

func (d *Dispatcher) OnStart(ctx context.Context, userID string) (*models.Reply, error) {
	if _, err := d.repo.InitUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to init user: %w", err)
	}
	return menuReply(welcomeText), nil
}

// OnText handles free text. A nil reply means the text is ignored.
func (d *Dispatcher) OnText(ctx context.Context, userID, text string) (*models.Reply, error) {
	record, err := d.repo.InitUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to init user: %w", err)
	}

	if !record.Onboarded() {
		return d.setName(ctx, userID, text)
	}

	switch strings.TrimSpace(text) {
	case models.MenuToday:
		return todayView(record, d.clock.Now()), nil
	case models.MenuChecklist:
		return d.showChecklist(ctx, record)
	case models.MenuStats:
		return statsView(record), nil
	case models.MenuWeekPlan:
		return weekPlanView(record), nil
	case models.MenuMockTest:
		return mockMenuView(), nil
	case models.MenuErrors:
		return errorsView(record), nil
	case models.MenuSetWeek:
		return setWeekView(), nil
	case models.MenuHelp:
		return menuReply(helpText), nil
	}

	if rest, ok := cutAnyPrefix(text, mistakePrefixes); ok {
		return d.logMistake(ctx, userID, rest)
	}
	if rest, ok := cutAnyPrefix(text, mockPrefixes); ok {
		return d.logMockTest(ctx, userID, rest)
	}

	return nil, nil
}

func (d *Dispatcher) OnCallback(ctx context.Context, userID, token string) (*models.Reply, error) {
	if _, err := d.repo.InitUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to init user: %w", err)
	}

	switch {
	case strings.HasPrefix(token, models.CallbackCheckPrefix):
		item, err := models.ParseChecklistItem(strings.TrimPrefix(token, models.CallbackCheckPrefix))
		if err != nil {
			return nil, err
		}
		return d.toggle(ctx, userID, item)
	case token == models.CallbackResetChecklist:
		return d.reset(ctx, userID)
	case strings.HasPrefix(token, models.CallbackSetWeekPrefix):
		return d.setWeek(ctx, userID, strings.TrimPrefix(token, models.CallbackSetWeekPrefix))
	case token == models.CallbackStartMock:
		return menuReply(mockFormatHint), nil
	case token == models.CallbackMockResults:
		record, err := d.repo.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		return mockResultsView(record), nil
	case token == models.CallbackClose:
		return menuReply("👌 بسته شد"), nil
	}

	return nil, fmt.Errorf("unknown callback token %q", token)
}

func (d *Dispatcher) setName(ctx context.Context, userID, name string) (*models.Reply, error) {
	onboardedNow := false
	record, err := d.repo.Update(ctx, userID, func(u *models.UserRecord) error {
		if u.Name != "" {
			return nil
		}
		u.Name = name
		onboardedNow = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set name: %w", err)
	}

	if onboardedNow {
		d.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"name":    name,
		}).Info("User onboarded")
		if d.onboarded != nil {
			d.onboarded(ctx, record)
		}
	}

	return menuReply(nameConfirmText(record.Name)), nil
}

// showChecklist persists a day rollover before rendering, so a new day always
// starts from an empty checklist.
func (d *Dispatcher) showChecklist(ctx context.Context, record *models.UserRecord) (*models.Reply, error) {
	today := utils.Today(d.clock)
	if record.LastChecklistDate == today {
		return checklistView(record), nil
	}

	updated, err := d.repo.Update(ctx, record.UserID, func(u *models.UserRecord) error {
		u.RolloverChecklist(today)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to roll over checklist: %w", err)
	}
	return checklistView(updated), nil
}

func (d *Dispatcher) toggle(ctx context.Context, userID string, item models.ChecklistItem) (*models.Reply, error) {
	today := utils.Today(d.clock)

	var transition models.Transition
	record, err := d.repo.Update(ctx, userID, func(u *models.UserRecord) error {
		var err error
		transition, err = u.ToggleChecklist(item, today, d.policy)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle %s: %w", item, err)
	}

	d.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"item":        item,
		"regime":      transition.Regime.String(),
		"rolled_over": transition.RolledOver,
		"credited":    transition.Credited,
		"penalized":   transition.Penalized,
		"streak":      record.Streak,
	}).Info("Checklist toggled")

	return toggleView(record, transition, d.policy.PenaltyAmount), nil
}

func (d *Dispatcher) reset(ctx context.Context, userID string) (*models.Reply, error) {
	if _, err := d.repo.Update(ctx, userID, func(u *models.UserRecord) error {
		u.ResetChecklist()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to reset checklist: %w", err)
	}
	return menuReply("✅ چک‌لیست ریست شد! از منو دوباره باز کن."), nil
}

func (d *Dispatcher) setWeek(ctx context.Context, userID, raw string) (*models.Reply, error) {
	week, err := strconv.Atoi(raw)
	if err != nil || !models.ValidWeek(week) {
		d.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"week":    raw,
		}).Warn("Rejected out of range week")
		return menuReply(models.NotDefinedText), nil
	}

	if _, err := d.repo.Update(ctx, userID, func(u *models.UserRecord) error {
		return u.SetWeek(week)
	}); err != nil {
		if errors.Is(err, models.ErrOutOfRangeWeek) {
			return menuReply(models.NotDefinedText), nil
		}
		return nil, fmt.Errorf("failed to set week: %w", err)
	}

	plan, _ := models.WeekPlanFor(week)
	return menuReply(fmt.Sprintf("✅ هفته %d تنظیم شد!\n\n🎯 فوکوس: %s\n\n💡 برای جزئیات: %s", week, plan.Focus, models.MenuWeekPlan)), nil
}

func (d *Dispatcher) logMistake(ctx context.Context, userID, mistake string) (*models.Reply, error) {
	mistake = strings.TrimSpace(mistake)
	if mistake == "" {
		return menuReply(mistakeFormatHint), nil
	}

	record, err := d.repo.Update(ctx, userID, func(u *models.UserRecord) error {
		u.Errors = append(u.Errors, mistake)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log mistake: %w", err)
	}
	return menuReply(fmt.Sprintf("📝 ثبت شد! تا الان %d اشتباه توی دفترت داری.", len(record.Errors))), nil
}

func (d *Dispatcher) logMockTest(ctx context.Context, userID, raw string) (*models.Reply, error) {
	entry, ok := parseMockTest(raw)
	if !ok {
		return menuReply(mockFormatHint), nil
	}
	entry.ID = uuid.NewString()
	entry.Date = utils.Today(d.clock)

	if _, err := d.repo.Update(ctx, userID, func(u *models.UserRecord) error {
		u.MockTests = append(u.MockTests, entry)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to log mock test: %w", err)
	}
	return menuReply(fmt.Sprintf("✅ نتیجه %s ثبت شد: %d/%d", entry.Section, entry.Score, entry.MaxScore)), nil
}

// parseMockTest reads "<section> <score>/<max>".
func parseMockTest(raw string) (models.MockTest, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return models.MockTest{}, false
	}

	var score, maxScore int
	if _, err := fmt.Sscanf(fields[1], "%d/%d", &score, &maxScore); err != nil {
		return models.MockTest{}, false
	}
	if maxScore <= 0 || score < 0 || score > maxScore {
		return models.MockTest{}, false
	}

	return models.MockTest{Section: fields[0], Score: score, MaxScore: maxScore}, true
}

func cutAnyPrefix(text string, prefixes []string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range prefixes {
		if rest, ok := cutFoldPrefix(trimmed, prefix); ok {
			return rest, true
		}
	}
	return "", false
}

// cutFoldPrefix compares rune counts, not byte lengths, since case folding
// can map runes of different widths onto each other.
func cutFoldPrefix(s, prefix string) (string, bool) {
	want := utf8.RuneCountInString(prefix)
	end, count := len(s), 0
	for i := range s {
		if count == want {
			end = i
			break
		}
		count++
	}
	if count < want || !strings.EqualFold(s[:end], prefix) {
		return "", false
	}
	return s[end:], true
}
