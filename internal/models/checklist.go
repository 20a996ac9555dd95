package models

import (
	"fmt"
	"math"
)

type ChecklistItem string

const (
	ItemBlock1 ChecklistItem = "block1"
	ItemBlock2 ChecklistItem = "block2"
	ItemSleep  ChecklistItem = "sleep"
)

// ChecklistItems lists the daily items in display order.
var ChecklistItems = []ChecklistItem{ItemBlock1, ItemBlock2, ItemSleep}

func ParseChecklistItem(s string) (ChecklistItem, error) {
	switch item := ChecklistItem(s); item {
	case ItemBlock1, ItemBlock2, ItemSleep:
		return item, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChecklistItem, s)
}

type Checklist struct {
	Block1 bool `json:"block1" dynamodbav:"block1"`
	Block2 bool `json:"block2" dynamodbav:"block2"`
	Sleep  bool `json:"sleep" dynamodbav:"sleep"`
}

func (c Checklist) Done(item ChecklistItem) bool {
	switch item {
	case ItemBlock1:
		return c.Block1
	case ItemBlock2:
		return c.Block2
	case ItemSleep:
		return c.Sleep
	}
	return false
}

func (c *Checklist) toggle(item ChecklistItem) error {
	switch item {
	case ItemBlock1:
		c.Block1 = !c.Block1
	case ItemBlock2:
		c.Block2 = !c.Block2
	case ItemSleep:
		c.Sleep = !c.Sleep
	default:
		return fmt.Errorf("%w: %q", ErrInvalidChecklistItem, item)
	}
	return nil
}

// Completed counts the items ticked today.
func (c Checklist) Completed() int {
	n := 0
	for _, done := range []bool{c.Block1, c.Block2, c.Sleep} {
		if done {
			n++
		}
	}
	return n
}

type Regime int

const (
	RegimeNoneDone Regime = iota
	RegimePartial
	RegimeAllDone
)

func (r Regime) String() string {
	switch r {
	case RegimeNoneDone:
		return "none_done"
	case RegimePartial:
		return "partial"
	case RegimeAllDone:
		return "all_done"
	}
	return "unknown"
}

func (c Checklist) Regime() Regime {
	switch c.Completed() {
	case 0:
		return RegimeNoneDone
	case len(ChecklistItems):
		return RegimeAllDone
	}
	return RegimePartial
}

// LedgerPolicy selects between the historical behaviours of the streak rules.
type LedgerPolicy struct {
	PenaltyAmount int64
	// SameDayGuard allows at most one streak credit per calendar day.
	SameDayGuard bool
	SkillGrowth  bool
	// PenaltyOncePerDay limits the zero-crossing penalty to the first crossing of a day.
	PenaltyOncePerDay bool
}

const (
	DefaultPenaltyAmount int64 = 50000
	SkillStep                  = 0.1
)

func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{
		PenaltyAmount: DefaultPenaltyAmount,
		SameDayGuard:  true,
		SkillGrowth:   true,
	}
}

// Transition describes what a single toggle did to the record.
type Transition struct {
	Item       ChecklistItem
	Regime     Regime
	RolledOver bool
	Credited   bool
	Penalized  bool
}

// RolloverChecklist starts a fresh checklist when the stored day is not today.
// It reports whether anything changed.
func (u *UserRecord) RolloverChecklist(today string) bool {
	if u.LastChecklistDate == today {
		return false
	}
	u.Checklist = Checklist{}
	u.LastChecklistDate = today
	return true
}

// ToggleChecklist flips one item and applies the streak, penalty and skill rules.
func (u *UserRecord) ToggleChecklist(item ChecklistItem, today string, policy LedgerPolicy) (Transition, error) {
	if _, err := ParseChecklistItem(string(item)); err != nil {
		return Transition{}, err
	}

	t := Transition{Item: item}
	t.RolledOver = u.RolloverChecklist(today)

	if err := u.Checklist.toggle(item); err != nil {
		return Transition{}, err
	}
	t.Regime = u.Checklist.Regime()

	switch t.Regime {
	case RegimeAllDone:
		if u.LastChecklistDate != today {
			break
		}
		if policy.SameDayGuard && u.LastStreakUpdate == today {
			break
		}
		u.Streak++
		u.TotalDays++
		u.LastStreakUpdate = today
		if policy.SkillGrowth {
			u.Skills.grow(SkillStep)
		}
		t.Credited = true
	case RegimeNoneDone:
		if policy.PenaltyOncePerDay && u.LastPenaltyDate == today {
			u.Streak = 0
			break
		}
		u.Penalty += policy.PenaltyAmount
		u.Streak = 0
		u.LastPenaltyDate = today
		t.Penalized = true
	}

	return t, nil
}

// ResetChecklist clears today's items. An explicit reset is not a zero-crossing
// and leaves streak and penalty untouched.
func (u *UserRecord) ResetChecklist() {
	u.Checklist = Checklist{}
}

func (s *Skills) grow(step float64) {
	for _, level := range []*float64{&s.Reading, &s.Listening, &s.Writing, &s.Speaking} {
		*level = math.Min(MaxSkillLevel, math.Round((*level+step)*10)/10)
	}
}

// SkillLevels returns the four ratings in display order.
func (s Skills) SkillLevels() []SkillLevel {
	return []SkillLevel{
		{Name: "reading", Label: "📚 Reading", Level: s.Reading},
		{Name: "listening", Label: "👂 Listening", Level: s.Listening},
		{Name: "writing", Label: "✍️ Writing", Level: s.Writing},
		{Name: "speaking", Label: "🗣 Speaking", Level: s.Speaking},
	}
}

type SkillLevel struct {
	Name  string
	Label string
	Level float64
}
