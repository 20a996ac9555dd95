package models

const (
	DateLayout = "2006-01-02"

	FirstWeek = 1
	LastWeek  = 12

	MaxSkillLevel = 10.0
)

type UserRecord struct {
	UserID            string     `json:"-" dynamodbav:"userId"`
	Name              string     `json:"name" dynamodbav:"name"`
	CurrentWeek       int        `json:"current_week" dynamodbav:"currentWeek"`
	Streak            int        `json:"streak" dynamodbav:"streak"`
	TotalDays         int        `json:"total_days" dynamodbav:"totalDays"`
	Checklist         Checklist  `json:"checklist" dynamodbav:"checklist"`
	Penalty           int64      `json:"penalty" dynamodbav:"penalty"`
	MockTests         []MockTest `json:"mock_tests" dynamodbav:"mockTests"`
	Errors            []string   `json:"errors" dynamodbav:"errors"`
	Skills            Skills     `json:"skills" dynamodbav:"skills"`
	LastChecklistDate string     `json:"last_checklist_date,omitempty" dynamodbav:"lastChecklistDate,omitempty"` // YYYY-MM-DD, empty until first evaluation
	LastStreakUpdate  string     `json:"last_streak_update,omitempty" dynamodbav:"lastStreakUpdate,omitempty"`
	LastPenaltyDate   string     `json:"last_penalty_date,omitempty" dynamodbav:"lastPenaltyDate,omitempty"`
	StartDate         string     `json:"start_date" dynamodbav:"startDate"`
	CompletedWeeks    []int      `json:"completed_weeks" dynamodbav:"completedWeeks"`
	Version           int64      `json:"-" dynamodbav:"version"`
	UpdatedAt         string     `json:"updated_at,omitempty" dynamodbav:"updatedAt,omitempty"` // ISO timestamp
}

type Skills struct {
	Reading   float64 `json:"reading" dynamodbav:"reading"`
	Listening float64 `json:"listening" dynamodbav:"listening"`
	Writing   float64 `json:"writing" dynamodbav:"writing"`
	Speaking  float64 `json:"speaking" dynamodbav:"speaking"`
}

type MockTest struct {
	ID       string `json:"id" dynamodbav:"id"`
	Date     string `json:"date" dynamodbav:"date"`
	Section  string `json:"section" dynamodbav:"section"`
	Score    int    `json:"score" dynamodbav:"score"`
	MaxScore int    `json:"max_score" dynamodbav:"maxScore"`
}

// NewUserRecord builds the record a user gets on first contact.
func NewUserRecord(userID, today string) *UserRecord {
	return &UserRecord{
		UserID:         userID,
		CurrentWeek:    FirstWeek,
		Checklist:      Checklist{},
		MockTests:      []MockTest{},
		Errors:         []string{},
		Skills:         DefaultSkills(),
		StartDate:      today,
		CompletedWeeks: []int{},
	}
}

func DefaultSkills() Skills {
	return Skills{Reading: 6, Listening: 7, Writing: 5, Speaking: 4}
}

// Onboarded reports whether the user has already told us their name.
func (u *UserRecord) Onboarded() bool {
	return u.Name != ""
}

// RecentErrors returns at most n of the latest logged mistakes, oldest first.
func (u *UserRecord) RecentErrors(n int) []string {
	if len(u.Errors) <= n {
		return u.Errors
	}
	return u.Errors[len(u.Errors)-n:]
}

func (u *UserRecord) RecentMockTests(n int) []MockTest {
	if len(u.MockTests) <= n {
		return u.MockTests
	}
	return u.MockTests[len(u.MockTests)-n:]
}

// WeekProgress is the share of the 12-week camp reached by CurrentWeek, in percent.
func (u *UserRecord) WeekProgress() int {
	return int(float64(u.CurrentWeek) / float64(LastWeek) * 100)
}

// SetWeek changes the week used for catalog lookups. Moving forward marks the
// weeks left behind as completed.
func (u *UserRecord) SetWeek(week int) error {
	if !ValidWeek(week) {
		return ErrOutOfRangeWeek
	}
	for w := u.CurrentWeek; w < week; w++ {
		u.markWeekCompleted(w)
	}
	u.CurrentWeek = week
	return nil
}

func (u *UserRecord) markWeekCompleted(week int) {
	for i, w := range u.CompletedWeeks {
		if w == week {
			return
		}
		if w > week {
			u.CompletedWeeks = append(u.CompletedWeeks[:i], append([]int{week}, u.CompletedWeeks[i:]...)...)
			return
		}
	}
	u.CompletedWeeks = append(u.CompletedWeeks, week)
}

// Clone returns a deep copy so callers can hand records out without sharing slices.
func (u *UserRecord) Clone() *UserRecord {
	c := *u
	c.MockTests = append([]MockTest{}, u.MockTests...)
	c.Errors = append([]string{}, u.Errors...)
	c.CompletedWeeks = append([]int{}, u.CompletedWeeks...)
	return &c
}

// Normalize fills collections that older or hand-edited records may lack.
func (u *UserRecord) Normalize() {
	if u.CurrentWeek == 0 {
		u.CurrentWeek = FirstWeek
	}
	if u.MockTests == nil {
		u.MockTests = []MockTest{}
	}
	if u.Errors == nil {
		u.Errors = []string{}
	}
	if u.CompletedWeeks == nil {
		u.CompletedWeeks = []int{}
	}
	if u.Skills == (Skills{}) {
		u.Skills = DefaultSkills()
	}
}
