package models

// Callback tokens carried by postback buttons.
const (
	CallbackCheckPrefix    = "check_"
	CallbackResetChecklist = "reset_checklist"
	CallbackSetWeekPrefix  = "set_week_"
	CallbackStartMock      = "start_mock"
	CallbackMockResults    = "mock_results"
	CallbackClose          = "close"
)

// Main menu labels. Incoming text equal to one of these routes to a view.
const (
	MenuToday     = "📅 برنامه امروز"
	MenuChecklist = "✅ چک‌لیست"
	MenuStats     = "📊 آمار من"
	MenuWeekPlan  = "📚 برنامه هفته"
	MenuMockTest  = "📝 Mock Test"
	MenuErrors    = "❌ دفتر اشتباهات"
	MenuSetWeek   = "🎯 تنظیم هفته"
	MenuHelp      = "💡 راهنما"
)

var MainMenuLabels = []string{
	MenuToday, MenuChecklist,
	MenuStats, MenuWeekPlan,
	MenuMockTest, MenuErrors,
	MenuSetWeek, MenuHelp,
}

const (
	GenericFailureText = "⚠️ مشکلی پیش اومد، لطفاً دوباره امتحان کن."
	NotDefinedText     = "برنامه‌ای برای این هفته تعریف نشده"
)

// Reply is a transport-neutral response: text plus an optional button layout.
type Reply struct {
	Text    string
	Buttons []Button
}

// Button is either a postback (Data set) or a plain message button that sends Text.
type Button struct {
	Label string
	Data  string
	Text  string
}

func (b Button) IsPostback() bool {
	return b.Data != ""
}

func MainMenu() []Button {
	buttons := make([]Button, 0, len(MainMenuLabels))
	for _, label := range MainMenuLabels {
		buttons = append(buttons, Button{Label: label, Text: label})
	}
	return buttons
}
