package dispatcher

import (
	"fmt"
	"strings"
	"time"

	"bootcamp-assistant/internal/models"

	"github.com/dustin/go-humanize"
)

const welcomeText = `🎓 به Boot Camp telc B2 خوش اومدی!

این ربات یه همراه واقعی برای موفقیت توئه، نه فقط یه ربات معمولی! 🔥

چیکارا می‌کنه:
✅ برنامه روزانه دقیق
✅ چک‌لیست تعاملی با Streak
✅ سیستم جریمه (پایبندی = پول!)
✅ مدیریت Mock Test
✅ دفتر اشتباهات شخصی
✅ گزارش پیشرفت هفتگی

🎯 اولین قدم:
اسمت رو بهم بگو تا باهم شروع کنیم!
(مثلاً: علی)`

const helpText = `💡 راهنمای استفاده

📅 برنامه امروز
برنامه دقیق امروز + وظایف هفته جاری

✅ چک‌لیست
۳ کار ساده روزانه:
  • بلوک صبح ۱.۵ ساعت
  • بلوک بعدازظهر ۱ ساعت
  • خواب ساعت ۲۳:۰۰

📊 آمار من
Streak، جریمه، پیشرفت هفتگی

📚 برنامه هفته
گرامر، واژگان و وظایف هفته جاری

❌ دفتر اشتباهات
برای ثبت اشتباه بنویس:
  اشتباه: متن اشتباه

📝 Mock Test
برای ثبت نتیجه بنویس:
  mock: Lesen 18/25

🔥 نکات مهم:
• هر روز ۳ تیک = Streak ادامه داره
• اگه همه تیک‌ها رو پاک کنی = جریمه ۵۰ هزار تومان!
• Streak بالاتر = انگیزه بیشتر

موفق باشی! 🚀`

const mockMenuText = `📝 Mock Test Manager

الان می‌تونی:
- نتیجه Mock Test رو ثبت کنی
- نتایج قبلی رو ببینی
- پیشرفت رو دنبال کنی`

const mockFormatHint = `📝 برای ثبت نتیجه این‌طوری بنویس:
mock: <بخش> <نمره>/<از>

مثلاً:
mock: Lesen 18/25`

const mistakeFormatHint = `❌ برای ثبت اشتباه این‌طوری بنویس:
اشتباه: متن اشتباه`

const setWeekText = `🎯 انتخاب هفته

الان کدوم هفته از Boot Camp هستی؟
(این فقط برای نمایش برنامه هفتگیه)`

var checklistLabels = map[models.ChecklistItem]string{
	models.ItemBlock1: "بلوک صبح",
	models.ItemBlock2: "بلوک بعدازظهر",
	models.ItemSleep:  "خواب ساعت 23:00",
}

func nameConfirmText(name string) string {
	return fmt.Sprintf("🎉 عالی %s!\n\nحالا از منوی پایین استفاده کن.\nپیشنهاد میدم با '%s' شروع کنی! 👇", name, models.MenuToday)
}

func itemIcon(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}

func checklistButtons(c models.Checklist) []models.Button {
	buttons := make([]models.Button, 0, len(models.ChecklistItems)+1)
	for _, item := range models.ChecklistItems {
		buttons = append(buttons, models.Button{
			Label: fmt.Sprintf("%s %s", itemIcon(c.Done(item)), checklistLabels[item]),
			Data:  models.CallbackCheckPrefix + string(item),
		})
	}
	buttons = append(buttons, models.Button{Label: "🔄 ریست", Data: models.CallbackResetChecklist})
	return buttons
}

func checklistLines(c models.Checklist) string {
	var sb strings.Builder
	for _, item := range models.ChecklistItems {
		sb.WriteString(fmt.Sprintf("%s %s\n", itemIcon(c.Done(item)), checklistLabels[item]))
	}
	return sb.String()
}

func checklistView(record *models.UserRecord) *models.Reply {
	var status, emoji string
	switch record.Checklist.Completed() {
	case 3:
		status, emoji = "🎉 عالی! روز کامل - Streak ادامه داره!", "🔥"
	case 2:
		status, emoji = "✅ خوبه! ۲ از ۳ - یکی دیگه مونده", "💪"
	case 1:
		status, emoji = "⚠️ یکی رو انجام دادی - ادامه بده!", "😊"
	default:
		status, emoji = "❌ هنوز شروع نکردی - بزن بریم!", "🚀"
	}

	text := fmt.Sprintf("📋 چک‌لیست امروز %s\n\n%s\n%s\n🔥 Streak فعلی: %d روز\n\nروی هر گزینه کلیک کن:",
		emoji, status, checklistLines(record.Checklist), record.Streak)

	return &models.Reply{Text: text, Buttons: checklistButtons(record.Checklist)}
}

func toggleView(record *models.UserRecord, t models.Transition, penaltyAmount int64) *models.Reply {
	var status, emoji string
	switch record.Checklist.Completed() {
	case 3:
		status, emoji = fmt.Sprintf("🎉 تمام! Streak: %d روز 🔥", record.Streak), "🏆"
	case 2:
		status, emoji = "✅ خوبه! یکی دیگه!", "💪"
	case 1:
		status, emoji = "😊 شروع کردی!", "🚀"
	default:
		status, emoji = "❌ ریست شد", "⚠️"
	}
	if t.Penalized {
		status += fmt.Sprintf("\n💸 جریمه: %s تومان - Streak صفر شد", humanize.Comma(penaltyAmount))
	}

	text := fmt.Sprintf("📋 چک‌لیست امروز %s\n\n%s\n\n%s", emoji, status, checklistLines(record.Checklist))
	return &models.Reply{Text: strings.TrimRight(text, "\n"), Buttons: checklistButtons(record.Checklist)}
}

func todayView(record *models.UserRecord, now time.Time) *models.Reply {
	schedule := models.DailySchedule(models.PersianWeekday(now.Weekday()))

	plan, err := models.WeekPlanFor(record.CurrentWeek)
	if err != nil {
		return &models.Reply{Text: schedule + "\n\n" + models.NotDefinedText, Buttons: models.MainMenu()}
	}

	var sb strings.Builder
	sb.WriteString(schedule)
	sb.WriteString("\n\n🎯 وظایف ویژه این هفته:\n")
	for i, task := range plan.DailyTasks {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, task))
	}
	return &models.Reply{Text: strings.TrimRight(sb.String(), "\n"), Buttons: models.MainMenu()}
}

func statsView(record *models.UserRecord) *models.Reply {
	streakEmoji := "💫"
	switch {
	case record.Streak >= 7:
		streakEmoji = "🔥"
	case record.Streak >= 3:
		streakEmoji = "⭐"
	}

	var skills strings.Builder
	for _, s := range record.Skills.SkillLevels() {
		skills.WriteString(fmt.Sprintf("%s: %s (%.1f/10)\n", s.Label, strings.Repeat("⭐", int(s.Level)), s.Level))
	}

	closing := "✅ داری خوب پیش میری!"
	switch {
	case record.Streak >= 7:
		closing = "🎉 عالیه! این Streak رو حفظ کن!"
	case record.Streak < 3:
		closing = "💪 سعی کن Streak بسازی!"
	}

	text := fmt.Sprintf(`📊 آمار %s

%s Streak فعلی: %d روز
📅 کل روزهای موفق: %d روز
💰 جریمه تا الان: %s تومان
📈 پیشرفت Boot Camp: %d%% (هفته %d/12)
🏁 هفته‌های تمام‌شده: %d

🎯 سطح مهارت‌ها:
%s
%s`,
		record.Name,
		streakEmoji, record.Streak,
		record.TotalDays,
		humanize.Comma(record.Penalty),
		record.WeekProgress(), record.CurrentWeek,
		len(record.CompletedWeeks),
		skills.String(),
		closing)

	return &models.Reply{Text: text, Buttons: models.MainMenu()}
}

func weekPlanView(record *models.UserRecord) *models.Reply {
	plan, err := models.WeekPlanFor(record.CurrentWeek)
	if err != nil {
		return &models.Reply{Text: models.NotDefinedText, Buttons: models.MainMenu()}
	}

	bullets := func(items []string) string {
		lines := make([]string, 0, len(items))
		for _, item := range items {
			lines = append(lines, "  • "+item)
		}
		return strings.Join(lines, "\n")
	}
	tasks := make([]string, 0, len(plan.DailyTasks))
	for i, task := range plan.DailyTasks {
		tasks = append(tasks, fmt.Sprintf("  %d. %s", i+1, task))
	}

	text := fmt.Sprintf(`📚 برنامه هفته %d/12

🎯 فوکوس: %s

📖 گرامر این هفته:
%s

📝 واژگان:
%s

✅ وظایف روزانه:
%s

💡 برای دیدن برنامه روزانه: %s`,
		plan.Week, plan.Focus, bullets(plan.GrammarTopics), bullets(plan.VocabTopics), strings.Join(tasks, "\n"), models.MenuToday)

	return &models.Reply{Text: text, Buttons: models.MainMenu()}
}

func errorsView(record *models.UserRecord) *models.Reply {
	recent := record.RecentErrors(10)
	if len(recent) == 0 {
		return &models.Reply{Text: `❌ دفتر اشتباهات

هنوز اشتباهی ثبت نشده!

💡 وقتی توی Mock Test یا تمرین اشتباه کردی،
اینجا ثبتش کن تا مرور کنی.

` + mistakeFormatHint, Buttons: models.MainMenu()}
	}

	var sb strings.Builder
	sb.WriteString("❌ دفتر اشتباهات\n\n")
	for i, e := range recent {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
	}
	return &models.Reply{Text: strings.TrimRight(sb.String(), "\n"), Buttons: models.MainMenu()}
}

func mockMenuView() *models.Reply {
	return &models.Reply{
		Text: mockMenuText,
		Buttons: []models.Button{
			{Label: "📝 ثبت Mock Test جدید", Data: models.CallbackStartMock},
			{Label: "📊 نتایج قبلی", Data: models.CallbackMockResults},
			{Label: "❌ بستن", Data: models.CallbackClose},
		},
	}
}

func mockResultsView(record *models.UserRecord) *models.Reply {
	recent := record.RecentMockTests(5)
	if len(recent) == 0 {
		return &models.Reply{Text: "📊 هنوز نتیجه‌ای ثبت نشده!\n\n" + mockFormatHint, Buttons: models.MainMenu()}
	}

	var sb strings.Builder
	sb.WriteString("📊 نتایج اخیر Mock Test\n\n")
	for i, m := range recent {
		percent := 0
		if m.MaxScore > 0 {
			percent = m.Score * 100 / m.MaxScore
		}
		sb.WriteString(fmt.Sprintf("%d. %s - %s: %d/%d (%d%%)\n", i+1, m.Date, m.Section, m.Score, m.MaxScore, percent))
	}
	return &models.Reply{Text: strings.TrimRight(sb.String(), "\n"), Buttons: models.MainMenu()}
}

func setWeekView() *models.Reply {
	buttons := make([]models.Button, 0, models.LastWeek)
	for week := models.FirstWeek; week <= models.LastWeek; week++ {
		buttons = append(buttons, models.Button{
			Label: fmt.Sprintf("هفته %d", week),
			Data:  fmt.Sprintf("%s%d", models.CallbackSetWeekPrefix, week),
		})
	}
	return &models.Reply{Text: setWeekText, Buttons: buttons}
}

func menuReply(text string) *models.Reply {
	return &models.Reply{Text: text, Buttons: models.MainMenu()}
}
