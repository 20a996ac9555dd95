package models

import (
	"fmt"
	"slices"
	"time"
)

type WeekPlan struct {
	Week          int
	Focus         string
	GrammarTopics []string
	VocabTopics   []string
	DailyTasks    []string
}

var weekPlans = map[int]WeekPlan{
	1: {
		Focus:         "مبانی گرامر و ساختارهای ساده",
		GrammarTopics: []string{"Present Simple & Continuous", "Past Simple & Continuous", "Question formation"},
		VocabTopics:   []string{"Daily routines", "Family & relationships", "Time expressions"},
		DailyTasks: []string{
			"5 جمله با Present Simple بنویس",
			"10 دقیقه تمرین تلفظ با shadowing",
			"یک پاراگراف درباره خانواده‌ات بخوان",
		},
	},
	2: {
		Focus:         "گرامر میانی و توسعه واژگان",
		GrammarTopics: []string{"Present Perfect", "Future forms", "Modal verbs"},
		VocabTopics:   []string{"Work & professions", "Travel", "Food"},
		DailyTasks: []string{
			"یک خبر کوتاه بخوان و خلاصه کن",
			"5 جمله با Present Perfect",
			"تمرین گفتن برنامه‌های هفته آینده",
		},
	},
	3: {
		Focus:         "ساختارهای پیچیده‌تر",
		GrammarTopics: []string{"Passive voice", "Relative clauses", "Conjunctions"},
		VocabTopics:   []string{"Technology", "Environment", "Health"},
		DailyTasks: []string{
			"یک مقاله درباره محیط زیست بخوان",
			"3 جمله Passive بنویس",
			"تمرین دادن نظر با 'Meiner Meinung nach...'",
		},
	},
	4: {
		Focus:         "مهارت‌های نوشتاری",
		GrammarTopics: []string{"Reported speech", "Conditional sentences", "Infinitive"},
		VocabTopics:   []string{"Education", "Media", "Culture"},
		DailyTasks: []string{
			"تمرین نوشتن ایمیل رسمی",
			"خواندن یک فصل از کتاب",
			"تمرین If-clauses",
		},
	},
	5: {
		Focus:         "تقویت Listening",
		GrammarTopics: []string{"Word order", "Prepositions", "Adjective endings"},
		VocabTopics:   []string{"Shopping", "Housing", "Transport"},
		DailyTasks: []string{
			"10 دقیقه Dictation از ویدیو",
			"تمرین توضیح مسیر",
			"نوشتن درباره خانه‌ی ایده‌آل",
		},
	},
	6: {
		Focus:         "Mock Exam اول",
		GrammarTopics: []string{"Review all structures"},
		VocabTopics:   []string{"All topics review"},
		DailyTasks: []string{
			"یک آزمون کامل Reading",
			"تحلیل اشتباهات",
			"تمرین Speaking با ضبط صدا",
		},
	},
	7: {
		Focus:         "استراتژی‌های آزمون",
		GrammarTopics: []string{"Advanced conjunctions", "Subjunctive II"},
		VocabTopics:   []string{"Politics", "Economy", "Global issues"},
		DailyTasks: []string{
			"تمرین خواندن سریع",
			"نوشتن outline برای موضوعات",
			"تمرین جواب به سوالات غیرمنتظره",
		},
	},
	8: {
		Focus:         "تسلط بر Speaking",
		GrammarTopics: []string{"Idiomatic expressions", "Phrasal verbs"},
		VocabTopics:   []string{"Opinions", "Linking words", "Formal language"},
		DailyTasks: []string{
			"تمرین یک موضوع Speaking ۳ دقیقه",
			"ضبط صدای خودت",
			"یادگیری 5 idiom جدید",
		},
	},
	9: {
		Focus:         "Mock Exam دوم",
		GrammarTopics: []string{"Full review"},
		VocabTopics:   []string{"Exam vocabulary"},
		DailyTasks: []string{
			"یک بخش کامل آزمون",
			"تحلیل نقاط ضعف",
			"تمرین تخصصی",
		},
	},
	10: {
		Focus:         "رفع نقاط ضعف",
		GrammarTopics: []string{"Personal weak points"},
		VocabTopics:   []string{"Gap-filling"},
		DailyTasks: []string{
			"2 ساعت روی ضعیف‌ترین مهارت",
			"مرور flashcards",
			"گفتگو با native speaker",
		},
	},
	11: {
		Focus:         "تثبیت و اعتماد به نفس",
		GrammarTopics: []string{"Light review"},
		VocabTopics:   []string{"Active recall"},
		DailyTasks: []string{
			"مرور نکات کلیدی",
			"تمرین آرامش در استرس",
			"شبیه‌سازی روز آزمون",
		},
	},
	12: {
		Focus:         "آماده‌سازی نهایی",
		GrammarTopics: []string{"Quick review"},
		VocabTopics:   []string{"Final list"},
		DailyTasks: []string{
			"استراحت ذهنی",
			"مرور نکات آزمون",
			"آماده‌سازی روحی",
		},
	},
}

func ValidWeek(week int) bool {
	return week >= FirstWeek && week <= LastWeek
}

// WeekPlanFor looks up the curriculum entry for a camp week (1-12).
func WeekPlanFor(week int) (WeekPlan, error) {
	plan, ok := weekPlans[week]
	if !ok {
		return WeekPlan{}, fmt.Errorf("%w: %d", ErrOutOfRangeWeek, week)
	}
	plan.Week = week
	plan.GrammarTopics = slices.Clone(plan.GrammarTopics)
	plan.VocabTopics = slices.Clone(plan.VocabTopics)
	plan.DailyTasks = slices.Clone(plan.DailyTasks)
	return plan, nil
}

const ScheduleNotDefined = "برنامه‌ای تعریف نشده"

var persianWeekdays = map[time.Weekday]string{
	time.Saturday:  "شنبه",
	time.Sunday:    "یکشنبه",
	time.Monday:    "دوشنبه",
	time.Tuesday:   "سه‌شنبه",
	time.Wednesday: "چهارشنبه",
	time.Thursday:  "پنج‌شنبه",
	time.Friday:    "جمعه",
}

func PersianWeekday(day time.Weekday) string {
	return persianWeekdays[day]
}

var dailySchedules = map[string]string{
	"یکشنبه": `📅 برنامه یکشنبه

🌅 صبح:
06:30 - بیدار شدن
07:00 - صبحانه + فلش‌کارت (15 دقیقه)
08:00 - 📚 بلوک اول: Lesen + Grammatik (1.5 ساعت)
09:30 - کار فروش

🏫 بعدازظهر:
13:30 - کلاس زبان (3 ساعت)
16:30 - باشگاه + پادکست

🌙 شب:
19:00 - 🎧 بلوک دوم: Hören (45 دقیقه)
21:00 - آزاد با دوستان
23:00 - 😴 خواب حتماً!`,

	"دوشنبه": `📅 برنامه دوشنبه

🌅 صبح:
06:30 - بیدار شدن
07:00 - صبحانه + فلش‌کارت
08:00 - ✍️ بلوک اول: Schreiben (1 ساعت)
09:00 - کار فروش

🏫 بعدازظهر:
16:00 - 📝 بلوک دوم: Mock Test یک بخش (1.5 ساعت)
17:30 - باشگاه

🌙 شب:
20:00 - مرور اشتباهات (30 دقیقه)
21:00 - آزاد
23:00 - 😴 خواب`,

	"سه‌شنبه": `📅 برنامه سه‌شنبه

🌅 صبح:
06:30 - بیدار شدن
07:00 - صبحانه + فلش‌کارت
08:00 - 📚 بلوک اول: Lesen + Grammatik (1.5 ساعت)

🏫 بعدازظهر:
12:00 - 🗣️ کلاس مکالمه
13:30 - کلاس زبان (3 ساعت)
16:30 - باشگاه + پادکست

🌙 شب:
19:00 - 🎧 بلوک دوم: Hören (45 دقیقه)
21:00 - آزاد
23:00 - 😴 خواب`,

	"چهارشنبه": `📅 برنامه چهارشنبه

🌅 صبح:
06:30 - بیدار شدن
07:00 - صبحانه + فلش‌کارت
08:00 - ✍️ بلوک اول: Schreiben (1 ساعت)
09:00 - کار فروش

🏫 بعدازظهر:
16:00 - 📝 بلوک دوم: Mock Test یک بخش (1.5 ساعت)
17:30 - باشگاه

🌙 شب:
20:00 - مرور اشتباهات
21:00 - آزاد
23:00 - 😴 خواب`,

	"پنج‌شنبه": `📅 برنامه پنج‌شنبه

🌅 صبح:
06:30 - بیدار شدن
07:00 - صبحانه + فلش‌کارت
08:00 - 📚 بلوک اول: Lesen + Grammatik (1.5 ساعت)

🏫 بعدازظهر:
13:30 - کلاس زبان (3 ساعت)
16:30 - باشگاه + پادکست

🌙 شب:
19:00 - 🎧 بلوک دوم: Hören (45 دقیقه)
21:00 - آزاد
23:00 - 😴 خواب`,

	"جمعه": `📅 برنامه جمعه

🌅 صبح:
آزاد - خانواده/دوستان

📊 بعدازظهر:
15:00 - بازنگری هفتگی (1 ساعت)
16:00 - 📝 Mock Test کامل (2.5 ساعت)

🌙 شب: آزاد`,

	"شنبه": `📅 برنامه شنبه

🌅 صبح:
🎥 ویدیوهای DW یا Easy German (1 ساعت)

🌙 بعدازظهر/شب:
آزاد - پادکست + گردش`,
}

// DailySchedule returns the fixed timetable for a Persian weekday name, or
// ScheduleNotDefined for anything outside the seven-day set.
func DailySchedule(weekdayName string) string {
	if schedule, ok := dailySchedules[weekdayName]; ok {
		return schedule
	}
	return ScheduleNotDefined
}
