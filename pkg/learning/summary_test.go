package learning

import (
	"testing"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/internal/testutil"
)

func TestActivityLevel(t *testing.T) {
	cases := []struct {
		name       string
		totalMs    int64
		totalWords int
		want       int
	}{
		{name: "nothing", totalMs: 0, totalWords: 0, want: 1},
		{name: "just under level 2", totalMs: 10 * 60_000, totalWords: 20, want: 1},
		{name: "eleven minutes", totalMs: 11 * 60_000, totalWords: 1, want: 2},
		{name: "seven hundred seconds", totalMs: 700_000, totalWords: 1, want: 2},
		{name: "words only level 2", totalMs: 0, totalWords: 21, want: 2},
		{name: "half hour plus", totalMs: 31 * 60_000, totalWords: 1, want: 3},
		{name: "words only level 3", totalMs: 0, totalWords: 51, want: 3},
		{name: "over an hour", totalMs: 61 * 60_000, totalWords: 1, want: 4},
		{name: "words only level 4", totalMs: 0, totalWords: 101, want: 4},
	}

	for _, tc := range cases {
		if got := activityLevel(tc.totalMs, tc.totalWords); got != tc.want {
			t.Fatalf("%s: activityLevel(%d, %d) = %d, want %d", tc.name, tc.totalMs, tc.totalWords, got, tc.want)
		}
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2025-03-10 02:30 in UTC+9 is still 2025-03-09 in UTC.
	at := time.Date(2025, 3, 10, 2, 30, 0, 0, loc)

	day := DateOnly(at)
	if got := day.Format("2006-01-02"); got != "2025-03-09" {
		t.Fatalf("DateOnly = %s, want 2025-03-09", got)
	}
	if day.Hour() != 0 || day.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", day)
	}
}

func TestRecordActivityAccumulates(t *testing.T) {
	testutil.SetupTestDB(t)
	set, terms := seedStudySet(t, 1, true, 1)
	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// One attempt worth 700 seconds pushes the day over the ten-minute line.
	if _, err := ApplyAttempt(1, set.ID, Attempt{TermID: terms[0].ID, IsCorrect: true, Mode: db.ModeLearn, TimeSpentMs: 700_000}, morning); err != nil {
		t.Fatalf("ApplyAttempt failed: %v", err)
	}

	var summary db.DailyLearningSummary
	if err := db.DB.Where("user_id = ?", 1).First(&summary).Error; err != nil {
		t.Fatalf("failed to load summary: %v", err)
	}
	if summary.ActivityLevel != 2 {
		t.Fatalf("expected level 2 after 700s, got %d", summary.ActivityLevel)
	}
	if summary.TotalWordsReviewed != 1 || summary.TotalTimeMs != 700_000 {
		t.Fatalf("summary totals wrong: %+v", summary)
	}

	// A second attempt the same day updates the same row.
	if _, err := ApplyAttempt(1, set.ID, Attempt{TermID: terms[0].ID, IsCorrect: false, Mode: db.ModeLearn, TimeSpentMs: 1_200_000}, morning.Add(time.Hour)); err != nil {
		t.Fatalf("ApplyAttempt failed: %v", err)
	}

	var count int64
	if err := db.DB.Model(&db.DailyLearningSummary{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("failed to count summaries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single summary row per day, got %d", count)
	}
	if err := db.DB.Where("user_id = ?", 1).First(&summary).Error; err != nil {
		t.Fatalf("failed to reload summary: %v", err)
	}
	if summary.TotalTimeMs != 1_900_000 || summary.TotalWordsReviewed != 2 {
		t.Fatalf("summary not accumulated: %+v", summary)
	}
	if summary.ActivityLevel != 3 {
		t.Fatalf("expected level 3 after ~32 minutes, got %d", summary.ActivityLevel)
	}
}

func TestRecordActivityKeysByEventDate(t *testing.T) {
	testutil.SetupTestDB(t)
	set, terms := seedStudySet(t, 1, true, 1)

	// Two attempts either side of UTC midnight land on different days.
	beforeMidnight := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	afterMidnight := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)

	for _, at := range []time.Time{beforeMidnight, afterMidnight} {
		if _, err := ApplyAttempt(1, set.ID, Attempt{TermID: terms[0].ID, IsCorrect: true, Mode: db.ModeLearn}, at); err != nil {
			t.Fatalf("ApplyAttempt failed: %v", err)
		}
	}

	var count int64
	if err := db.DB.Model(&db.DailyLearningSummary{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("failed to count summaries: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected one summary per calendar day, got %d", count)
	}
}

func TestMonthlyCalendar(t *testing.T) {
	testutil.SetupTestDB(t)
	set, terms := seedStudySet(t, 1, true, 1)

	march := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{march, march.Add(time.Hour), april} {
		if _, err := ApplyAttempt(1, set.ID, Attempt{TermID: terms[0].ID, IsCorrect: true, Mode: db.ModeLearn, TimeSpentMs: 1000}, at); err != nil {
			t.Fatalf("ApplyAttempt failed: %v", err)
		}
	}

	days, err := MonthlyCalendar(1, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthlyCalendar failed: %v", err)
	}

	if len(days) != 1 {
		t.Fatalf("expected a single active day in March, got %d", len(days))
	}
	if days[0].Date != "2025-03-05" {
		t.Fatalf("wrong date: %s", days[0].Date)
	}
	if days[0].TotalWords != 2 || days[0].TotalTimeMs != 2000 {
		t.Fatalf("wrong totals: %+v", days[0])
	}
	if days[0].Count != 1 {
		t.Fatalf("expected activity level 1, got %d", days[0].Count)
	}
}

func TestComputeDailyDetail(t *testing.T) {
	testutil.SetupTestDB(t)
	set, terms := seedStudySet(t, 1, true, 2)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// Two correct learn attempts master the first term, then a test attempt on
	// the second. No per-event durations, so the session window applies.
	attempts := []struct {
		term    db.Term
		correct bool
		mode    db.LearningMode
		at      time.Time
	}{
		{terms[0], true, db.ModeLearn, start},
		{terms[0], true, db.ModeLearn, start.Add(5 * time.Minute)},
		{terms[1], false, db.ModeTest, start.Add(10 * time.Minute)},
	}
	for _, a := range attempts {
		if _, err := ApplyAttempt(1, set.ID, Attempt{TermID: a.term.ID, IsCorrect: a.correct, Mode: a.mode}, a.at); err != nil {
			t.Fatalf("ApplyAttempt failed: %v", err)
		}
	}

	detail, err := ComputeDailyDetail(1, start)
	if err != nil {
		t.Fatalf("ComputeDailyDetail failed: %v", err)
	}

	if detail.Date != "2025-03-10" {
		t.Fatalf("wrong date: %s", detail.Date)
	}
	if detail.TotalTimeMs != 10*60*1000 {
		t.Fatalf("expected the 10 minute window, got %dms", detail.TotalTimeMs)
	}
	if detail.MasteredCount != 1 {
		t.Fatalf("expected 1 term mastered that day, got %d", detail.MasteredCount)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("expected 2 grouped items, got %d", len(detail.Items))
	}
	// Most recent group first.
	if detail.Items[0].Mode != string(db.ModeTest) {
		t.Fatalf("expected the test group first, got %+v", detail.Items[0])
	}
	if detail.Items[0].Details != "1 attempts, accuracy 0%" {
		t.Fatalf("wrong test details: %s", detail.Items[0].Details)
	}
	if detail.Items[1].Action != "Study · [Basics]" {
		t.Fatalf("wrong study action: %s", detail.Items[1].Action)
	}
	if detail.Items[1].Details != "2 attempts, accuracy 100%" {
		t.Fatalf("wrong study details: %s", detail.Items[1].Details)
	}
}

func TestComputeDailyDetailSingleLogFloor(t *testing.T) {
	testutil.SetupTestDB(t)
	set, terms := seedStudySet(t, 1, true, 1)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := ApplyAttempt(1, set.ID, Attempt{TermID: terms[0].ID, IsCorrect: true, Mode: db.ModeLearn}, at); err != nil {
		t.Fatalf("ApplyAttempt failed: %v", err)
	}

	detail, err := ComputeDailyDetail(1, at)
	if err != nil {
		t.Fatalf("ComputeDailyDetail failed: %v", err)
	}
	if detail.TotalTimeMs != singleLogWindowMs {
		t.Fatalf("expected the single-log floor, got %dms", detail.TotalTimeMs)
	}
}

func TestComputeDailyDetailEmptyDay(t *testing.T) {
	testutil.SetupTestDB(t)

	detail, err := ComputeDailyDetail(1, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ComputeDailyDetail failed: %v", err)
	}
	if detail.TotalTimeMs != 0 || len(detail.Items) != 0 || detail.MasteredCount != 0 {
		t.Fatalf("expected empty detail, got %+v", detail)
	}
}
