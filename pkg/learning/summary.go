package learning

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"gorm.io/gorm"
)

// Activity level thresholds, evaluated against the day's cumulative totals.
const (
	level4Minutes = 60
	level4Words   = 100
	level3Minutes = 30
	level3Words   = 50
	level2Minutes = 10
	level2Words   = 20
)

// singleLogWindowMs is the floor used for the session-window estimate when a
// day holds exactly one log row.
const singleLogWindowMs = 60_000

// recordActivity folds one attempt event into the per-day summary, keyed by
// the event's calendar date rather than wall-clock today so replayed events
// land on the right day. The summary row is created lazily on first touch and
// the activity level is recomputed from the cumulative totals on every update.
func recordActivity(tx *gorm.DB, userID int64, at time.Time, timeSpentMs int) (*db.DailyLearningSummary, error) {
	day := DateOnly(at)

	var summary db.DailyLearningSummary
	err := tx.Where("user_id = ? AND date = ?", userID, day).First(&summary).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load daily summary: %w", err)
		}
		summary = db.DailyLearningSummary{UserID: userID, Date: day}
	}

	if timeSpentMs > 0 {
		summary.TotalTimeMs += int64(timeSpentMs)
	}
	summary.TotalWordsReviewed++
	summary.ActivityLevel = activityLevel(summary.TotalTimeMs, summary.TotalWordsReviewed)

	if err := tx.Save(&summary).Error; err != nil {
		return nil, fmt.Errorf("save daily summary: %w", err)
	}
	return &summary, nil
}

func activityLevel(totalTimeMs int64, totalWords int) int {
	minutes := float64(totalTimeMs) / 60_000
	switch {
	case minutes > level4Minutes || totalWords > level4Words:
		return 4
	case minutes > level3Minutes || totalWords > level3Words:
		return 3
	case minutes > level2Minutes || totalWords > level2Words:
		return 2
	default:
		return 1
	}
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type CalendarDay struct {
	Date        string `json:"date"`
	Count       int    `json:"count"` // activity level for heatmap (0-4)
	TotalTimeMs int64  `json:"total_time_ms"`
	TotalWords  int    `json:"total_words"`
}

// MonthlyCalendar returns summary rows between start and end inclusive. Days
// without activity produce no row; the client renders them as level 0.
func MonthlyCalendar(userID int64, start, end time.Time) ([]CalendarDay, error) {
	start = DateOnly(start)
	end = DateOnly(end)

	var summaries []db.DailyLearningSummary
	if err := db.DB.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").
		Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}

	days := make([]CalendarDay, 0, len(summaries))
	for _, s := range summaries {
		days = append(days, CalendarDay{
			Date:        s.Date.UTC().Format("2006-01-02"),
			Count:       s.ActivityLevel,
			TotalTimeMs: s.TotalTimeMs,
			TotalWords:  s.TotalWordsReviewed,
		})
	}
	return days, nil
}

type DailyDetailItem struct {
	ID      int    `json:"id"`
	Time    string `json:"time"`
	Action  string `json:"action"`
	Mode    string `json:"mode"`
	Details string `json:"details"`
}

type DailyDetail struct {
	Date          string            `json:"date"`
	TotalTimeMs   int64             `json:"total_time_ms"`
	Items         []DailyDetailItem `json:"items"`
	MasteredCount int64             `json:"mastered_count"`
}

// ComputeDailyDetail summarizes one day of the event log: attempts grouped by
// study set and mode, the realistic time spent, and how many terms were first
// mastered that day.
func ComputeDailyDetail(userID int64, date time.Time) (*DailyDetail, error) {
	day := DateOnly(date)
	next := day.AddDate(0, 0, 1)

	var logs []db.LearningProgressLog
	if err := db.DB.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, day, next).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}

	// Prefer explicit per-event time; fall back to the session window when the
	// clients did not report durations.
	var timeSpentMs int64
	for _, log := range logs {
		timeSpentMs += int64(log.TimeSpentMs)
	}
	if len(logs) > 0 {
		windowMs := logs[len(logs)-1].CreatedAt.Sub(logs[0].CreatedAt).Milliseconds()
		if windowMs <= 0 {
			windowMs = singleLogWindowMs
		}
		if windowMs > timeSpentMs {
			timeSpentMs = windowMs
		}
	}

	var summary db.DailyLearningSummary
	if err := db.DB.Where("user_id = ? AND date = ?", userID, day).
		First(&summary).Error; err == nil {
		if summary.TotalTimeMs > timeSpentMs {
			timeSpentMs = summary.TotalTimeMs
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load daily summary: %w", err)
	}

	type group struct {
		studySetID int64
		mode       db.LearningMode
		count      int
		correct    int
		lastTime   time.Time
	}
	grouped := make(map[string]*group)
	for _, log := range logs {
		key := fmt.Sprintf("%d:%s", log.StudySetID, log.Mode)
		g, ok := grouped[key]
		if !ok {
			g = &group{studySetID: log.StudySetID, mode: log.Mode, lastTime: log.CreatedAt}
			grouped[key] = g
		}
		g.count++
		if log.IsCorrect {
			g.correct++
		}
		if log.CreatedAt.After(g.lastTime) {
			g.lastTime = log.CreatedAt
		}
	}

	setIDs := make([]int64, 0, len(grouped))
	seen := make(map[int64]bool, len(grouped))
	for _, g := range grouped {
		if !seen[g.studySetID] {
			seen[g.studySetID] = true
			setIDs = append(setIDs, g.studySetID)
		}
	}
	titles := make(map[int64]string, len(setIDs))
	if len(setIDs) > 0 {
		var sets []db.StudySet
		if err := db.DB.Where("id IN ?", setIDs).Find(&sets).Error; err != nil {
			return nil, fmt.Errorf("load study sets: %w", err)
		}
		for _, set := range sets {
			titles[set.ID] = set.Title
		}
	}

	groups := make([]*group, 0, len(grouped))
	for _, g := range grouped {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].lastTime.After(groups[j].lastTime)
	})

	items := make([]DailyDetailItem, 0, len(groups))
	for idx, g := range groups {
		title := titles[g.studySetID]
		if title == "" {
			title = "Unknown set"
		}
		label := "Study"
		if g.mode == db.ModeTest {
			label = "Test"
		}
		accuracy := 0
		if g.count > 0 {
			accuracy = g.correct * 100 / g.count
		}
		items = append(items, DailyDetailItem{
			ID:      idx + 1,
			Time:    g.lastTime.UTC().Format("15:04"),
			Action:  fmt.Sprintf("%s · [%s]", label, title),
			Mode:    string(g.mode),
			Details: fmt.Sprintf("%d attempts, accuracy %d%%", g.count, accuracy),
		})
	}

	var masteredCount int64
	if err := db.DB.Model(&db.LearningProgress{}).
		Where("user_id = ? AND mastered_at >= ? AND mastered_at < ?", userID, day, next).
		Count(&masteredCount).Error; err != nil {
		return nil, fmt.Errorf("count mastered terms: %w", err)
	}

	return &DailyDetail{
		Date:          day.Format("2006-01-02"),
		TotalTimeMs:   timeSpentMs,
		Items:         items,
		MasteredCount: masteredCount,
	}, nil
}
