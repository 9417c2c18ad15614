package learning

import (
	"fmt"
	"math"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
)

type ActivityDay struct {
	Date          string `json:"date"`
	QuestionCount int    `json:"question_count"`
	TimeSpentMs   int64  `json:"time_spent_ms"`
}

// DailyActivity reports per-day attempt counts and time for the last N days
// ending at now, zero-filling days without events.
func DailyActivity(userID int64, days int, now time.Time) ([]ActivityDay, error) {
	if days <= 0 {
		days = 7
	}
	end := DateOnly(now).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	var logs []db.LearningProgressLog
	if err := db.DB.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}

	type bucket struct {
		count  int
		timeMs int64
	}
	byDay := make(map[string]*bucket)
	for _, log := range logs {
		key := DateOnly(log.CreatedAt).Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			b = &bucket{}
			byDay[key] = b
		}
		b.count++
		b.timeMs += int64(log.TimeSpentMs)
	}

	result := make([]ActivityDay, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		entry := ActivityDay{Date: day}
		if b, ok := byDay[day]; ok {
			entry.QuestionCount = b.count
			entry.TimeSpentMs = b.timeMs
		}
		result = append(result, entry)
	}
	return result, nil
}

type DistributionSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// ProgressDistribution counts the user's mastery records per status.
func ProgressDistribution(userID int64) ([]DistributionSlice, error) {
	type row struct {
		Status db.LearningStatus
		Count  int64
	}
	var rows []row
	if err := db.DB.Model(&db.LearningProgress{}).
		Select("status, count(id) as count").
		Where("user_id = ?", userID).
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("count progress: %w", err)
	}

	counts := map[db.LearningStatus]int64{
		db.StatusNotStarted: 0,
		db.StatusFamiliar:   0,
		db.StatusMastered:   0,
	}
	for _, r := range rows {
		if _, ok := counts[r.Status]; ok {
			counts[r.Status] = r.Count
		}
	}

	return []DistributionSlice{
		{Name: "Not Started", Value: counts[db.StatusNotStarted]},
		{Name: "Familiar", Value: counts[db.StatusFamiliar]},
		{Name: "Mastered", Value: counts[db.StatusMastered]},
	}, nil
}

type StudySetStats struct {
	TotalTerms        int64   `json:"total_terms"`
	MasteredCount     int64   `json:"mastered_count"`
	MasteryPercentage float64 `json:"mastery_percentage"`
}

// ComputeStudySetStats reports the user's tracked and mastered term counts for
// one study set.
func ComputeStudySetStats(userID, studySetID int64) (*StudySetStats, error) {
	var total int64
	if err := db.DB.Model(&db.LearningProgress{}).
		Where("user_id = ? AND study_set_id = ?", userID, studySetID).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count progress: %w", err)
	}

	var mastered int64
	if err := db.DB.Model(&db.LearningProgress{}).
		Where("user_id = ? AND study_set_id = ? AND status = ?", userID, studySetID, db.StatusMastered).
		Count(&mastered).Error; err != nil {
		return nil, fmt.Errorf("count mastered: %w", err)
	}

	stats := &StudySetStats{TotalTerms: total, MasteredCount: mastered}
	if total > 0 {
		stats.MasteryPercentage = math.Round(float64(mastered)/float64(total)*1000) / 10
	}
	return stats, nil
}
