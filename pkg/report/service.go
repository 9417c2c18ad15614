package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/learning"
	"github.com/mondaylearn/monday-learn-api/pkg/logger"
	"gorm.io/datatypes"
)

const DefaultTimeout = 15 * time.Second

type Service struct {
	Generator Generator // overrides provider resolution when set
	Timeout   time.Duration
}

// StatsSnapshot is the structured summary fed to the text generator and
// stored next to the generated report.
type StatsSnapshot struct {
	Distribution []learning.DistributionSlice `json:"distribution"`
	Activity     []learning.ActivityDay       `json:"activity"`
	Retention    []learning.RetentionPoint    `json:"retention"`
}

// Generate assembles the user's statistics for the period, asks the
// configured provider for report text and stores the result. A provider
// failure degrades to the offline generator; recorded attempts are never
// affected either way.
func (s *Service) Generate(ctx context.Context, userID int64, periodDays int, now time.Time) (*db.LearningReport, error) {
	if periodDays <= 0 {
		periodDays = 7
	}

	snapshot, err := buildSnapshot(userID, periodDays, now)
	if err != nil {
		return nil, err
	}
	prompt := FormatSummary(snapshot, periodDays)

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	content, err := s.generate(callCtx, prompt)
	if err != nil {
		logger.Warn("report generation fell back to offline text", "user_id", userID, "error", err)
		content, _ = StaticGenerator{}.Generate(callCtx, prompt)
	}

	statsJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal stats snapshot: %w", err)
	}

	result := db.LearningReport{
		UserID:     userID,
		PeriodDays: periodDays,
		Content:    content,
		Stats:      datatypes.JSON(statsJSON),
		CreatedAt:  now,
	}
	if err := db.DB.Create(&result).Error; err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	return &result, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	gen := s.Generator
	if gen == nil {
		resolved, err := ResolveGenerator()
		if err != nil {
			return "", err
		}
		gen = resolved
	}
	return gen.Generate(ctx, prompt)
}

func buildSnapshot(userID int64, periodDays int, now time.Time) (*StatsSnapshot, error) {
	distribution, err := learning.ProgressDistribution(userID)
	if err != nil {
		return nil, err
	}
	activity, err := learning.DailyActivity(userID, periodDays, now)
	if err != nil {
		return nil, err
	}
	retention, err := learning.ComputeRetentionCurve(userID, learning.DefaultRetentionEventLimit)
	if err != nil {
		return nil, err
	}
	return &StatsSnapshot{
		Distribution: distribution,
		Activity:     activity,
		Retention:    retention,
	}, nil
}

// FormatSummary renders the snapshot as plain text for the generator prompt.
func FormatSummary(snapshot *StatsSnapshot, periodDays int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Study statistics for the last %d days.\n\n", periodDays)

	b.WriteString("Mastery distribution:\n")
	for _, slice := range snapshot.Distribution {
		fmt.Fprintf(&b, "- %s: %d terms\n", slice.Name, slice.Value)
	}

	b.WriteString("\nDaily activity:\n")
	for _, day := range snapshot.Activity {
		fmt.Fprintf(&b, "- %s: %d attempts, %d minutes\n",
			day.Date, day.QuestionCount, day.TimeSpentMs/60_000)
	}

	b.WriteString("\nRetention by review interval:\n")
	for _, point := range snapshot.Retention {
		fmt.Fprintf(&b, "- %s: %.1f%%\n", point.Interval, point.Retention)
	}

	return b.String()
}
