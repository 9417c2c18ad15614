package learning

import (
	"fmt"
	"math"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
)

const DefaultRetentionEventLimit = 1000

// minRetentionIntervalHours filters out immediate retries; a term answered
// again within six minutes is not a genuine spaced review.
const minRetentionIntervalHours = 0.1

var retentionBucketLabels = []string{"1h", "24h", "3d", "1w", "1m"}

// retentionBucketUpperHours holds the inclusive upper bound of each bucket;
// the last bucket is open-ended.
var retentionBucketUpperHours = []float64{1, 24, 72, 168}

type RetentionPoint struct {
	Interval  string  `json:"interval"`
	Retention float64 `json:"retention"`
}

// ComputeRetentionCurve derives an approximate forgetting curve from the
// event log: consecutive attempts on the same term are paired, bucketed by
// elapsed time, and each bucket reports the share of pairs whose later attempt
// was correct. Only the immediately preceding occurrence of a term is
// considered, so this is a single-hop approximation, not a longitudinal fit.
// With no usable pairs at all a fixed illustrative curve is returned so the
// empty state still renders.
func ComputeRetentionCurve(userID int64, eventLimit int) ([]RetentionPoint, error) {
	if eventLimit <= 0 {
		eventLimit = DefaultRetentionEventLimit
	}

	var logs []db.LearningProgressLog
	if err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(eventLimit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}

	// Oldest first, so the per-term scan sees history in order.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}

	totals := make([]int, len(retentionBucketLabels))
	correct := make([]int, len(retentionBucketLabels))
	pairs := 0

	lastSeen := make(map[int64]int) // term id -> index into logs of previous occurrence
	for i, log := range logs {
		prev, seen := lastSeen[log.TermID]
		lastSeen[log.TermID] = i
		if !seen {
			continue
		}

		intervalHours := log.CreatedAt.Sub(logs[prev].CreatedAt).Hours()
		if intervalHours <= minRetentionIntervalHours {
			continue
		}

		bucket := len(retentionBucketUpperHours)
		for b, upper := range retentionBucketUpperHours {
			if intervalHours <= upper {
				bucket = b
				break
			}
		}
		totals[bucket]++
		if log.IsCorrect {
			correct[bucket]++
		}
		pairs++
	}

	if pairs == 0 {
		return fallbackRetentionCurve(), nil
	}

	curve := make([]RetentionPoint, 0, len(retentionBucketLabels))
	for i, label := range retentionBucketLabels {
		rate := 0.0
		if totals[i] > 0 {
			rate = math.Round(float64(correct[i])/float64(totals[i])*1000) / 10
		}
		curve = append(curve, RetentionPoint{Interval: label, Retention: rate})
	}
	return curve, nil
}

func fallbackRetentionCurve() []RetentionPoint {
	return []RetentionPoint{
		{Interval: "1h", Retention: 100},
		{Interval: "24h", Retention: 80},
		{Interval: "3d", Retention: 60},
		{Interval: "1w", Retention: 40},
		{Interval: "1m", Retention: 20},
	}
}
