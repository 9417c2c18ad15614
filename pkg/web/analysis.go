package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/learning"
)

// HandleRetentionCurve serves the forgetting-curve approximation.
func HandleRetentionCurve(w http.ResponseWriter, r *http.Request) {
	limit := learning.DefaultRetentionEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "invalid event limit")
			return
		}
		limit = parsed
	}

	curve, err := learning.ComputeRetentionCurve(UserID(r), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, curve)
}

// HandleDailyActivity serves per-day attempt counts for the last N days.
func HandleDailyActivity(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "invalid day count")
			return
		}
		days = parsed
	}

	activity, err := learning.DailyActivity(UserID(r), days, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// HandleProgressDistribution serves the user's mastery status breakdown.
func HandleProgressDistribution(w http.ResponseWriter, r *http.Request) {
	distribution, err := learning.ProgressDistribution(UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, distribution)
}

// HandleStudySetStats serves mastery counts for one study set.
func HandleStudySetStats(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	stats, err := learning.ComputeStudySetStats(UserID(r), studySetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
