package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mondaylearn/monday-learn-api/pkg/learning"
)

// HandleMonthlyCalendar serves the heatmap data for a date range, defaulting
// to the current month.
func HandleMonthlyCalendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid start date")
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid end date")
			return
		}
		end = parsed
	}

	days, err := learning.MonthlyCalendar(UserID(r), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// HandleDailyDetail serves one day's activity breakdown.
func HandleDailyDetail(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid date")
		return
	}

	detail, err := learning.ComputeDailyDetail(UserID(r), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
