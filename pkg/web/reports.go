package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/report"
)

type reportRequest struct {
	PeriodDays int `json:"period_days"`
}

// HandleGenerateReport builds a statistics summary for the user and returns
// the generated progress report.
func HandleGenerateReport(service *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if r.Body != nil {
			// An empty body means the default period.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		result, err := service.Generate(r.Context(), UserID(r), req.PeriodDays, time.Now().UTC())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}
