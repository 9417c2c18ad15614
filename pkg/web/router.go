package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mondaylearn/monday-learn-api/pkg/report"
)

// NewRouter wires the engine's operations onto the JSON HTTP surface.
func NewRouter(reportService *report.Service) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(identityMiddleware)

	api.HandleFunc("/learning/{setID:[0-9]+}/attempts", HandleApplyAttempt).Methods(http.MethodPost)
	api.HandleFunc("/learning/{setID:[0-9]+}/session", HandleBuildSession).Methods(http.MethodGet)
	api.HandleFunc("/learning/{setID:[0-9]+}/reset", HandleResetProgress).Methods(http.MethodPost)

	api.HandleFunc("/calendar/monthly", HandleMonthlyCalendar).Methods(http.MethodGet)
	api.HandleFunc("/calendar/daily/{date}", HandleDailyDetail).Methods(http.MethodGet)

	api.HandleFunc("/analysis/retention", HandleRetentionCurve).Methods(http.MethodGet)
	api.HandleFunc("/analysis/daily-activity", HandleDailyActivity).Methods(http.MethodGet)
	api.HandleFunc("/analysis/distribution", HandleProgressDistribution).Methods(http.MethodGet)
	api.HandleFunc("/analysis/study-sets/{setID:[0-9]+}", HandleStudySetStats).Methods(http.MethodGet)

	api.HandleFunc("/studysets", HandleCreateStudySet).Methods(http.MethodPost)
	api.HandleFunc("/studysets", HandleListStudySets).Methods(http.MethodGet)
	api.HandleFunc("/studysets/{setID:[0-9]+}", HandleGetStudySet).Methods(http.MethodGet)
	api.HandleFunc("/studysets/{setID:[0-9]+}", HandleDeleteStudySet).Methods(http.MethodDelete)
	api.HandleFunc("/studysets/{setID:[0-9]+}/import", HandleImportTerms).Methods(http.MethodPost)
	api.HandleFunc("/studysets/{setID:[0-9]+}/export", HandleExportTerms).Methods(http.MethodGet)

	api.HandleFunc("/reports", HandleGenerateReport(reportService)).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
