package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/studyset"
)

const maxImportBytes = 2 << 20

// HandleCreateStudySet stores a study set with inline terms.
func HandleCreateStudySet(w http.ResponseWriter, r *http.Request) {
	var input studyset.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set payload")
		return
	}

	set, err := studyset.Create(UserID(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

// HandleListStudySets lists the acting user's study sets.
func HandleListStudySets(w http.ResponseWriter, r *http.Request) {
	sets, err := studyset.List(UserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// HandleGetStudySet returns one study set with its terms.
func HandleGetStudySet(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	set, err := studyset.Get(UserID(r), studySetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// HandleDeleteStudySet removes a study set and its dependent records.
func HandleDeleteStudySet(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	if err := studyset.Delete(UserID(r), studySetID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "study set deleted"})
}

// HandleImportTerms accepts a CSV body of term/definition pairs.
func HandleImportTerms(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	terms, skipped, err := studyset.ParseTermsCSV(data)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid CSV: %v", err))
		return
	}

	inserted, updated, err := studyset.ImportTerms(UserID(r), studySetID, terms)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"inserted": inserted,
		"updated":  updated,
		"skipped":  skipped,
	})
}

// HandleExportTerms streams a study set's terms as CSV.
func HandleExportTerms(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	set, err := studyset.Get(UserID(r), studySetID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := studyset.BuildExportCSV(set.Terms)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := studyset.ExportFilename(set.Title, time.Now().UTC())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		return
	}
}
