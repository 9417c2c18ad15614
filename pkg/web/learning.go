package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/learning"
)

type attemptRequest struct {
	TermID         int64  `json:"term_id"`
	IsCorrect      *bool  `json:"is_correct"`
	Mode           string `json:"mode"`
	QuestionType   string `json:"question_type"`
	UserAnswer     string `json:"user_answer"`
	ExpectedAnswer string `json:"expected_answer"`
	TimeSpentMs    int    `json:"time_spent_ms"`
	SessionID      string `json:"session_id"`
	Source         string `json:"source"`
}

type progressResponse struct {
	ID                 int64             `json:"id"`
	StudySetID         int64             `json:"study_set_id"`
	TermID             int64             `json:"term_id"`
	Status             db.LearningStatus `json:"status"`
	ConsecutiveCorrect int               `json:"consecutive_correct"`
	TotalCorrect       int               `json:"total_correct"`
	TotalIncorrect     int               `json:"total_incorrect"`
	LastReviewedAt     *time.Time        `json:"last_reviewed_at"`
	MasteredAt         *time.Time        `json:"mastered_at"`
}

// HandleApplyAttempt records one practice attempt and returns the updated
// mastery record.
func HandleApplyAttempt(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	var req attemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid attempt payload")
		return
	}
	if req.IsCorrect == nil {
		writeError(w, r, fmt.Errorf("%w: missing correctness flag", learning.ErrInvalidAttempt))
		return
	}

	attempt := learning.Attempt{
		TermID:         req.TermID,
		IsCorrect:      *req.IsCorrect,
		Mode:           db.LearningMode(req.Mode),
		QuestionType:   req.QuestionType,
		UserAnswer:     req.UserAnswer,
		ExpectedAnswer: req.ExpectedAnswer,
		TimeSpentMs:    req.TimeSpentMs,
		SessionID:      req.SessionID,
		Source:         req.Source,
	}

	progress, err := learning.ApplyAttempt(UserID(r), studySetID, attempt, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		ID:                 progress.ID,
		StudySetID:         progress.StudySetID,
		TermID:             progress.TermID,
		Status:             progress.Status,
		ConsecutiveCorrect: progress.ConsecutiveCorrect,
		TotalCorrect:       progress.TotalCorrect,
		TotalIncorrect:     progress.TotalIncorrect,
		LastReviewedAt:     progress.LastReviewedAt,
		MasteredAt:         progress.MasteredAt,
	})
}

// HandleBuildSession returns the next practice batch for the acting user.
func HandleBuildSession(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	size := learning.DefaultSessionSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "invalid session size")
			return
		}
		size = parsed
	}

	session, err := learning.BuildSession(UserID(r), studySetID, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleResetProgress wipes the acting user's mastery records for a set.
func HandleResetProgress(w http.ResponseWriter, r *http.Request) {
	studySetID, err := pathID(r, "setID")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid study set id")
		return
	}

	if err := learning.ResetProgress(UserID(r), studySetID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "progress reset successfully"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
