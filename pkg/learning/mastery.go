package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"gorm.io/gorm"
)

// Attempt describes one practice interaction with a term, as submitted by the
// client. Correctness and mode are required; everything else is metadata that
// lands unmodified in the event log.
type Attempt struct {
	TermID         int64
	IsCorrect      bool
	Mode           db.LearningMode
	QuestionType   string
	UserAnswer     string
	ExpectedAnswer string
	TimeSpentMs    int
	SessionID      string
	Source         string
}

func (a Attempt) validate() error {
	switch a.Mode {
	case db.ModeLearn, db.ModeTest, db.ModeReview:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidAttempt, a.Mode)
	}
	if a.TermID == 0 {
		return fmt.Errorf("%w: missing term id", ErrInvalidAttempt)
	}
	if a.TimeSpentMs < 0 {
		return fmt.Errorf("%w: negative time spent", ErrInvalidAttempt)
	}
	return nil
}

// ApplyAttempt runs the mastery state machine for one attempt: it upserts the
// (user, term) progress record, appends the immutable log event and folds the
// event into the day's summary, all in a single transaction. Either every
// write lands or none does.
func ApplyAttempt(userID, studySetID int64, attempt Attempt, now time.Time) (*db.LearningProgress, error) {
	if err := attempt.validate(); err != nil {
		return nil, err
	}

	var progress db.LearningProgress
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		set, err := loadStudySet(tx, studySetID, userID)
		if err != nil {
			return err
		}

		var term db.Term
		if err := tx.Where("id = ? AND study_set_id = ?", attempt.TermID, set.ID).
			First(&term).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTermNotFound
			}
			return fmt.Errorf("load term: %w", err)
		}

		if err := tx.Where("user_id = ? AND term_id = ?", userID, term.ID).
			First(&progress).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load progress: %w", err)
			}
			progress = db.LearningProgress{
				UserID:     userID,
				StudySetID: set.ID,
				TermID:     term.ID,
				Status:     db.StatusNotStarted,
			}
		}

		ApplyResult(&progress, attempt.IsCorrect, now)

		if err := tx.Save(&progress).Error; err != nil {
			return fmt.Errorf("save progress: %w", err)
		}

		event := db.LearningProgressLog{
			UserID:         userID,
			StudySetID:     set.ID,
			TermID:         term.ID,
			Mode:           attempt.Mode,
			QuestionType:   attempt.QuestionType,
			IsCorrect:      attempt.IsCorrect,
			UserAnswer:     attempt.UserAnswer,
			ExpectedAnswer: attempt.ExpectedAnswer,
			TimeSpentMs:    attempt.TimeSpentMs,
			SessionID:      attempt.SessionID,
			Source:         attempt.Source,
			CreatedAt:      now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("append attempt event: %w", err)
		}

		if _, err := recordActivity(tx, userID, now, attempt.TimeSpentMs); err != nil {
			return fmt.Errorf("record daily activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ApplyResult advances the mastery state machine in place. Correct answers
// only ever move the status forward; a wrong answer resets the streak but
// never demotes familiar or mastered back to not started. MasteredAt is
// stamped on the first entry into mastered and left alone afterwards.
func ApplyResult(progress *db.LearningProgress, correct bool, now time.Time) {
	if progress == nil {
		return
	}

	if correct {
		switch progress.Status {
		case db.StatusNotStarted:
			progress.Status = db.StatusFamiliar
			progress.ConsecutiveCorrect = 1
		case db.StatusFamiliar:
			progress.Status = db.StatusMastered
			progress.ConsecutiveCorrect = 2
			if progress.MasteredAt == nil {
				masteredAt := now
				progress.MasteredAt = &masteredAt
			}
		case db.StatusMastered:
			progress.ConsecutiveCorrect++
		}
		progress.TotalCorrect++
	} else {
		// A wrong answer holds the current status: familiar and mastered are
		// never demoted by a single mistake.
		progress.ConsecutiveCorrect = 0
		progress.TotalIncorrect++
	}

	reviewedAt := now
	progress.LastReviewedAt = &reviewedAt
}

// ResetProgress removes the user's mastery records for a study set. Attempt
// events and daily summaries are left untouched.
func ResetProgress(userID, studySetID int64) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadStudySet(tx, studySetID, userID); err != nil {
			return err
		}
		return tx.Where("user_id = ? AND study_set_id = ?", userID, studySetID).
			Delete(&db.LearningProgress{}).Error
	})
}

func loadStudySet(tx *gorm.DB, studySetID, userID int64) (*db.StudySet, error) {
	var set db.StudySet
	if err := tx.Where("id = ?", studySetID).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudySetNotFound
		}
		return nil, fmt.Errorf("load study set: %w", err)
	}
	if !set.IsPublic && set.AuthorID != userID {
		return nil, ErrNotOwner
	}
	return &set, nil
}
