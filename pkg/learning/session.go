package learning

import (
	"fmt"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"gorm.io/gorm"
)

const DefaultSessionSize = 7

// SessionTerm is a term plus the caller's current progress on it.
type SessionTerm struct {
	ID                 int64             `json:"id"`
	StudySetID         int64             `json:"study_set_id"`
	Term               string            `json:"term"`
	Definition         string            `json:"definition"`
	Order              int               `json:"order"`
	Status             db.LearningStatus `json:"learning_status"`
	ConsecutiveCorrect int               `json:"consecutive_correct"`
}

type Session struct {
	NewCount      int           `json:"new_count"`
	FamiliarCount int           `json:"familiar_count"`
	MasteredCount int           `json:"mastered_count"`
	Terms         []SessionTerm `json:"terms"`
}

// BuildSession picks the next practice batch for a user: familiar terms first
// so partially known material gets reviewed, then new terms to fill the
// remaining slots, both in study-set order. Mastered terms are counted but
// never included. The selection is stateless; without intervening attempts two
// consecutive calls return the same session.
func BuildSession(userID, studySetID int64, size int) (*Session, error) {
	if size <= 0 {
		size = DefaultSessionSize
	}

	var (
		terms    []db.Term
		progress []db.LearningProgress
	)
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadStudySet(tx, studySetID, userID); err != nil {
			return err
		}
		if err := tx.Where("study_set_id = ?", studySetID).
			Order("display_order ASC, id ASC").
			Find(&terms).Error; err != nil {
			return fmt.Errorf("load terms: %w", err)
		}
		if err := tx.Where("user_id = ? AND study_set_id = ?", userID, studySetID).
			Find(&progress).Error; err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	progressByTerm := make(map[int64]db.LearningProgress, len(progress))
	for _, p := range progress {
		progressByTerm[p.TermID] = p
	}

	var familiar, fresh []SessionTerm
	session := &Session{Terms: []SessionTerm{}}
	for _, term := range terms {
		st := SessionTerm{
			ID:         term.ID,
			StudySetID: term.StudySetID,
			Term:       term.Term,
			Definition: term.Definition,
			Order:      term.Order,
			Status:     db.StatusNotStarted,
		}
		if p, ok := progressByTerm[term.ID]; ok {
			st.Status = p.Status
			st.ConsecutiveCorrect = p.ConsecutiveCorrect
		}
		switch st.Status {
		case db.StatusMastered:
			session.MasteredCount++
		case db.StatusFamiliar:
			familiar = append(familiar, st)
		default:
			fresh = append(fresh, st)
		}
	}
	session.FamiliarCount = len(familiar)
	session.NewCount = len(fresh)

	for _, st := range familiar {
		if len(session.Terms) >= size {
			break
		}
		session.Terms = append(session.Terms, st)
	}
	for _, st := range fresh {
		if len(session.Terms) >= size {
			break
		}
		session.Terms = append(session.Terms, st)
	}
	return session, nil
}
