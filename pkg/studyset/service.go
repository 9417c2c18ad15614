package studyset

import (
	"errors"
	"fmt"

	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/learning"
	"gorm.io/gorm"
)

type TermInput struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type CreateInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	IsPublic    *bool       `json:"is_public"`
	Terms       []TermInput `json:"terms"`
}

var ErrInvalidStudySet = errors.New("invalid study set payload")

// Create stores a study set with its terms in display order.
func Create(authorID int64, input CreateInput) (*db.StudySet, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidStudySet)
	}

	set := db.StudySet{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    authorID,
		IsPublic:    true,
	}
	if input.IsPublic != nil {
		set.IsPublic = *input.IsPublic
	}
	for i, term := range input.Terms {
		if term.Term == "" || term.Definition == "" {
			return nil, fmt.Errorf("%w: term %d is incomplete", ErrInvalidStudySet, i+1)
		}
		set.Terms = append(set.Terms, db.Term{
			Term:       term.Term,
			Definition: term.Definition,
			Order:      i,
		})
	}

	if err := db.DB.Create(&set).Error; err != nil {
		return nil, fmt.Errorf("create study set: %w", err)
	}
	return &set, nil
}

// Get loads a study set with its terms in display order. Private sets are
// visible to their author only.
func Get(userID, studySetID int64) (*db.StudySet, error) {
	var set db.StudySet
	err := db.DB.Preload("Terms", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order ASC, id ASC")
	}).Where("id = ?", studySetID).First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, learning.ErrStudySetNotFound
		}
		return nil, fmt.Errorf("load study set: %w", err)
	}
	if !set.IsPublic && set.AuthorID != userID {
		return nil, learning.ErrNotOwner
	}
	return &set, nil
}

// List returns the user's own study sets, newest first.
func List(userID int64) ([]db.StudySet, error) {
	var sets []db.StudySet
	if err := db.DB.Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("list study sets: %w", err)
	}
	return sets, nil
}

// Delete removes a study set plus everything keyed on it: terms, mastery
// records and attempt events. Daily summaries are historical totals and stay
// as written.
func Delete(userID, studySetID int64) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var set db.StudySet
		if err := tx.Where("id = ?", studySetID).First(&set).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return learning.ErrStudySetNotFound
			}
			return fmt.Errorf("load study set: %w", err)
		}
		if set.AuthorID != userID {
			return learning.ErrNotOwner
		}

		for _, model := range []interface{}{
			&db.LearningProgressLog{},
			&db.LearningProgress{},
			&db.Term{},
		} {
			if err := tx.Where("study_set_id = ?", studySetID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete study set children: %w", err)
			}
		}
		return tx.Delete(&set).Error
	})
}
