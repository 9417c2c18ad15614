// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

type LearningStatus string

const (
	StatusNotStarted LearningStatus = "not_started"
	StatusFamiliar   LearningStatus = "familiar"
	StatusMastered   LearningStatus = "mastered"
)

type LearningMode string

const (
	ModeLearn  LearningMode = "learn"
	ModeTest   LearningMode = "test"
	ModeReview LearningMode = "review"
)

type StudySet struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"size:500"`
	AuthorID    int64  `gorm:"index;not null"`
	IsPublic    bool   `gorm:"not null;default:true"`
	Terms       []Term `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Term struct {
	ID         int64  `gorm:"primaryKey"`
	StudySetID int64  `gorm:"index;not null"`
	Term       string `gorm:"size:255;not null"`
	Definition string `gorm:"size:1000;not null"`
	Order      int    `gorm:"column:display_order;not null;default:0"`
	CreatedAt  time.Time
}

// LearningProgress is the per (user, term) mastery record, created lazily on
// the first attempt. MasteredAt is stamped once on the first transition into
// mastered and never cleared, even if a later wrong answer resets the streak.
type LearningProgress struct {
	ID                 int64          `gorm:"primaryKey"`
	UserID             int64          `gorm:"index;uniqueIndex:idx_user_term;not null"`
	StudySetID         int64          `gorm:"index;not null"`
	TermID             int64          `gorm:"uniqueIndex:idx_user_term;not null"`
	Status             LearningStatus `gorm:"size:20;not null;default:not_started"`
	ConsecutiveCorrect int            `gorm:"not null;default:0"`
	TotalCorrect       int            `gorm:"not null;default:0"`
	TotalIncorrect     int            `gorm:"not null;default:0"`
	LastReviewedAt     *time.Time
	MasteredAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LearningProgressLog is the append-only attempt event stream, the single
// source of truth for all analytics. Rows are never updated; they go away only
// when the owning study set is deleted.
type LearningProgressLog struct {
	ID             int64        `gorm:"primaryKey"`
	UserID         int64        `gorm:"index;not null"`
	StudySetID     int64        `gorm:"index;not null"`
	TermID         int64        `gorm:"index;not null"`
	Mode           LearningMode `gorm:"size:20;not null"`
	QuestionType   string       `gorm:"size:50"`
	IsCorrect      bool         `gorm:"not null"`
	UserAnswer     string       `gorm:"type:text"`
	ExpectedAnswer string       `gorm:"type:text"`
	TimeSpentMs    int          `gorm:"not null;default:0"`
	SessionID      string       `gorm:"size:64"`
	Source         string       `gorm:"size:50"`
	CreatedAt      time.Time    `gorm:"index"`
}

type DailyLearningSummary struct {
	ID                 int64     `gorm:"primaryKey"`
	UserID             int64     `gorm:"index;uniqueIndex:idx_user_date;not null"`
	Date               time.Time `gorm:"type:date;uniqueIndex:idx_user_date;not null"`
	TotalTimeMs        int64     `gorm:"not null;default:0"`
	TotalWordsReviewed int       `gorm:"not null;default:0"`
	ActivityLevel      int       `gorm:"not null;default:0"` // 0-4 heatmap scale
}

// AIConfig holds an admin-selected text-generation provider. The active row is
// resolved per report call rather than cached process-wide.
type AIConfig struct {
	ID        int64          `gorm:"primaryKey"`
	Provider  string         `gorm:"size:50;not null"`
	Model     string         `gorm:"size:100;not null"`
	Endpoint  string         `gorm:"size:255"`
	APIKey    string         `gorm:"size:255"`
	IsActive  bool           `gorm:"index;not null;default:false"`
	Options   datatypes.JSON `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LearningReport struct {
	ID         int64          `gorm:"primaryKey"`
	UserID     int64          `gorm:"index;not null"`
	PeriodDays int            `gorm:"not null;default:7"`
	Content    string         `gorm:"type:text;not null"`
	Stats      datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time
}
