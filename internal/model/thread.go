package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Thread categories are a fixed enumeration.
const (
	CategoryRaceDiscussion = "race-discussion"
	CategoryDrivers        = "drivers"
	CategoryTeams          = "teams"
	CategoryTechnical      = "technical"
	CategoryOffTopic       = "off-topic"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryRaceDiscussion, CategoryDrivers, CategoryTeams, CategoryTechnical, CategoryOffTopic:
		return true
	}
	return false
}

type Thread struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Category       string         `gorm:"size:50;not null;index" json:"category"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	LikedBy        pq.StringArray `gorm:"type:text[]" json:"likedBy"`
	DislikedBy     pq.StringArray `gorm:"type:text[]" json:"dislikedBy"`
	Views          int            `gorm:"default:0" json:"views"`
	CommentCount   int            `gorm:"default:0" json:"commentCount"`
	Pinned         bool           `gorm:"default:false" json:"pinned"`
	Locked         bool           `gorm:"default:false" json:"locked"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	LastActivityAt time.Time      `gorm:"autoCreateTime" json:"lastActivityAt"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

// Score is derived from the vote sets, never stored.
func (t *Thread) Score() int {
	return len(t.LikedBy) - len(t.DislikedBy)
}
