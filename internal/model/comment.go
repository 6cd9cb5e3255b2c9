package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Comment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"threadId"`
	ParentID   *uuid.UUID     `gorm:"type:uuid;index" json:"parentCommentId,omitempty"`
	AuthorID   uuid.UUID      `gorm:"type:uuid;not null" json:"authorId"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	LikedBy    pq.StringArray `gorm:"type:text[]" json:"likedBy"`
	DislikedBy pq.StringArray `gorm:"type:text[]" json:"dislikedBy"`
	Edited     bool           `gorm:"default:false" json:"edited"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

func (c *Comment) Score() int {
	return len(c.LikedBy) - len(c.DislikedBy)
}
