package models

import "time"

// Comment represents a reply to a post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"index;not null" json:"blogId"`
	UserID    uint           `gorm:"index;not null" json:"authorId"`
	Text      string         `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	Author    *AuthorSummary `gorm:"-" json:"author,omitempty"`
}
