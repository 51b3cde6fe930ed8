package models

import "time"

// Post represents a published blog post. CommentCount and ClapCount are
// denormalized and only changed together with the matching comment or clap row.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"authorId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Story        string         `gorm:"type:text;not null" json:"story"`
	Cover        string         `gorm:"size:1024" json:"cover"`
	CommentCount int64          `gorm:"not null;default:0" json:"commentCount"`
	ClapCount    int64          `gorm:"not null;default:0" json:"clapCount"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Author       *AuthorSummary `gorm:"-" json:"author,omitempty"`
}

// PostSummary is embedded in a user's clap listing.
type PostSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}
