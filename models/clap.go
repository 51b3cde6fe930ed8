package models

import "time"

// Clap records that a user applauded a post. At most one per (user, post).
type Clap struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_clap_user_post" json:"userId"`
	PostID    uint         `gorm:"not null;uniqueIndex:idx_clap_user_post;index" json:"blogId"`
	CreatedAt time.Time    `json:"createdAt"`
	Blog      *PostSummary `gorm:"-" json:"blog,omitempty"`
}

// All returns every model that needs a table.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &Clap{}}
}
