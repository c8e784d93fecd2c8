package models

import "time"

// Bookmark marks a post as saved by a user, independent of authorship or group.
// The composite unique index keeps repeated saves idempotent under concurrency.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_bookmarks_user_post;not null" json:"user_id"`
	PostID    uint      `gorm:"index;uniqueIndex:idx_bookmarks_user_post;not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
