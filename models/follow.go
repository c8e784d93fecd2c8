package models

import "time"

// Follow is a directed edge meaning "user receives author's posts in their feed".
// The composite unique index makes concurrent duplicate follows impossible at
// the store level; handlers additionally reject self-follows.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_follows_user_author;not null" json:"user_id"`
	AuthorID  uint      `gorm:"index;uniqueIndex:idx_follows_user_author;not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}
