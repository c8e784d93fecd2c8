package models

import "time"

// Comment is a reply to a post. Created is set once and never updated.
type Comment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	PostID  uint      `gorm:"index;not null" json:"post_id"`
	UserID  uint      `gorm:"index;not null" json:"user_id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	Created time.Time `gorm:"index;autoCreateTime;<-:create" json:"created"`
	User    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
