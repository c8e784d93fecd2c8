package models

import "time"

// Post is the core content unit: author text with an optional image and group.
// PubDate is set once at creation and is the primary sort key (newest first,
// ties broken by author id).
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	ImageURL string    `gorm:"size:512" json:"image_url,omitempty"`
	PubDate  time.Time `gorm:"index;autoCreateTime;<-:create" json:"pub_date"`
	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// CommentsCount is annotated at query time by the repository, never stored.
	CommentsCount int64 `gorm:"->;-:migration" json:"comments_count"`
}
