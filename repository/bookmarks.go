package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/models"
)

// BookmarkRepository owns the per-user saved-posts relation.
type BookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a BookmarkRepository.
func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Save bookmarks a post for a user. Repeated saves hit the unique index and
// are absorbed, keeping the operation idempotent.
func (r *BookmarkRepository) Save(userID, postID uint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoNothing: true,
	}).Create(&models.Bookmark{UserID: userID, PostID: postID}).Error
}

// Remove drops the bookmark if present; removing a non-bookmarked post is a no-op.
func (r *BookmarkRepository) Remove(userID, postID uint) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{}).Error
}

// IsSaved reports whether the user has bookmarked the post.
func (r *BookmarkRepository) IsSaved(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}
