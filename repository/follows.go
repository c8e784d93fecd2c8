package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yatube/models"
)

// FollowRepository owns the directed follow edges of the social graph.
// Counts are always recomputed; nothing here is cached.
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a FollowRepository.
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow creates the user -> author edge. Repeated follows are absorbed by the
// unique index upsert, so the call is idempotent even under concurrency.
func (r *FollowRepository) Follow(userID, authorID uint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error
}

// Unfollow removes the edge if present; removing a nonexistent edge is a no-op.
func (r *FollowRepository) Unfollow(userID, authorID uint) error {
	return r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether the user -> author edge exists.
func (r *FollowRepository) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowerCount returns the number of incoming edges for an author.
func (r *FollowRepository) FollowerCount(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// FollowingCount returns the number of outgoing edges for a user.
func (r *FollowRepository) FollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
