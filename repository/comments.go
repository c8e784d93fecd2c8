package repository

import (
	"gorm.io/gorm"

	"yatube/models"
)

// CommentRepository owns comment persistence.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a CommentRepository.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListForPost returns a post's comments newest first, author id as tie-break.
func (r *CommentRepository) ListForPost(postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.Where("post_id = ?", postID).
		Preload("User").
		Order("created DESC, user_id ASC").
		Find(&comments).Error
	return comments, err
}

// Get loads one comment with its author.
func (r *CommentRepository) Get(id uint) (models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("User").First(&comment, id).Error
	return comment, err
}

// Create persists a new comment.
func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// Delete removes a comment.
func (r *CommentRepository) Delete(comment *models.Comment) error {
	return r.db.Delete(comment).Error
}
