package repository

import (
	"gorm.io/gorm"

	"yatube/models"
)

// GroupRepository owns community persistence.
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a GroupRepository.
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// ListAll returns every group ordered by title.
func (r *GroupRepository) ListAll() ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

// GetBySlug loads one group; unknown slugs are gorm.ErrRecordNotFound.
func (r *GroupRepository) GetBySlug(slug string) (models.Group, error) {
	var group models.Group
	err := r.db.Where("slug = ?", slug).First(&group).Error
	return group, err
}

// SlugTaken reports whether a group already uses the slug.
func (r *GroupRepository) SlugTaken(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Group{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Create persists a new group; the unique slug index backs the caller's check.
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// Delete removes a group, detaching its posts first so they survive with a
// null group rather than being deleted.
func (r *GroupRepository) Delete(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}
