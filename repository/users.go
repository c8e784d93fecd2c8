package repository

import (
	"gorm.io/gorm"

	"yatube/models"
)

// UserRepository owns user and profile persistence.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get loads one user by id.
func (r *UserRepository) Get(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return user, err
}

// GetByUsername loads one user; unknown usernames are gorm.ErrRecordNotFound.
func (r *UserRepository) GetByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return user, err
}

// UsernameTaken reports whether a user already uses the username.
func (r *UserRepository) UsernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Create persists a new user.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists user edits.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// PostCount returns the number of posts a user authored, recomputed per call.
func (r *UserRepository) PostCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GetOrCreateProfile returns the user's profile, creating the empty row on
// first access.
func (r *UserRepository) GetOrCreateProfile(userID uint) (models.Profile, error) {
	var profile models.Profile
	err := r.db.Where(models.Profile{UserID: userID}).FirstOrCreate(&profile).Error
	return profile, err
}

// UpdateProfile persists profile edits.
func (r *UserRepository) UpdateProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// Delete removes a user and everything they own: their posts (with those
// posts' comments and bookmarks), their own comments and bookmarks, and both
// directions of their follow edges. The cascade is explicit so the semantics
// hold on engines without FK enforcement.
func (r *UserRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", user.ID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Bookmark{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", user.ID, user.ID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
