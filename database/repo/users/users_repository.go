package users

import (
	"github.com/mikann/photo-gallery/database/models"
	"gorm.io/gorm"
)

// Repository wraps all user persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByUsername fetches a user by its unique username.
func (r *Repository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *Repository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// UsernameTaken reports whether a username is already registered.
func (r *Repository) UsernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
