package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetAll retrieves all users from the database, ordered by ascending ID.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", translate(err))
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, translate(err))
	}
	return &user, nil
}

// Update persists all fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so we
		// check RowsAffected ourselves.
		return fmt.Errorf("failed to update user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a user together with their store and its products, all in
// one transaction, mirroring the database-level cascade.
func (r *GORMUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var store models.Store
		err := tx.Where("user_id = ?", id).First(&store).Error
		switch {
		case err == nil:
			if err := tx.Where("store_id = ?", store.ID).Delete(&models.Product{}).Error; err != nil {
				return fmt.Errorf("failed to delete products of store %d: %w", store.ID, translate(err))
			}
			if err := tx.Delete(&store).Error; err != nil {
				return fmt.Errorf("failed to delete store %d: %w", store.ID, translate(err))
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// User owns no store; nothing to cascade.
		default:
			return fmt.Errorf("failed to look up store of user %d: %w", id, translate(err))
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to delete user %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
