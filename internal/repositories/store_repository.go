package repositories

import "pasar/internal/models"

// StoreRepository defines the interface for store data access. Reads include
// the owning user and the store's products.
type StoreRepository interface {
	Create(store *models.Store) error
	GetAll() ([]models.Store, error)
	GetByID(id uint) (*models.Store, error)
	GetByUserID(userID uint) (*models.Store, error)
	Update(store *models.Store) error
	// Delete removes the store and all of its products in one transaction.
	// It returns the number of products removed alongside any error.
	Delete(id uint) (int64, error)
}
