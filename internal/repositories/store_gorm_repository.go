package repositories

import (
	"fmt"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", translate(err))
	}
	return nil
}

// GetAll retrieves all stores ordered by ascending ID, each with its user
// and products included.
func (r *GORMStoreRepository) GetAll() ([]models.Store, error) {
	var stores []models.Store
	err := r.db.Preload("User").Preload("Products").Order("id asc").Find(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all stores: %w", translate(err))
	}
	if stores == nil {
		stores = []models.Store{}
	}
	for i := range stores {
		ensureProducts(&stores[i])
	}
	return stores, nil
}

// GetByID retrieves a store by its ID with its user and products included.
func (r *GORMStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.Preload("User").Preload("Products").First(&store, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get store %d: %w", id, translate(err))
	}
	ensureProducts(&store)
	return &store, nil
}

// GetByUserID retrieves the store owned by the given user, if any.
func (r *GORMStoreRepository) GetByUserID(userID uint) (*models.Store, error) {
	var store models.Store
	err := r.db.First(&store, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get store of user %d: %w", userID, translate(err))
	}
	return &store, nil
}

// Update persists all fields of an existing store.
func (r *GORMStoreRepository) Update(store *models.Store) error {
	res := r.db.Omit("User", "Products").Save(store)
	if res.Error != nil {
		return fmt.Errorf("failed to update store %d: %w", store.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update store %d: %w", store.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the store and every product it owns in one transaction.
// The database-level ON DELETE CASCADE remains as a backstop; deleting the
// products explicitly keeps the whole removal in a single atomic operation
// regardless of driver support. Returns the number of products removed.
func (r *GORMStoreRepository) Delete(id uint) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("store_id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete products of store %d: %w", id, translate(res.Error))
		}
		removed = res.RowsAffected

		res = tx.Delete(&models.Store{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete store %d: %w", id, translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to delete store %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ensureProducts normalizes a preloaded store so an empty product set
// serializes as [] instead of null.
func ensureProducts(store *models.Store) {
	if store.Products == nil {
		store.Products = []models.Product{}
	}
}
