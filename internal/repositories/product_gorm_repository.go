package repositories

import (
	"fmt"

	"pasar/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// GetAll retrieves all products, each with its store and the store's user.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Store.User").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", translate(err))
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetByID retrieves a product by its ID with its store and the store's user.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Store.User").First(&product, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, translate(err))
	}
	return &product, nil
}

// Update persists all fields of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Omit("Store").Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update product %d: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete product %d: %w", id, ErrNotFound)
	}
	return nil
}
