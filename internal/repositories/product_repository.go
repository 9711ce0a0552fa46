package repositories

import "pasar/internal/models"

// ProductRepository defines the interface for product data access. Reads
// include the owning store and that store's user.
type ProductRepository interface {
	Create(product *models.Product) error
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
}
