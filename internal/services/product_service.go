package services

import (
	"errors"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"
)

// ProductService handles business logic related to products. Every product
// must reference an existing store.
type ProductService struct {
	productRepo repositories.ProductRepository
	storeRepo   repositories.StoreRepository
	events      EventPublisher
}

// NewProductService creates a new ProductService. events may be nil when no
// message broker is configured.
func NewProductService(productRepo repositories.ProductRepository, storeRepo repositories.StoreRepository, events EventPublisher) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		events:      events,
	}
}

// ProductUpdate carries the optional fields of a partial product update.
// A nil field is left unchanged.
type ProductUpdate struct {
	Name    *string
	Price   *float64
	StoreID *uint
}

// CreateProduct creates a product in the given store. A missing store maps
// to ErrStoreNotFound, both via the pre-check and the foreign-key backstop.
// Returns the product with its store and the store's user included.
func (s *ProductService) CreateProduct(name string, price float64, storeID uint) (*models.Product, error) {
	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to look up store %d: %w", storeID, err)
	}

	product := &models.Product{Name: name, Price: price, StoreID: storeID}
	if err := s.productRepo.Create(product); err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product %d: %w", product.ID, err)
	}

	s.publish("product.created", map[string]interface{}{
		"productId": created.ID,
		"storeId":   created.StoreID,
		"name":      created.Name,
		"price":     created.Price,
	})
	return created, nil
}

// GetAllProducts retrieves all products, each with its store and the store's
// user.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// UpdateProduct applies a partial update; absent fields are left unchanged.
// A changed store must exist.
func (s *ProductService) UpdateProduct(id uint, upd ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.StoreID != nil && *upd.StoreID != product.StoreID {
		if _, err := s.storeRepo.GetByID(*upd.StoreID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrStoreNotFound
			}
			return nil, fmt.Errorf("failed to look up store %d: %w", *upd.StoreID, err)
		}
		product.StoreID = *upd.StoreID
	}

	// The update response carries the product alone, without relations.
	product.Store = nil
	if err := s.productRepo.Update(product); err != nil {
		switch {
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrStoreNotFound
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (s *ProductService) publish(eventType string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(rabbitmq.NewEvent(eventType, "product", payload)); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
