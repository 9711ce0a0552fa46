package services

import (
	"errors"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"
)

// StoreService handles business logic related to stores, including the
// one-store-per-user invariant and the cascade removal of products.
type StoreService struct {
	storeRepo repositories.StoreRepository
	userRepo  repositories.UserRepository
	events    EventPublisher
}

// NewStoreService creates a new StoreService. events may be nil when no
// message broker is configured.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, events EventPublisher) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		userRepo:  userRepo,
		events:    events,
	}
}

// StoreUpdate carries the optional fields of a partial store update.
// A nil field is left unchanged.
type StoreUpdate struct {
	Name   *string
	UserID *uint
}

// CreateStore creates a store for the given user. The existence and
// uniqueness pre-checks give precise errors; the unique constraint on
// user_id is the authoritative enforcement and its violation maps to
// ErrUserAlreadyHasStore. Returns the store with user and products included.
func (s *StoreService) CreateStore(name string, userID uint) (*models.Store, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %d: %w", userID, err)
	}

	if _, err := s.storeRepo.GetByUserID(userID); err == nil {
		return nil, ErrUserAlreadyHasStore
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up store of user %d: %w", userID, err)
	}

	store := &models.Store{Name: name, UserID: userID}
	if err := s.storeRepo.Create(store); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			// Lost a race against a concurrent create for the same user.
			return nil, ErrUserAlreadyHasStore
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	created, err := s.storeRepo.GetByID(store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload store %d: %w", store.ID, err)
	}

	s.publish("store.created", map[string]interface{}{
		"storeId": created.ID,
		"userId":  created.UserID,
		"name":    created.Name,
	})
	return created, nil
}

// GetAllStores retrieves all stores ordered by ascending ID, each with its
// user and products.
func (s *StoreService) GetAllStores() ([]models.Store, error) {
	return s.storeRepo.GetAll()
}

// GetStoreByID retrieves a single store with its user and products.
func (s *StoreService) GetStoreByID(id uint) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store %d: %w", id, err)
	}
	return store, nil
}

// UpdateStore applies a partial update. An empty name is ignored rather than
// cleared. A changed owner is only accepted when the target user does not
// already have a store. When nothing effectively changes, the current store
// is returned without issuing a write.
func (s *StoreService) UpdateStore(id uint, upd StoreUpdate) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load store %d: %w", id, err)
	}

	changed := false
	if upd.Name != nil && *upd.Name != "" {
		store.Name = *upd.Name
		changed = true
	}
	if upd.UserID != nil && *upd.UserID != store.UserID {
		if _, err := s.storeRepo.GetByUserID(*upd.UserID); err == nil {
			return nil, ErrUserAlreadyHasStore
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up store of user %d: %w", *upd.UserID, err)
		}
		store.UserID = *upd.UserID
		changed = true
	}

	if !changed {
		return store, nil
	}

	// Detach preloaded relations so the write only touches scalar columns.
	store.User = nil
	store.Products = nil
	if err := s.storeRepo.Update(store); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrUserAlreadyHasStore
		case errors.Is(err, repositories.ErrForeignKey):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update store %d: %w", id, err)
	}

	updated, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload store %d: %w", id, err)
	}
	return updated, nil
}

// DeleteStore removes a store and all of its products as one operation.
func (s *StoreService) DeleteStore(id uint) error {
	if _, err := s.storeRepo.GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load store %d: %w", id, err)
	}

	removed, err := s.storeRepo.Delete(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete store %d: %w", id, err)
	}

	s.publish("store.deleted", map[string]interface{}{
		"storeId":         id,
		"productsRemoved": removed,
	})
	return nil
}

// publish sends an entity event if a broker is wired. Publishing failures
// are logged and never fail the request.
func (s *StoreService) publish(eventType string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(rabbitmq.NewEvent(eventType, "store", payload)); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
