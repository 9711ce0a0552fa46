package handlers

import (
	"log"

	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	service  *services.StoreService
	validate *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(service *services.StoreService) *StoreHandler {
	return &StoreHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Post("/", h.HandleCreateStore)
	storeRoutes.Get("/", h.HandleGetStores)
	storeRoutes.Get("/:id", h.HandleGetStoreByID)
	storeRoutes.Put("/:id", h.HandleUpdateStore)
	storeRoutes.Delete("/:id", h.HandleDeleteStore)
}

// createStoreRequest is the store creation payload. UserID accepts a JSON
// integer or a quoted integer string.
type createStoreRequest struct {
	Name   string  `json:"name" validate:"required"`
	UserID *flexID `json:"userId" validate:"required"`
}

// HandleCreateStore creates a store for a user.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req createStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create store request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	store, err := h.service.CreateStore(req.Name, uint(*req.UserID))
	if err != nil {
		return respondError(c, err, "store not found")
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleGetStores retrieves all stores with their users and products.
func (h *StoreHandler) HandleGetStores(c *fiber.Ctx) error {
	stores, err := h.service.GetAllStores()
	if err != nil {
		return respondError(c, err, "store not found")
	}
	return c.JSON(stores)
}

// HandleGetStoreByID retrieves a single store with its user and products.
func (h *StoreHandler) HandleGetStoreByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}
	store, err := h.service.GetStoreByID(id)
	if err != nil {
		return respondError(c, err, "store not found")
	}
	return c.JSON(store)
}

// updateStoreRequest is the partial-update payload; absent fields stay
// unchanged and an empty name is ignored.
type updateStoreRequest struct {
	Name   *string `json:"name"`
	UserID *flexID `json:"userId"`
}

// HandleUpdateStore applies a partial update, including ownership transfer
// when the target user has no store of their own yet.
func (h *StoreHandler) HandleUpdateStore(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req updateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update store request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	upd := services.StoreUpdate{Name: req.Name}
	if req.UserID != nil {
		userID := uint(*req.UserID)
		upd.UserID = &userID
	}

	store, err := h.service.UpdateStore(id, upd)
	if err != nil {
		return respondError(c, err, "store not found")
	}
	return c.JSON(store)
}

// HandleDeleteStore deletes a store and all of its products.
func (h *StoreHandler) HandleDeleteStore(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.service.DeleteStore(id); err != nil {
		return respondError(c, err, "store not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
