package handlers

import (
	"log"

	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// createProductRequest is the product creation payload. Price and StoreID
// accept JSON numbers or quoted numeric strings.
type createProductRequest struct {
	Name    string      `json:"name" validate:"required"`
	Price   *flexNumber `json:"price" validate:"required,gt=0"`
	StoreID *flexID     `json:"storeId" validate:"required"`
}

// HandleCreateProduct creates a product in a store.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := h.service.CreateProduct(req.Name, float64(*req.Price), uint(*req.StoreID))
	if err != nil {
		return respondError(c, err, "product not found")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProducts retrieves all products with their stores and owners.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err, "product not found")
	}
	return c.JSON(products)
}

// updateProductRequest is the partial-update payload; absent fields stay
// unchanged (undefined means unchanged, not falsy).
type updateProductRequest struct {
	Name    *string     `json:"name"`
	Price   *flexNumber `json:"price" validate:"omitempty,gt=0"`
	StoreID *flexID     `json:"storeId"`
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	upd := services.ProductUpdate{Name: req.Name}
	if req.Price != nil {
		price := float64(*req.Price)
		upd.Price = &price
	}
	if req.StoreID != nil {
		storeID := uint(*req.StoreID)
		upd.StoreID = &storeID
	}

	product, err := h.service.UpdateProduct(id, upd)
	if err != nil {
		return respondError(c, err, "product not found")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, err, "product not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
