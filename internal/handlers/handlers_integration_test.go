package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pasar/internal/handlers"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app backed by an in-memory SQLite database with
// all handlers and services wired. Each test gets its own named in-memory
// database so state never leaks between tests.
func setupApp(t *testing.T) *fiber.App {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Product{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	// Initialize Services (nil event publisher: no broker in tests)
	userService := services.NewUserService(userRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, nil)
	productService := services.NewProductService(productRepo, storeRepo, nil)

	// Initialize Handlers
	app := fiber.New()
	handlers.NewUserHandler(userService).RegisterRoutes(app)
	handlers.NewStoreHandler(storeService).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app)

	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doRequest performs a JSON request against the test app.
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createUser(t *testing.T, app *fiber.App, name, email string) map[string]interface{} {
	resp := doRequest(t, app, http.MethodPost, "/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var user map[string]interface{}
	decodeBody(t, resp, &user)
	return user
}

func TestUserLifecycle(t *testing.T) {
	app := setupApp(t)

	// Create
	user := createUser(t, app, "Ana", "a@x.com")
	assert.Equal(t, "Ana", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	// The password (and its hash) must never appear in a response.
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "Password")

	// Duplicate email is rejected with 409 and creates no second row
	resp := doRequest(t, app, http.MethodPost, "/users", map[string]string{
		"name": "Impostor", "email": "a@x.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	createUser(t, app, "Bruno", "b@x.com")

	// List is ordered by ascending id, with exactly one row per email
	resp = doRequest(t, app, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)
	assert.Equal(t, "a@x.com", users[0].Email)
	assert.Equal(t, "b@x.com", users[1].Email)
	assert.Less(t, users[0].ID, users[1].ID)

	// Partial update: only the provided field changes
	resp = doRequest(t, app, http.MethodPut, "/users/1", map[string]string{"name": "Ana Maria"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)

	// Update on a missing id
	resp = doRequest(t, app, http.MethodPut, "/users/99", map[string]string{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Update that collides with another user's email
	resp = doRequest(t, app, http.MethodPut, "/users/1", map[string]string{"email": "b@x.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Non-numeric id fails before touching the database
	resp = doRequest(t, app, http.MethodPut, "/users/abc", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete, then delete again: the second must be 404, not a repeat success
	resp = doRequest(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserValidation(t *testing.T) {
	app := setupApp(t)

	// Missing fields
	resp := doRequest(t, app, http.MethodPost, "/users", map[string]string{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed email
	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{
		"name": "Ana", "email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Validation is presence-only: single-character names and passwords
	// are fine.
	resp = doRequest(t, app, http.MethodPost, "/users", map[string]string{
		"name": "A", "email": "short@x.com", "password": "p",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "S", "userId": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "W", "price": 0.5, "storeId": 1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestStoreLifecycle(t *testing.T) {
	app := setupApp(t)
	createUser(t, app, "Ana", "a@x.com")
	createUser(t, app, "Bruno", "b@x.com")

	// Missing fields
	resp := doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "No Owner"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown user is a 400 (reference target, not the addressed entity)
	resp = doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Ghost Shop", "userId": 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Create: response includes the owner and an empty (non-null) product list
	resp = doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Ana Shop", "userId": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store map[string]interface{}
	decodeBody(t, resp, &store)
	assert.Equal(t, float64(1), store["userId"])
	assert.NotNil(t, store["user"])
	products, ok := store["products"].([]interface{})
	assert.True(t, ok, "products must serialize as an array")
	assert.Empty(t, products)

	// Second store for the same user
	resp = doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Dup", "userId": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Exactly one store exists afterward
	resp = doRequest(t, app, http.MethodGet, "/stores", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stores []models.Store
	decodeBody(t, resp, &stores)
	assert.Len(t, stores, 1)
	assert.NotNil(t, stores[0].User)

	// Get by id
	resp = doRequest(t, app, http.MethodGet, "/stores/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doRequest(t, app, http.MethodGet, "/stores/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// No-op update: empty name and unchanged owner return the store as-is
	resp = doRequest(t, app, http.MethodPut, "/stores/1", map[string]interface{}{"name": "", "userId": 1})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var unchanged models.Store
	decodeBody(t, resp, &unchanged)
	assert.Equal(t, "Ana Shop", unchanged.Name)
	assert.Equal(t, uint(1), unchanged.UserID)

	// Rename
	resp = doRequest(t, app, http.MethodPut, "/stores/1", map[string]interface{}{"name": "Ana Megastore"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var renamed models.Store
	decodeBody(t, resp, &renamed)
	assert.Equal(t, "Ana Megastore", renamed.Name)

	// Transfer to a free user, then try to transfer back onto a busy one
	resp = doRequest(t, app, http.MethodPut, "/stores/1", map[string]interface{}{"userId": 2})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var transferred models.Store
	decodeBody(t, resp, &transferred)
	assert.Equal(t, uint(2), transferred.UserID)

	resp = doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Ana Again", "userId": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, http.MethodPut, "/stores/1", map[string]interface{}{"userId": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Update on a missing store
	resp = doRequest(t, app, http.MethodPut, "/stores/99", map[string]interface{}{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete, then delete again
	resp = doRequest(t, app, http.MethodDelete, "/stores/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, app, http.MethodDelete, "/stores/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductEndpoints(t *testing.T) {
	app := setupApp(t)
	createUser(t, app, "Ana", "a@x.com")
	resp := doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Ana Shop", "userId": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Missing fields
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{"name": "Widget"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Non-numeric price fails fast
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "Widget", "price": "cheap", "storeId": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown store: no product row is created
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "Orphan", "price": 1.0, "storeId": 99,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doRequest(t, app, http.MethodGet, "/products", nil)
	var empty []models.Product
	decodeBody(t, resp, &empty)
	assert.Empty(t, empty)

	// Quoted numeric strings are accepted for price and storeId
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "Widget", "price": "9.99", "storeId": "1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.Equal(t, 9.99, created.Price)
	assert.Equal(t, uint(1), created.StoreID)
	assert.NotNil(t, created.Store)
	assert.NotNil(t, created.Store.User)

	// Partial update: price only, name and store untouched
	resp = doRequest(t, app, http.MethodPut, "/products/1", map[string]interface{}{"price": 14.99})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decodeBody(t, resp, &updated)
	assert.Equal(t, 14.99, updated.Price)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, uint(1), updated.StoreID)

	// Moving to a missing store
	resp = doRequest(t, app, http.MethodPut, "/products/1", map[string]interface{}{"storeId": 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Update and delete on missing ids
	resp = doRequest(t, app, http.MethodPut, "/products/99", map[string]interface{}{"price": 1.0})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doRequest(t, app, http.MethodDelete, "/products/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete, then delete again
	resp = doRequest(t, app, http.MethodDelete, "/products/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, app, http.MethodDelete, "/products/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestMarketplaceScenario walks the full create-store-product-cascade flow.
func TestMarketplaceScenario(t *testing.T) {
	app := setupApp(t)

	// POST /users
	resp0 := doRequest(t, app, http.MethodPost, "/users", map[string]string{
		"name": "Ana", "email": "a@x.com", "password": "p",
	})
	assert.Equal(t, http.StatusCreated, resp0.StatusCode)
	var user map[string]interface{}
	decodeBody(t, resp0, &user)
	assert.Equal(t, float64(1), user["id"])

	// POST /stores
	resp := doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Ana Shop", "userId": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var store models.Store
	decodeBody(t, resp, &store)
	assert.Equal(t, uint(1), store.UserID)

	// POST /stores again for the same user
	resp = doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Dup", "userId": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]interface{}
	decodeBody(t, resp, &errBody)
	assert.Contains(t, errBody, "error")

	// POST /products
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "storeId": 1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// DELETE /stores/1 cascades to the product
	resp = doRequest(t, app, http.MethodDelete, "/stores/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// GET /products is empty: no orphans survive the cascade
	resp = doRequest(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Empty(t, products)
}

// TestUserDeleteCascadesToStore covers the user→store→product cascade.
func TestUserDeleteCascadesToStore(t *testing.T) {
	app := setupApp(t)
	createUser(t, app, "Ana", "a@x.com")
	resp := doRequest(t, app, http.MethodPost, "/stores", map[string]interface{}{"name": "Ana Shop", "userId": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "storeId": 1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/stores", nil)
	var stores []models.Store
	decodeBody(t, resp, &stores)
	assert.Empty(t, stores)

	resp = doRequest(t, app, http.MethodGet, "/products", nil)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Empty(t, products)
}
