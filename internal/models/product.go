package models

import "time"

// Product represents an item sold by a store. StoreID is required; a product
// never outlives its store (deleting the store removes its products).
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Price     float64   `json:"price"`
	StoreID   uint      `json:"storeId" gorm:"index;not null"`
	Store     *Store    `json:"store,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
