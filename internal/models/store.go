package models

import "time"

// Store represents a seller's shop. The unique index on UserID enforces the
// one-store-per-user invariant at the database level; service-layer checks
// are advisory only.
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex;not null"`
	User      *User     `json:"user,omitempty"`
	Products  []Product `json:"products" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
