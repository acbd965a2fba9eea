package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard account. Inventory rows are owned by Username.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
