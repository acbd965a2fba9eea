// Package repository declares the persistence contracts shared by the
// memory and mongodb backends.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

var (
	// ErrUserExists indicates the username is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates no account matches the username.
	ErrUserNotFound = errors.New("user not found")
)

// RecordStore keeps each owner's inventory rows in insertion order.
type RecordStore interface {
	// Get returns the owner's rows; ok is false when nothing was ever stored.
	Get(ctx context.Context, owner string) (records []models.InventoryRecord, ok bool, err error)
	Append(ctx context.Context, owner string, record models.InventoryRecord) error
	Replace(ctx context.Context, owner string, records []models.InventoryRecord) error
	// Owners lists every owner with stored rows.
	Owners(ctx context.Context) ([]string, error)
}

// UserStore persists dashboard accounts.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
}
