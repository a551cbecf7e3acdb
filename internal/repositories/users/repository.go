// Package users provides the interface for login-record persistence
package users

//go:generate mockgen -destination=mock/mock_repository.go -package=usersmock github.com/Alily223/red-knight/internal/repositories/users Repository

import (
	"context"

	"github.com/Alily223/red-knight/internal/entities/game"
)

// Repository defines the interface for login-record persistence
type Repository interface {
	// CreateIfAbsent records a user on first login; an existing record
	// is left untouched
	CreateIfAbsent(ctx context.Context, input CreateIfAbsentInput) (*CreateIfAbsentOutput, error)

	// Get retrieves a user record; errors.NotFound when absent
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
}

// CreateIfAbsentInput defines the input for recording a login
type CreateIfAbsentInput struct {
	User *game.User
}

// CreateIfAbsentOutput defines the output for recording a login
type CreateIfAbsentOutput struct {
	// Created is false if the user already existed
	Created bool
	User    *game.User
}

// GetInput defines the input for getting a user
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a user
type GetOutput struct {
	User *game.User
}
