// Package gamestate provides the interface for save-bundle persistence
package gamestate

//go:generate mockgen -destination=mock/mock_repository.go -package=gamestatemock github.com/Alily223/red-knight/internal/repositories/gamestate Repository

import (
	"context"

	"github.com/Alily223/red-knight/internal/entities/game"
)

// Repository defines the interface for save-bundle persistence
type Repository interface {
	// Save upserts the full session bundle for a save id
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Load retrieves the bundle for a save id
	// Returns errors.InvalidArgument for empty ids
	// Returns errors.NotFound if no bundle exists
	Load(ctx context.Context, input LoadInput) (*LoadOutput, error)

	// Delete removes the bundle for a save id
	// Returns errors.NotFound if no bundle exists
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// SaveInput defines the input for saving a bundle
type SaveInput struct {
	ID     string
	Bundle *game.SaveBundle
}

// SaveOutput defines the output for saving a bundle
type SaveOutput struct {
	Bundle *game.SaveBundle
}

// LoadInput defines the input for loading a bundle
type LoadInput struct {
	ID string
}

// LoadOutput defines the output for loading a bundle
type LoadOutput struct {
	Bundle *game.SaveBundle
}

// DeleteInput defines the input for deleting a bundle
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a bundle
type DeleteOutput struct{}
