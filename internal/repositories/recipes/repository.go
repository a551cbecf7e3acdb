// Package recipes provides the memoization store for crafted items,
// keyed by the canonical combination key of their ingredients so an
// identical resource set always yields the same item once cached.
package recipes

//go:generate mockgen -destination=mock/mock_repository.go -package=recipesmock github.com/Alily223/red-knight/internal/repositories/recipes Repository

import (
	"context"

	"github.com/Alily223/red-knight/internal/entities/game"
)

// Repository defines the interface for recipe persistence
type Repository interface {
	// Get retrieves a cached crafted item; errors.NotFound for a
	// combination that has never been crafted
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put caches a crafted item under its combination key
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}

// GetInput defines the input for a recipe lookup
type GetInput struct {
	Combo string
}

// GetOutput defines the output for a recipe lookup
type GetOutput struct {
	Item *game.CraftedItem
}

// PutInput defines the input for caching a recipe
type PutInput struct {
	Combo string
	Item  *game.CraftedItem
}

// PutOutput defines the output for caching a recipe
type PutOutput struct{}
