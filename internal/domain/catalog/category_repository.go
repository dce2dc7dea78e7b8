package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by its exact name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindChildren finds all direct children of a category
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)

	// FindRoots finds all top-level categories
	FindRoots(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// HasProducts checks if any products reference the category
	HasProducts(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a category with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}
