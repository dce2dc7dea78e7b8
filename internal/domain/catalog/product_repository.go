package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindBySKU finds a product by its stock keeping unit
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products in a specific category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindActive finds all active products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically subtracts quantity from the product's
	// stock. It fails with shared.ErrInsufficientStock when fewer than
	// quantity units remain, leaving the row untouched.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// IncrementStock atomically adds quantity back to the product's stock
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// NextSlug returns slug, or slug-N for the smallest N that makes it
	// unique among existing products.
	NextSlug(ctx context.Context, slug string) (string, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySlug checks if a product with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// ProductImageRepository defines the interface for product image persistence
type ProductImageRepository interface {
	// FindByID finds an image by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)

	// FindByProduct finds all images of a product ordered by position
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)

	// Save creates or updates an image record
	Save(ctx context.Context, image *ProductImage) error

	// Delete deletes an image record
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByProduct deletes all image records of a product
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
