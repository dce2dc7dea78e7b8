package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Images").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Images").
		First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its stock keeping unit
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Preload("Images"),
		filter, "name", "sku")
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory finds all products in a specific category
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Preload("Images").
		Where("category_id = ?", categoryID), filter, "name", "sku")
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActive finds all active products
func (r *GormProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyFilter(r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Preload("Images").
		Where("is_active = ?", true), filter, "name", "sku")
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock atomically subtracts quantity from the product's
// stock. The WHERE guard keeps the stock from ever going below zero
// under concurrent checkouts.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing product from insufficient stock
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// IncrementStock atomically adds quantity back to the product's stock
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextSlug returns slug, or slug-N for the smallest N that makes it
// unique among existing products.
func (r *GormProductRepository) NextSlug(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for counter := 2; ; counter++ {
		exists, err := r.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, counter)
	}
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}),
		filter, "name", "sku")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks if a product with the given slug exists
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductImageRepository implements ProductImageRepository using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByProduct finds all images of a product ordered by position
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Save creates or updates an image record
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// Delete deletes an image record
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByProduct deletes all image records of a product
func (r *GormProductImageRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.ProductImage{}, "product_id = ?", productID).Error
}

// Ensure GormProductImageRepository implements ProductImageRepository
var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)
