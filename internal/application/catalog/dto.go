package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=255"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=1,max=255"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	ParentID     *uuid.UUID `json:"parent_id"`
	ProductCount int64      `json:"product_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Colors      []string        `json:"colors"`
	Sizes       []string        `json:"sizes"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Colors      []string         `json:"colors"`
	Sizes       []string         `json:"sizes"`
	IsActive    *bool            `json:"is_active"`
}

// ProductImageResponse represents a stored product image
type ProductImageResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	SKU         string                 `json:"sku"`
	Description string                 `json:"description"`
	Price       decimal.Decimal        `json:"price"`
	Stock       int                    `json:"stock"`
	Colors      []string               `json:"colors"`
	Sizes       []string               `json:"sizes"`
	IsActive    bool                   `json:"is_active"`
	CategoryID  uuid.UUID              `json:"category_id"`
	Images      []ProductImageResponse `json:"images"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Active     *bool      `form:"active"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category, productCount int64) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		ParentID:     c.ParentID,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]ProductImageResponse, len(p.Images))
	for i, img := range p.Images {
		images[i] = ProductImageResponse{
			ID:       img.ID,
			URL:      img.URL,
			Position: img.Position,
		}
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Colors:      p.Colors,
		Sizes:       p.Sizes,
		IsActive:    p.IsActive,
		CategoryID:  p.CategoryID,
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
