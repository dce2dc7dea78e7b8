package trade

import (
	"context"

	"github.com/google/uuid"

	appcatalog "github.com/muhohoweb/shoe-app/internal/application/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// StorefrontResponse is everything the shop page needs in one call
type StorefrontResponse struct {
	Products   []appcatalog.ProductResponse  `json:"products"`
	Categories []appcatalog.CategoryResponse `json:"categories"`
	Locations  []DeliveryLocationResponse    `json:"delivery_locations"`
	Total      int64                         `json:"total"`
}

// StorefrontFilter narrows the storefront product listing
type StorefrontFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StorefrontService serves the public shop page
type StorefrontService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	locationRepo trade.DeliveryLocationRepository
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	locationRepo trade.DeliveryLocationRepository,
) *StorefrontService {
	return &StorefrontService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

// Storefront returns active products, categories with counts, and
// active delivery locations.
func (s *StorefrontService) Storefront(ctx context.Context, filter StorefrontFilter) (*StorefrontResponse, error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}

	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	countFilter := domainFilter
	countFilter.Filters = make(map[string]interface{}, len(domainFilter.Filters)+1)
	for k, v := range domainFilter.Filters {
		countFilter.Filters[k] = v
	}
	countFilter.Filters["is_active"] = true

	total, err := s.productRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	locations, err := s.locationRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := &StorefrontResponse{
		Products:   make([]appcatalog.ProductResponse, len(products)),
		Categories: make([]appcatalog.CategoryResponse, len(categories)),
		Locations:  make([]DeliveryLocationResponse, len(locations)),
		Total:      total,
	}
	for i := range products {
		resp.Products[i] = appcatalog.ToProductResponse(&products[i])
	}
	for i := range categories {
		count, err := s.productRepo.Count(ctx, shared.Filter{
			Filters: map[string]interface{}{"category_id": categories[i].ID, "is_active": true},
		})
		if err != nil {
			return nil, err
		}
		resp.Categories[i] = appcatalog.ToCategoryResponse(&categories[i], count)
	}
	for i := range locations {
		resp.Locations[i] = ToDeliveryLocationResponse(&locations[i])
	}

	return resp, nil
}
