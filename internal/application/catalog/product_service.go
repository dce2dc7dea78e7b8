package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// ImageStore is the object storage port used for product images
type ImageStore interface {
	// Put uploads an object and returns its public URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error
}

// ImageUpload is one image file received from a multipart form
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	imageRepo    catalog.ProductImageRepository
	categoryRepo catalog.CategoryRepository
	imageStore   ImageStore
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	imageRepo catalog.ProductImageRepository,
	categoryRepo catalog.CategoryRepository,
	imageStore ImageStore,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		imageRepo:    imageRepo,
		categoryRepo: categoryRepo,
		imageStore:   imageStore,
		logger:       logger,
	}
}

// Create creates a new product, uploading any attached images
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, images []ImageUpload) (*ProductResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Stock, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if len(req.Colors) > 0 || len(req.Sizes) > 0 {
		product.SetVariants(req.Colors, req.Sizes)
	}

	// Slugs are unique; collisions get a numeric suffix
	slug, err := s.productRepo.NextSlug(ctx, product.Slug)
	if err != nil {
		return nil, err
	}
	product.Slug = slug

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if err := s.attachImages(ctx, product, images, 0); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySlug retrieves a product by slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
		domainFilter.OrderDir = "desc"
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Active != nil {
		domainFilter.Filters["is_active"] = *filter.Active
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}

	return responses, total, nil
}

// Update updates an existing product, uploading any new images
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest, images []ImageUpload) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	categoryID := product.CategoryID
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		categoryID = *req.CategoryID
	}

	renamed := name != product.Name
	if err := product.Update(name, description, price, categoryID); err != nil {
		return nil, err
	}
	if renamed {
		slug, err := s.productRepo.NextSlug(ctx, product.Slug)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Colors != nil || req.Sizes != nil {
		colors := product.Colors
		if req.Colors != nil {
			colors = req.Colors
		}
		sizes := product.Sizes
		if req.Sizes != nil {
			sizes = req.Sizes
		}
		product.SetVariants(colors, sizes)
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if err := s.attachImages(ctx, product, images, len(product.Images)); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete deletes a product together with its stored images
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		if err := s.imageStore.Delete(ctx, img.Path); err != nil {
			// The database row goes regardless; orphaned objects are
			// cheaper than a product that cannot be deleted.
			s.logger.Warn("Failed to delete product image object",
				zap.String("product_id", product.ID.String()),
				zap.String("path", img.Path),
				zap.Error(err),
			)
		}
	}

	if err := s.imageRepo.DeleteByProduct(ctx, product.ID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// RemoveImage deletes a single product image
func (s *ProductService) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image.ProductID != productID {
		return shared.NewDomainError("INVALID_IMAGE", "Image does not belong to this product")
	}

	if err := s.imageStore.Delete(ctx, image.Path); err != nil {
		s.logger.Warn("Failed to delete product image object",
			zap.String("path", image.Path),
			zap.Error(err),
		)
	}
	return s.imageRepo.Delete(ctx, imageID)
}

// attachImages uploads files and records them against the product
func (s *ProductService) attachImages(ctx context.Context, product *catalog.Product, images []ImageUpload, startPosition int) error {
	for i, upload := range images {
		key := imageKey(product.ID, upload.Filename)

		url, err := s.imageStore.Put(ctx, key, upload.Data, upload.ContentType)
		if err != nil {
			return fmt.Errorf("failed to upload product image: %w", err)
		}

		image, err := catalog.NewProductImage(product.ID, key, url, startPosition+i)
		if err != nil {
			return err
		}
		if err := s.imageRepo.Save(ctx, image); err != nil {
			return err
		}
		product.Images = append(product.Images, *image)
	}
	return nil
}

// imageKey builds the object key for an uploaded image
func imageKey(productID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)
}
