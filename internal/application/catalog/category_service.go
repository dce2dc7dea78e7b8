package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}

	var category *catalog.Category

	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}

		category, err = catalog.NewChildCategory(req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(req.Name)
		if err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category, 0)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.productRepo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"category_id": category.ID},
	})
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category, count)
	return &resp, nil
}

// List retrieves categories with their product counts
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
	}

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		count, err := s.productRepo.Count(ctx, shared.Filter{
			Filters: map[string]interface{}{"category_id": categories[i].ID},
		})
		if err != nil {
			return nil, 0, err
		}
		responses[i] = ToCategoryResponse(&categories[i], count)
	}

	return responses, total, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
		}
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
		if err := category.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	count, err := s.productRepo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"category_id": category.ID},
	})
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category, count)
	return &resp, nil
}

// Delete deletes a category. Categories with children or products
// cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, category.ID)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Cannot delete category with child categories")
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, category.ID)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError("HAS_PRODUCTS", "Cannot delete category with associated products")
	}

	return s.categoryRepo.Delete(ctx, id)
}
