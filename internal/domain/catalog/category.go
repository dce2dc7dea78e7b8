package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// Category represents a product category.
// Categories form a two-level-friendly tree through the optional parent
// reference; a category with children cannot be deleted.
type Category struct {
	shared.BaseAggregateRoot
	Name     string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new root category
func NewCategory(name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// NewChildCategory creates a new category under a parent
func NewChildCategory(name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ParentID:          &parent.ID,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetParent reparents the category. A category may not be its own parent.
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}

	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsRoot returns true if this is a top-level category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 255 characters")
	}
	return nil
}
