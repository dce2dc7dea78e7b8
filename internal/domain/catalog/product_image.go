package catalog

import (
	"github.com/google/uuid"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// ProductImage is a stored image attached to a product. Path is the
// object key in the image store; URL is the public address served to
// storefront clients.
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Path      string    `gorm:"type:varchar(512);not null"`
	URL       string    `gorm:"type:varchar(1024);not null"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates an image record for a product
func NewProductImage(productID uuid.UUID, path, url string, position int) (*ProductImage, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product reference is required")
	}
	if path == "" || url == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image path and URL are required")
	}

	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Path:       path,
		URL:        url,
		Position:   position,
	}, nil
}
