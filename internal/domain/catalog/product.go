package catalog

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// StringList stores a list of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Product represents a sellable shoe in the catalog.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(255);not null"`
	Slug        string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	SKU         string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Colors      StringList      `gorm:"type:jsonb"`
	Sizes       StringList      `gorm:"type:jsonb"`
	IsActive    bool            `gorm:"not null;default:true"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with a generated SKU.
// The slug is derived from the name; the repository layer is responsible
// for de-duplicating it with a numeric suffix before persisting.
func NewProduct(name, description string, price decimal.Decimal, stock int, categoryID uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category is required")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              Slugify(name),
		SKU:               GenerateSKU(),
		Description:       description,
		Price:             price,
		Stock:             stock,
		IsActive:          true,
		CategoryID:        categoryID,
	}, nil
}

// Update changes the core product attributes
func (p *Product) Update(name, description string, price decimal.Decimal, categoryID uuid.UUID) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category is required")
	}

	if name != p.Name {
		p.Name = name
		p.Slug = Slugify(name)
	}
	p.Description = description
	p.Price = price
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetVariants replaces the available colors and sizes
func (p *Product) SetVariants(colors, sizes []string) {
	p.Colors = colors
	p.Sizes = sizes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStock sets the absolute stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Activate makes the product visible on the storefront
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// InStock reports whether at least quantity units are available
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a product name to a URL-safe slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

const skuAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSKU returns a random stock keeping unit like "SKU-7GQ2M9XD"
func GenerateSKU() string {
	var sb strings.Builder
	sb.WriteString("SKU-")
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(skuAlphabet))))
		if err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		sb.WriteByte(skuAlphabet[n.Int64()])
	}
	return sb.String()
}
