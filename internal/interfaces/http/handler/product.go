package handler

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/muhohoweb/shoe-app/internal/application/catalog"
	"github.com/muhohoweb/shoe-app/internal/interfaces/http/middleware"
)

// maxImagesPerUpload bounds how many files one request may attach
const maxImagesPerUpload = 8

// ProductHandler handles product management endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductForm is the multipart form for creating a product.
// Images are uploaded alongside the fields under the "images" key.
type CreateProductForm struct {
	Name        string   `form:"name" binding:"required,min=1,max=255"`
	Description string   `form:"description" binding:"max=5000"`
	Price       string   `form:"price" binding:"required"`
	Stock       int      `form:"stock" binding:"min=0"`
	CategoryID  string   `form:"category_id" binding:"required,uuid"`
	Colors      []string `form:"colors"`
	Sizes       []string `form:"sizes"`
}

// UpdateProductForm is the multipart form for updating a product.
// Empty fields are left unchanged.
type UpdateProductForm struct {
	Name        string   `form:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `form:"description" binding:"omitempty,max=5000"`
	Price       string   `form:"price"`
	Stock       *int     `form:"stock" binding:"omitempty,min=0"`
	CategoryID  string   `form:"category_id" binding:"omitempty,uuid"`
	Colors      []string `form:"colors"`
	Sizes       []string `form:"sizes"`
	IsActive    *bool    `form:"is_active"`
}

// Create creates a product from a multipart form, including images
func (h *ProductHandler) Create(c *gin.Context) {
	var form CreateProductForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		h.BadRequest(c, "Invalid price format")
		return
	}
	categoryID, err := uuid.Parse(form.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	images, err := h.readImages(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	req := catalogapp.CreateProductRequest{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Stock:       form.Stock,
		CategoryID:  categoryID,
		Colors:      form.Colors,
		Sizes:       form.Sizes,
	}

	product, err := h.productService.Create(c.Request.Context(), req, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID retrieves a product by its ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetBySlug retrieves a product by its URL slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing product slug")
		return
	}

	product, err := h.productService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns a paginated list of products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Update modifies a product from a multipart form; newly uploaded
// images are appended after the existing ones
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var form UpdateProductForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	req := catalogapp.UpdateProductRequest{
		Description: form.Description,
		Stock:       form.Stock,
		Colors:      form.Colors,
		Sizes:       form.Sizes,
		IsActive:    form.IsActive,
	}
	if form.Name != "" {
		req.Name = &form.Name
	}
	if form.Price != "" {
		price, err := decimal.NewFromString(form.Price)
		if err != nil {
			h.BadRequest(c, "Invalid price format")
			return
		}
		req.Price = &price
	}
	if form.CategoryID != "" {
		categoryID, err := uuid.Parse(form.CategoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category ID format")
			return
		}
		req.CategoryID = &categoryID
	}

	images, err := h.readImages(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product and its stored images
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveImage detaches a single image from a product
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID format")
		return
	}

	if err := h.productService.RemoveImage(c.Request.Context(), productID, imageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// readImages collects uploaded files under the "images" multipart key.
// Requests without a multipart body simply yield no images.
func (h *ProductHandler) readImages(c *gin.Context) ([]catalogapp.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["images"]
	if len(files) > maxImagesPerUpload {
		files = files[:maxImagesPerUpload]
	}

	uploads := make([]catalogapp.ImageUpload, 0, len(files))
	for _, file := range files {
		data, err := readMultipartFile(file)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, catalogapp.ImageUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
