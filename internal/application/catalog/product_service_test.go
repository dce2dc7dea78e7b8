package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/catalog"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

func newProductService(
	productRepo *MockProductRepository,
	imageRepo *MockProductImageRepository,
	categoryRepo *MockCategoryRepository,
	imageStore *MockImageStore,
) *ProductService {
	return NewProductService(productRepo, imageRepo, categoryRepo, imageStore, zap.NewNop())
}

func TestProductService_Create_DeduplicatesSlug(t *testing.T) {
	productRepo := new(MockProductRepository)
	imageRepo := new(MockProductImageRepository)
	categoryRepo := new(MockCategoryRepository)
	imageStore := new(MockImageStore)
	service := newProductService(productRepo, imageRepo, categoryRepo, imageStore)

	category, err := catalog.NewCategory("Sneakers")
	require.NoError(t, err)

	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	productRepo.On("NextSlug", mock.Anything, "air-max-90").Return("air-max-90-2", nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(context.Background(), CreateProductRequest{
		Name:       "Air Max 90",
		Price:      decimal.NewFromInt(4500),
		Stock:      10,
		CategoryID: category.ID,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "air-max-90-2", resp.Slug)
	assert.Regexp(t, "^SKU-[A-Z0-9]{8}$", resp.SKU)
	productRepo.AssertExpectations(t)
}

func TestProductService_Create_UploadsImages(t *testing.T) {
	productRepo := new(MockProductRepository)
	imageRepo := new(MockProductImageRepository)
	categoryRepo := new(MockCategoryRepository)
	imageStore := new(MockImageStore)
	service := newProductService(productRepo, imageRepo, categoryRepo, imageStore)

	category, err := catalog.NewCategory("Sneakers")
	require.NoError(t, err)

	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	productRepo.On("NextSlug", mock.Anything, mock.Anything).Return("court-vision", nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
	imageStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 0
	}), []byte("img"), "image/png").Return("https://cdn.example.com/court.png", nil)
	imageRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ProductImage")).Return(nil)

	resp, err := service.Create(context.Background(), CreateProductRequest{
		Name:       "Court Vision",
		Price:      decimal.NewFromInt(3200),
		CategoryID: category.ID,
	}, []ImageUpload{{Filename: "court.png", ContentType: "image/png", Data: []byte("img")}})

	require.NoError(t, err)
	require.Len(t, resp.Images, 1)
	assert.Equal(t, "https://cdn.example.com/court.png", resp.Images[0].URL)
	imageStore.AssertExpectations(t)
	imageRepo.AssertExpectations(t)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	productRepo := new(MockProductRepository)
	imageRepo := new(MockProductImageRepository)
	categoryRepo := new(MockCategoryRepository)
	imageStore := new(MockImageStore)
	service := newProductService(productRepo, imageRepo, categoryRepo, imageStore)

	categoryID := uuid.New()
	categoryRepo.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

	_, err := service.Create(context.Background(), CreateProductRequest{
		Name:       "Air Max 90",
		Price:      decimal.NewFromInt(4500),
		CategoryID: categoryID,
	}, nil)

	require.Error(t, err)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_RemoveImage_WrongProduct(t *testing.T) {
	productRepo := new(MockProductRepository)
	imageRepo := new(MockProductImageRepository)
	categoryRepo := new(MockCategoryRepository)
	imageStore := new(MockImageStore)
	service := newProductService(productRepo, imageRepo, categoryRepo, imageStore)

	image, err := catalog.NewProductImage(uuid.New(), "products/x/a.jpg", "https://cdn.example.com/a.jpg", 0)
	require.NoError(t, err)

	imageRepo.On("FindByID", mock.Anything, image.ID).Return(image, nil)

	err = service.RemoveImage(context.Background(), uuid.New(), image.ID)

	require.Error(t, err)
	imageRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	imageStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
