package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mistika/internal/domain/model"
	repo "mistika/internal/repository"
)

type categoryRepoMock struct{ mock.Mock }

func (m *categoryRepoMock) List(ctx context.Context, q repo.CategoryListQuery) ([]model.Category, int64, error) {
	args := m.Called(ctx, q)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Get(1).(int64), args.Error(2)
}

func (m *categoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *categoryRepoMock) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *categoryRepoMock) FindByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *categoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *categoryRepoMock) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *categoryRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *categoryRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

const defaultCategoryID = int64(10)

func newProductTestBed() (*ProductUsecase, *productRepoMock, *categoryRepoMock) {
	products := &productRepoMock{}
	categories := &categoryRepoMock{}
	uc := NewProductUsecase(products, categories, defaultCategoryID)
	return uc, products, categories
}

func TestProductCreateFallsBackToDefaultCategory(t *testing.T) {
	uc, products, _ := newProductTestBed()

	var saved model.Product
	products.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(model.Product) }).
		Return(model.Product{ID: 3}, nil)
	products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{ID: 3, Name: "Vela Lavanda", CategoryID: defaultCategoryID}, nil)

	price := 199.0
	out, err := uc.Create(context.Background(), CreateProductInput{Name: "Vela Lavanda", Price: &price})
	require.NoError(t, err)

	assert.Equal(t, defaultCategoryID, saved.CategoryID)
	assert.True(t, saved.IsActive)
	assert.Equal(t, int64(3), out.ID)
}

func TestProductCreateResolvesCategoryByName(t *testing.T) {
	uc, products, categories := newProductTestBed()

	categories.On("FindByName", mock.Anything, "Velas").Return(model.Category{ID: 4, Name: "Velas"}, nil)

	var saved model.Product
	products.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(model.Product) }).
		Return(model.Product{ID: 8}, nil)
	products.On("FindByID", mock.Anything, int64(8)).Return(model.Product{ID: 8}, nil)

	_, err := uc.Create(context.Background(), CreateProductInput{Name: "Vela", CategoryName: "Velas"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), saved.CategoryID)
}

// Test: 名前でヒットしなければデフォルトカテゴリに落ちる
func TestProductCreateUnknownCategoryNameFallsBack(t *testing.T) {
	uc, products, categories := newProductTestBed()

	categories.On("FindByName", mock.Anything, "Inexistente").Return(model.Category{}, repo.ErrNotFound)

	var saved model.Product
	products.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(model.Product) }).
		Return(model.Product{ID: 9}, nil)
	products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)

	_, err := uc.Create(context.Background(), CreateProductInput{Name: "Vela", CategoryName: "Inexistente"})
	require.NoError(t, err)
	assert.Equal(t, defaultCategoryID, saved.CategoryID)
}

func TestProductCreateInvalidCategoryID(t *testing.T) {
	uc, products, categories := newProductTestBed()

	badID := int64(999)
	categories.On("FindByID", mock.Anything, badID).Return(model.Category{}, repo.ErrNotFound)

	_, err := uc.Create(context.Background(), CreateProductInput{Name: "Vela", CategoryID: &badID})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Invalid categoryId", he.Message)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductCreateRequiresName(t *testing.T) {
	uc, _, _ := newProductTestBed()

	_, err := uc.Create(context.Background(), CreateProductInput{Name: "   "})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestProductUpdateBuildsFieldMap(t *testing.T) {
	uc, products, _ := newProductTestBed()

	var fields map[string]interface{}
	products.On("Update", mock.Anything, int64(5), mock.Anything).
		Run(func(args mock.Arguments) { fields = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	products.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5}, nil)

	price := 249.0
	onSale := true
	_, err := uc.Update(context.Background(), 5, UpdateProductInput{Price: &price, IsOnSale: &onSale})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"price": 249.0, "is_on_sale": true}, fields)
}

func TestProductGetNotFound(t *testing.T) {
	uc, products, _ := newProductTestBed()

	products.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), 404)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Product not found", he.Message)
}

func TestProductDeleteMissing(t *testing.T) {
	uc, products, _ := newProductTestBed()

	products.On("Delete", mock.Anything, int64(404)).Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), 404)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
