package market

import (
	"context"
	"strconv"

	"github.com/samvad-hq/market-contract-tests/internal/domain"
)

// ProductService covers the products resource.
type ProductService interface {
	GetProducts(ctx context.Context) (*Response[[]domain.Product], error)
	GetProduct(ctx context.Context, id int) (*Response[domain.Product], error)
	CreateProduct(ctx context.Context, p domain.Product) (*Response[domain.Product], error)
	UpdateProduct(ctx context.Context, p domain.Product) (*Response[domain.Product], error)
	// DeleteProduct has no typed success payload; the server returns no content.
	DeleteProduct(ctx context.Context, id int) (*Response[RawBody], error)
}

// CategoryService covers the categories resource.
type CategoryService interface {
	GetCategory(ctx context.Context, id int) (*Response[domain.Category], error)
}

type productService struct {
	c *Client
}

func (s *productService) GetProducts(ctx context.Context) (*Response[[]domain.Product], error) {
	return call[[]domain.Product](ctx, s.c, EndpointGetProducts, nil, nil)
}

func (s *productService) GetProduct(ctx context.Context, id int) (*Response[domain.Product], error) {
	return call[domain.Product](ctx, s.c, EndpointGetProduct, idParam(id), nil)
}

func (s *productService) CreateProduct(ctx context.Context, p domain.Product) (*Response[domain.Product], error) {
	return call[domain.Product](ctx, s.c, EndpointCreateProduct, nil, p)
}

func (s *productService) UpdateProduct(ctx context.Context, p domain.Product) (*Response[domain.Product], error) {
	return call[domain.Product](ctx, s.c, EndpointUpdateProduct, nil, p)
}

func (s *productService) DeleteProduct(ctx context.Context, id int) (*Response[RawBody], error) {
	return call[RawBody](ctx, s.c, EndpointDeleteProduct, idParam(id), nil)
}

type categoryService struct {
	c *Client
}

func (s *categoryService) GetCategory(ctx context.Context, id int) (*Response[domain.Category], error) {
	return call[domain.Category](ctx, s.c, EndpointGetCategory, idParam(id), nil)
}

func idParam(id int) map[string]string {
	return map[string]string{"id": strconv.Itoa(id)}
}
