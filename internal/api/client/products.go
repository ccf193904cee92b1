package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jasurbekn/narxly/internal/catalog"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

// ProductPage is one page of the catalog as returned by the API.
type ProductPage struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	HasMore  bool             `json:"hasMore"`
}

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(
	ctx context.Context,
	page, limit int,
	search, category string,
) (*ProductPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if search != "" {
		q.Set("search", search)
	}
	if category != "" {
		q.Set("category", category)
	}

	path := "/api/products"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result ProductPage
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProduct fetches a single product by its stable id.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, "/api/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// categoriesResponse wraps the categories list.
type categoriesResponse struct {
	Categories []catalog.CategoryCount `json:"categories"`
}

// ListCategories fetches per-category product counts.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.CategoryCount, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "/api/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}
