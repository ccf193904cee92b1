// Package handlers implements HTTP handlers for the narxly API.
package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jasurbekn/narxly/internal/catalog"
	domain "github.com/jasurbekn/narxly/pkg/types"
)

// ProductsHandler handles catalog query endpoints.
type ProductsHandler struct {
	service *catalog.Service
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(svc *catalog.Service) *ProductsHandler {
	return &ProductsHandler{service: svc}
}

// --- Input/Output types ---

// ListProductsInput is the input for listing catalog products.
type ListProductsInput struct {
	Page     int    `query:"page"     doc:"Page number (default 1)"              minimum:"0"`
	Limit    int    `query:"limit"    doc:"Products per page (default 12)"       minimum:"0" maximum:"100"`
	Search   string `query:"search"   doc:"Case-insensitive substring match against name and category"`
	Category string `query:"category" doc:"Category filter; empty or 'all' matches everything" example:"smartphones"`
}

// ListProductsOutput is the response for listing catalog products.
type ListProductsOutput struct {
	Body struct {
		Products []domain.Product `json:"products"`
		Total    int              `json:"total"`
		Page     int              `json:"page"`
		Limit    int              `json:"limit"`
		HasMore  bool             `json:"hasMore"`
	}
}

// GetProductInput is the input for getting a single product.
type GetProductInput struct {
	ID string `path:"id" doc:"Stable product id" example:"prod-c21hcnRmb24gcmVk"`
}

// GetProductOutput is the response for getting a single product.
type GetProductOutput struct {
	Body domain.Product
}

// --- Handlers ---

// ListProducts returns one page of the merged catalog with optional search
// and category filters.
func (h *ProductsHandler) ListProducts(
	ctx context.Context,
	input *ListProductsInput,
) (*ListProductsOutput, error) {
	result := h.service.List(ctx, catalog.ListQuery{
		Page:     input.Page,
		Limit:    input.Limit,
		Search:   input.Search,
		Category: input.Category,
	})

	resp := &ListProductsOutput{}
	resp.Body.Products = result.Products
	resp.Body.Total = result.Total
	resp.Body.Page = result.Page
	resp.Body.Limit = result.Limit
	resp.Body.HasMore = result.HasMore

	if resp.Body.Products == nil {
		resp.Body.Products = []domain.Product{}
	}

	return resp, nil
}

// GetProduct returns a single product by its stable id.
func (h *ProductsHandler) GetProduct(
	ctx context.Context,
	input *GetProductInput,
) (*GetProductOutput, error) {
	product, ok := h.service.GetByID(ctx, input.ID)
	if !ok {
		return nil, huma.Error404NotFound("product not found")
	}

	return &GetProductOutput{Body: product}, nil
}

// RegisterProductRoutes registers catalog endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/products",
		Summary:     "List products",
		Description: "Returns one page of the merged catalog with optional search and category filters.",
		Tags:        []string{"products"},
	}, h.ListProducts)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/products/{id}",
		Summary:     "Get a product by id",
		Description: "Returns a single canonical product by its stable id.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetProduct)
}
