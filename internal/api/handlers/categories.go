package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jasurbekn/narxly/internal/catalog"
)

// CategoriesHandler serves per-category product counts for the storefront's
// category cards.
type CategoriesHandler struct {
	service *catalog.Service
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(svc *catalog.Service) *CategoriesHandler {
	return &CategoriesHandler{service: svc}
}

// ListCategoriesOutput is the response for listing categories.
type ListCategoriesOutput struct {
	Body struct {
		Categories []catalog.CategoryCount `json:"categories"`
	}
}

// ListCategories returns every category present in the catalog with its
// product count.
func (h *CategoriesHandler) ListCategories(
	ctx context.Context,
	_ *struct{},
) (*ListCategoriesOutput, error) {
	resp := &ListCategoriesOutput{}
	resp.Body.Categories = h.service.Categories(ctx)
	if resp.Body.Categories == nil {
		resp.Body.Categories = []catalog.CategoryCount{}
	}
	return resp, nil
}

// RegisterCategoryRoutes registers category endpoints with the Huma API.
func RegisterCategoryRoutes(api huma.API, h *CategoriesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/categories",
		Summary:     "List categories",
		Description: "Returns every category present in the catalog with its product count.",
		Tags:        []string{"categories"},
	}, h.ListCategories)
}
