package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/filter"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/service"
)

// CatalogService is the read API used by CatalogController.
type CatalogService interface {
	Filter(ctx context.Context, criteria filter.Criteria) (*service.CatalogView, error)
	CategoryPage(ctx context.Context, id uuid.UUID) (*service.CategoryPage, error)
	Featured(ctx context.Context) ([]model.CategoryCount, error)
	AdminProducts(ctx context.Context, categoryID, search string) (*service.CatalogView, error)
}

// CatalogController serves the public catalog and the admin product table.
type CatalogController struct {
	catalogService CatalogService
}

func NewCatalogController(catalogService CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CatalogRequest holds the catalog query parameters.
type CatalogRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	SaleType string `form:"sale_type"`
	Brand    string `form:"brand"`
}

// CatalogResponse is a filtered product listing.
type CatalogResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Count    int               `json:"count"`
	Brands   []string          `json:"brands,omitempty"`
}

// BrandGroupResponse is a run of products sharing a brand.
type BrandGroupResponse struct {
	Brand    string            `json:"brand"`
	Products []ProductResponse `json:"products"`
}

// CategoryPageResponse lists one category's products grouped by brand.
type CategoryPageResponse struct {
	Category CategoryResponse     `json:"category"`
	Groups   []BrandGroupResponse `json:"groups"`
	Count    int                  `json:"count"`
}

// AdminProductsRequest holds the admin table filters.
type AdminProductsRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// AdminStats summarizes the admin table.
type AdminStats struct {
	TotalProducts   int `json:"total_products"`
	TotalCategories int `json:"total_categories"`
	Filtered        int `json:"filtered"`
}

// AdminProductsResponse is the admin product table.
type AdminProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Stats    AdminStats        `json:"stats"`
}

// Catalog handles GET /api/catalog.
func (cc *CatalogController) Catalog(c *gin.Context) {
	var req CatalogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saleType, err := filter.ParseSaleType(req.SaleType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := cc.catalogService.Filter(c.Request.Context(), filter.Criteria{
		CategoryID: req.Category,
		Search:     req.Search,
		SaleType:   saleType,
		Brand:      req.Brand,
	})
	if err != nil {
		respondError(c, err, "failed to load catalog")
		return
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Products: toProductResponses(view.Products),
		Total:    view.Total,
		Count:    view.Count,
		Brands:   view.Brands,
	})
}

// CategoryPage handles GET /api/catalog/categories/:id.
func (cc *CatalogController) CategoryPage(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	page, err := cc.catalogService.CategoryPage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to load category")
		return
	}

	groups := make([]BrandGroupResponse, 0, len(page.Groups))
	for _, g := range page.Groups {
		groups = append(groups, BrandGroupResponse{Brand: g.Brand, Products: toProductResponses(g.Products)})
	}
	c.JSON(http.StatusOK, CategoryPageResponse{
		Category: toCategoryResponse(&page.Category),
		Groups:   groups,
		Count:    page.Count,
	})
}

// Featured handles GET /api/categories/featured.
func (cc *CatalogController) Featured(c *gin.Context) {
	featured, err := cc.catalogService.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load featured categories")
		return
	}

	out := make([]CategoryResponse, 0, len(featured))
	for i := range featured {
		resp := toCategoryResponse(&featured[i].Category)
		resp.Count = &featured[i].Count
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// AdminProducts handles GET /api/admin/products.
func (cc *CatalogController) AdminProducts(c *gin.Context) {
	var req AdminProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := cc.catalogService.AdminProducts(c.Request.Context(), req.Category, req.Search)
	if err != nil {
		respondError(c, err, "failed to list products")
		return
	}

	c.JSON(http.StatusOK, AdminProductsResponse{
		Products: toProductResponses(view.Products),
		Stats: AdminStats{
			TotalProducts:   view.Total,
			TotalCategories: view.TotalCategories,
			Filtered:        view.Count,
		},
	})
}
