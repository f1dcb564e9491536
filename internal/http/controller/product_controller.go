package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/service"
)

// ProductService is the product API used by ProductController.
type ProductService interface {
	CreateProduct(ctx context.Context, in service.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in service.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, query repository.Query) ([]model.Product, error)
}

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductRequest is the body of product create and update requests.
type ProductRequest struct {
	Name       string  `json:"name" binding:"required"`
	Price      Price   `json:"price"`
	PricePerKg Price   `json:"price_per_kg"`
	Unit       *string `json:"unit"`
	Brand      *string `json:"brand"`
	CategoryID string  `json:"category_id" binding:"required"`
	ImageURL   *string `json:"image_url"`
}

func (r ProductRequest) toInput() (service.ProductInput, bool) {
	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return service.ProductInput{}, false
	}
	return service.ProductInput{
		Name:       r.Name,
		Price:      r.Price.NullDecimal,
		PricePerKg: r.PricePerKg.NullDecimal,
		Unit:       r.Unit,
		Brand:      r.Brand,
		CategoryID: categoryID,
		ImageURL:   r.ImageURL,
	}, true
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        *string `json:"price"`
	PricePerKg   *string `json:"price_per_kg"`
	Unit         *string `json:"unit"`
	Brand        *string `json:"brand"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	ImageURL     *string `json:"image_url"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func (pc *ProductController) bindProduct(c *gin.Context) (service.ProductInput, bool) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.ProductInput{}, false
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return service.ProductInput{}, false
	}
	return in, true
}

// CreateProduct handles POST /api/admin/products.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	in, ok := pc.bindProduct(c)
	if !ok {
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /api/admin/products/:id.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}
	in, ok := pc.bindProduct(c)
	if !ok {
		return
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// GetProduct handles GET /api/admin/products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get product")
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

// ListProductsRequest represents the query parameters for listing products.
type ListProductsRequest struct {
	Limit int32  `form:"limit"`
	Token string `form:"token"`
}

// ListProductsResponse represents the response body for listing products.
type ListProductsResponse struct {
	Products      []ProductResponse `json:"products"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

// ListProducts handles the HTTP GET request for listing products with pagination.
func (pc *ProductController) ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := repository.NewQuery()
	if err := query.ApplyPagination(req.Limit, req.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := pc.productService.ListProducts(c.Request.Context(), *query)
	if err != nil {
		respondError(c, err, "failed to list products")
		return
	}

	response := ListProductsResponse{
		Products: toProductResponses(products),
	}

	// A short page is the last one.
	if len(products) > 0 && len(products) == query.Limit {
		last := products[len(products)-1]
		paginator := repository.Paginator{
			LastName: last.Name,
			LastID:   last.ID,
		}
		response.NextPageToken = paginator.Encode()
	}

	c.JSON(http.StatusOK, response)
}

func toProductResponses(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID.String(),
		Name:         product.Name,
		Price:        formatPrice(product.Price),
		PricePerKg:   formatPrice(product.PricePerKg),
		Unit:         product.Unit,
		Brand:        product.Brand,
		CategoryID:   product.CategoryID.String(),
		CategoryName: product.CategoryName,
		ImageURL:     product.ImageURL,
		CreatedAt:    product.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    product.UpdatedAt.Format(time.RFC3339),
	}
}
