package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
)

// CategoryService is the category API used by CategoryController.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// CategoryController handles HTTP requests for category operations.
type CategoryController struct {
	categoryService CategoryService
}

func NewCategoryController(categoryService CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// CategoryRequest is the body of category create and update requests.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse represents the response body for a category.
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Count     *int   `json:"count,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListCategories handles GET /api/categories.
func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list categories")
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// CreateCategory handles POST /api/admin/categories.
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := cc.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory handles PUT /api/admin/categories/:id.
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := cc.categoryService.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/admin/categories/:id. Categories with products yield 409.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	if err := cc.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}

func toCategoryResponse(category *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}
