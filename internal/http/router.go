package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
)

// Controllers groups the handlers mounted by InitRouter.
type Controllers struct {
	Base       *controller.Controller
	Products   *controller.ProductController
	Categories *controller.CategoryController
	Catalog    *controller.CatalogController
	Uploads    *controller.UploadController
}

func InitRouter(conf *config.Config, server *gin.Engine, ctrls Controllers) *gin.Engine {
	// Recovery goes first so panics in other middleware are caught too.
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS(conf.CORSOrigins))

	server.GET("/ping", ctrls.Base.Ping)

	api := server.Group("/api")
	{
		api.GET("/categories", ctrls.Categories.ListCategories)
		api.GET("/categories/featured", ctrls.Catalog.Featured)
		api.GET("/catalog", ctrls.Catalog.Catalog)
		api.GET("/catalog/categories/:id", ctrls.Catalog.CategoryPage)
		api.GET("/products", ctrls.Products.ListProducts)
	}

	admin := api.Group("/admin", middleware.AdminAuth(conf.AdminToken))
	{
		products := admin.Group("/products")
		products.GET("", ctrls.Catalog.AdminProducts)
		products.GET("/:id", ctrls.Products.GetProduct)
		products.POST("", ctrls.Products.CreateProduct)
		products.PUT("/:id", ctrls.Products.UpdateProduct)
		products.DELETE("/:id", ctrls.Products.DeleteProduct)

		categories := admin.Group("/categories")
		categories.POST("", ctrls.Categories.CreateCategory)
		categories.PUT("/:id", ctrls.Categories.UpdateCategory)
		categories.DELETE("/:id", ctrls.Categories.DeleteCategory)

		admin.POST("/upload", ctrls.Uploads.UploadImage)
		admin.DELETE("/images", ctrls.Uploads.DeleteImage)
	}

	return server
}
