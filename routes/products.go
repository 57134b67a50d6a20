package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/adrianfredes10/tienda-api/controllers/product"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
)

// SetupProductRoutes registers /api/productos endpoints.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB) {
	products := api.Group("/productos")
	{
		// Public
		products.GET("", productControllers.GetProducts(db))
		products.GET("/filtro", productControllers.FilterProducts(db))
		products.GET("/top", productControllers.TopReviewedProducts(db))

		// Admin
		admin := products.Group("")
		admin.Use(middleware.Authenticate(db), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/export", productControllers.ExportProductsToExcel(db))
			admin.POST("", productControllers.CreateProduct(db))
			admin.PUT("/:id", productControllers.UpdateProduct(db))
			admin.PATCH("/:id/stock", productControllers.UpdateStock(db))
			admin.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		// Registered after the static routes so /filtro, /top and /export
		// resolve first.
		products.GET("/:id", productControllers.GetProduct(db))
	}
}
