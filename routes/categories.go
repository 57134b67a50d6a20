package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	categoryControllers "github.com/adrianfredes10/tienda-api/controllers/category"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
)

// SetupCategoryRoutes registers /api/categorias endpoints.
func SetupCategoryRoutes(api *gin.RouterGroup, db *gorm.DB) {
	categories := api.Group("/categorias")
	{
		// Public
		categories.GET("", categoryControllers.GetCategories(db))

		// Admin
		admin := categories.Group("")
		admin.Use(middleware.Authenticate(db), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/stats", categoryControllers.GetCategoryStats(db))
			admin.POST("", categoryControllers.CreateCategory(db))
			admin.PUT("/:id", categoryControllers.UpdateCategory(db))
			admin.DELETE("/:id", categoryControllers.DeleteCategory(db))
		}

		categories.GET("/:id", categoryControllers.GetCategory(db))
	}
}
