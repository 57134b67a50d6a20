package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/adrianfredes10/tienda-api/controllers/user"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
)

// SetupUserRoutes registers /api/users endpoints.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	users := api.Group("/users")
	{
		// Public
		users.POST("", userControllers.Register(db))
		users.POST("/login", userControllers.Login(db))

		// Authenticated
		authed := users.Group("")
		authed.Use(middleware.Authenticate(db))
		{
			authed.GET("/me", userControllers.Profile(db))
			authed.GET("", middleware.RequireRole(models.RoleAdmin), userControllers.GetUsers(db))
			authed.GET("/buscar", middleware.RequireRole(models.RoleAdmin), userControllers.SearchUsers(db))
			authed.GET("/:id", userControllers.GetUser(db))
			authed.PUT("/:id", userControllers.UpdateUser(db))
			authed.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), userControllers.DeleteUser(db))
		}
	}
}
