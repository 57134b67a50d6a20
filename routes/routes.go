package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/respond"
)

// SetupRoutes is the single entry point that wires up every resource family
// under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/", func(c *gin.Context) {
		respond.Message(c, gin.H{
			"usuarios":   "/api/users",
			"productos":  "/api/productos",
			"categorias": "/api/categorias",
			"carrito":    "/api/carrito",
			"ordenes":    "/api/ordenes",
			"resenas":    "/api/resenas",
		}, "API E-commerce")
	})

	api := r.Group("/api")

	SetupUserRoutes(api, db)
	SetupProductRoutes(api, db)
	SetupCategoryRoutes(api, db)
	SetupCartRoutes(api, db)
	SetupOrderRoutes(api, db)
	SetupReviewRoutes(api, db)
}
