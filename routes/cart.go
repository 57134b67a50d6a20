package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/adrianfredes10/tienda-api/controllers/cart"
	"github.com/adrianfredes10/tienda-api/middleware"
)

// SetupCartRoutes registers /api/carrito endpoints. All require auth; the
// ownership checks live in the handlers.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/carrito")
	cart.Use(middleware.Authenticate(db))
	{
		cart.GET("/:usuarioId", cartControllers.GetCart(db))
		cart.GET("/:usuarioId/total", cartControllers.GetCartTotal(db))
		cart.POST("/:usuarioId", cartControllers.AddToCart(db))
		cart.PUT("/:usuarioId/item/:productoId", cartControllers.UpdateCartItem(db))
		cart.DELETE("/:usuarioId/item/:productoId", cartControllers.RemoveFromCart(db))
		cart.DELETE("/:usuarioId", cartControllers.ClearCart(db))
	}
}
