package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/adrianfredes10/tienda-api/controllers/order"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
)

// SetupOrderRoutes registers /api/ordenes endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/ordenes")
	orders.Use(middleware.Authenticate(db))
	{
		orders.POST("", orderControllers.PlaceOrderHandler(db))
		orders.GET("", middleware.RequireRole(models.RoleAdmin), orderControllers.GetOrders(db))
		orders.GET("/stats", middleware.RequireRole(models.RoleAdmin), orderControllers.GetOrderStats(db))
		orders.GET("/ws", middleware.RequireRole(models.RoleAdmin), orderControllers.OrderFeedHandler)
		orders.GET("/user/:userId", orderControllers.GetUserOrders(db))
		orders.GET("/:id", orderControllers.GetOrder(db))
		orders.PATCH("/:id/status", middleware.RequireRole(models.RoleAdmin), orderControllers.UpdateOrderStatusHandler(db))
		orders.DELETE("/:id", orderControllers.CancelOrderHandler(db))
	}
}
