package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reviewControllers "github.com/adrianfredes10/tienda-api/controllers/review"
	"github.com/adrianfredes10/tienda-api/middleware"
)

// SetupReviewRoutes registers /api/resenas endpoints.
func SetupReviewRoutes(api *gin.RouterGroup, db *gorm.DB) {
	reviews := api.Group("/resenas")
	{
		// Public
		reviews.GET("", reviewControllers.GetReviews(db))
		reviews.GET("/top", reviewControllers.GetTopRatedProducts(db))
		reviews.GET("/product/:productId", reviewControllers.GetProductReviews(db))

		// Authenticated
		authed := reviews.Group("")
		authed.Use(middleware.Authenticate(db))
		{
			authed.GET("/me", reviewControllers.GetMyReviews(db))
			authed.POST("", reviewControllers.CreateReviewHandler(db))
			authed.PUT("/:id", reviewControllers.UpdateReviewHandler(db))
			authed.DELETE("/:id", reviewControllers.DeleteReviewHandler(db))
		}

		// After /top, /product and /me so the static routes resolve first.
		reviews.GET("/:id", reviewControllers.GetReview(db))
	}
}
