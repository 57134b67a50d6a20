package reviewControllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

// ReviewStats is the star histogram for one product.
type ReviewStats struct {
	AvgRating float64 `json:"avg_rating"`
	Total     int     `json:"total"`
	Five      int     `json:"five"`
	Four      int     `json:"four"`
	Three     int     `json:"three"`
	Two       int     `json:"two"`
	One       int     `json:"one"`
}

// TopProduct is one row of the top-rated report.
type TopProduct struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	CategoryName string  `json:"category_name"`
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int     `json:"total_reviews"`
}

// GET /api/resenas
func GetReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		err := db.
			Preload("User").
			Preload("Product.Category").
			Order("created_at DESC").
			Find(&reviews).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, reviews, len(reviews))
	}
}

// GET /api/resenas/top?min_resenas=
// Active products ranked by average rating with a minimum-review floor.
func GetTopRatedProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		minReviews := 1
		if v := c.Query("min_resenas"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				respond.Err(c, apperr.Validation("min_resenas inválido"))
				return
			}
			minReviews = n
		}

		var top []TopProduct
		err := db.Model(&models.Review{}).
			Select("reviews.product_id, products.name, products.price, products.image, categories.name AS category_name, ROUND(AVG(reviews.rating), 1) AS avg_rating, COUNT(*) AS total_reviews").
			Joins("JOIN products ON products.id = reviews.product_id AND products.active = ?", true).
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Group("reviews.product_id, products.name, products.price, products.image, categories.name").
			Having("COUNT(*) >= ?", minReviews).
			Order("avg_rating DESC, total_reviews DESC").
			Limit(20).
			Scan(&top).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, top, len(top))
	}
}

// GET /api/resenas/product/:productId
// Review list plus the star histogram for the product.
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseUintParam(c, "productId")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var reviews []models.Review
		err = db.
			Where("product_id = ?", productID).
			Preload("User").
			Order("created_at DESC").
			Find(&reviews).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		var stats ReviewStats
		err = db.Model(&models.Review{}).
			Select(`COALESCE(AVG(rating), 0) AS avg_rating,
				COUNT(*) AS total,
				COALESCE(SUM(CASE WHEN rating = 5 THEN 1 ELSE 0 END), 0) AS five,
				COALESCE(SUM(CASE WHEN rating = 4 THEN 1 ELSE 0 END), 0) AS four,
				COALESCE(SUM(CASE WHEN rating = 3 THEN 1 ELSE 0 END), 0) AS three,
				COALESCE(SUM(CASE WHEN rating = 2 THEN 1 ELSE 0 END), 0) AS two,
				COALESCE(SUM(CASE WHEN rating = 1 THEN 1 ELSE 0 END), 0) AS one`).
			Where("product_id = ?", productID).
			Scan(&stats).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		respond.List(c, gin.H{"stats": stats, "reviews": reviews}, len(reviews))
	}
}

// GET /api/resenas/:id
func GetReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var review models.Review
		err = db.
			Preload("User").
			Preload("Product").
			First(&review, "id = ?", reviewID).Error
		if err != nil {
			respond.Err(c, apperr.FromDB(err, "reseña"))
			return
		}
		respond.OK(c, review)
	}
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("identificador inválido: " + name)
	}
	return uint(v), nil
}
