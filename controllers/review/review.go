package reviewControllers

import (
	"math"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

type CreateReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required,max=500"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// -------- Core logic --------

// recomputeProductRating rewrites the product's derived aggregate fields
// from its current reviews. With zero reviews both fields reset to 0.
func recomputeProductRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		Avg   float64
		Count int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"avg_rating":   math.Round(agg.Avg*10) / 10,
			"review_count": agg.Count,
		}).Error
}

// hasVerifiedPurchase reports whether the user has a shipped or delivered
// order containing the product.
func hasVerifiedPurchase(db *gorm.DB, userID string, productID uint) (bool, error) {
	var n int64
	err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status IN ? AND order_items.product_id = ?",
			userID, []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusDelivered}, productID).
		Count(&n).Error
	return n > 0, err
}

// CreateReview persists a review and refreshes the product aggregate.
func CreateReview(db *gorm.DB, user *models.User, input CreateReviewInput) (*models.Review, error) {
	if strings.TrimSpace(input.Comment) == "" {
		return nil, apperr.Validation("proporcione producto, calificación y comentario")
	}

	var product models.Product
	if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
		return nil, apperr.FromDB(err, "producto")
	}

	var existing models.Review
	err := db.First(&existing, "user_id = ? AND product_id = ?", user.ID, input.ProductID).Error
	if err == nil {
		return nil, apperr.Conflict("ya has dejado una reseña para este producto")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperr.Internal(err, "error del servidor")
	}

	verified, err := hasVerifiedPurchase(db, user.ID, input.ProductID)
	if err != nil {
		return nil, apperr.Internal(err, "error del servidor")
	}

	review := models.Review{
		UserID:    user.ID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		Verified:  verified,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			// The unique (user, product) index closes the race the
			// existence check above leaves open.
			return apperr.FromDB(err, "reseña")
		}
		return recomputeProductRating(tx, input.ProductID)
	})
	if err != nil {
		return nil, err
	}

	var full models.Review
	if err := db.Preload("User").Preload("Product").First(&full, review.ID).Error; err != nil {
		return nil, apperr.Internal(err, "error del servidor")
	}
	return &full, nil
}

// UpdateReview applies a partial author-only edit and refreshes the
// product aggregate.
func UpdateReview(db *gorm.DB, user *models.User, reviewID uint, input UpdateReviewInput) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, apperr.FromDB(err, "reseña")
	}
	if review.UserID != user.ID {
		return nil, apperr.Authorization("no autorizado para actualizar esta reseña")
	}

	updates := make(map[string]interface{})
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, apperr.Validation("la calificación debe estar entre 1 y 5")
		}
		updates["rating"] = *input.Rating
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if comment == "" || len(comment) > 500 {
			return nil, apperr.Validation("el comentario no puede estar vacío ni exceder 500 caracteres")
		}
		updates["comment"] = comment
	}

	if len(updates) > 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&review).Updates(updates).Error; err != nil {
				return apperr.Internal(err, "no se pudo actualizar la reseña")
			}
			return recomputeProductRating(tx, review.ProductID)
		})
		if err != nil {
			return nil, err
		}
	}

	var full models.Review
	if err := db.Preload("User").Preload("Product").First(&full, review.ID).Error; err != nil {
		return nil, apperr.Internal(err, "error del servidor")
	}
	return &full, nil
}

// DeleteReview removes a review (author or admin) and refreshes the
// product aggregate.
func DeleteReview(db *gorm.DB, user *models.User, reviewID uint) error {
	var review models.Review
	if err := db.First(&review, "id = ?", reviewID).Error; err != nil {
		return apperr.FromDB(err, "reseña")
	}
	if !middleware.IsOwnerOrAdmin(user, review.UserID) {
		return apperr.Authorization("no autorizado para eliminar esta reseña")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return apperr.Internal(err, "no se pudo eliminar la reseña")
		}
		return recomputeProductRating(tx, review.ProductID)
	})
}

// -------- Handlers --------

// POST /api/resenas
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("proporcione producto, calificación (1-5) y comentario"))
			return
		}

		review, err := CreateReview(db, middleware.CurrentUser(c), input)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.Created(c, review)
	}
}

// PUT /api/resenas/:id
func UpdateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var input UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("datos inválidos: "+err.Error()))
			return
		}

		review, err := UpdateReview(db, middleware.CurrentUser(c), reviewID, input)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.OK(c, review)
	}
}

// DELETE /api/resenas/:id
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		if err := DeleteReview(db, middleware.CurrentUser(c), reviewID); err != nil {
			respond.Err(c, err)
			return
		}
		respond.Message(c, gin.H{}, "reseña eliminada correctamente")
	}
}

// GET /api/resenas/me
func GetMyReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var reviews []models.Review
		err := db.
			Where("user_id = ?", user.ID).
			Preload("Product").
			Order("created_at DESC").
			Find(&reviews).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, reviews, len(reviews))
	}
}
