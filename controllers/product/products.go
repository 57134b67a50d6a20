package productControllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

type CreateProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	Brand       string  `json:"brand"`
	Image       string  `json:"image"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *uint    `json:"category_id"`
	Brand       *string  `json:"brand"`
	Image       *string  `json:"image"`
	Active      *bool    `json:"active"`
}

// GET /api/productos
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.
			Where("active = ?", true).
			Preload("Category").
			Order("created_at DESC").
			Find(&products).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, products, len(products))
	}
}

// GET /api/productos/filtro?precio_min=&precio_max=&marca=
func FilterProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("active = ?", true)

		if min := c.Query("precio_min"); min != "" {
			v, err := strconv.ParseFloat(min, 64)
			if err != nil {
				respond.Err(c, apperr.Validation("precio_min inválido"))
				return
			}
			query = query.Where("price >= ?", v)
		}
		if max := c.Query("precio_max"); max != "" {
			v, err := strconv.ParseFloat(max, 64)
			if err != nil {
				respond.Err(c, apperr.Validation("precio_max inválido"))
				return
			}
			query = query.Where("price <= ?", v)
		}
		if brand := c.Query("marca"); brand != "" {
			query = query.Where("brand = ?", brand)
		}

		var products []models.Product
		if err := query.Preload("Category").Order("price").Find(&products).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, products, len(products))
	}
}

// GET /api/productos/top
// Most reviewed active products, rating as tiebreaker.
func TopReviewedProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.
			Where("active = ? AND review_count > 0", true).
			Preload("Category").
			Order("review_count DESC, avg_rating DESC").
			Limit(10).
			Find(&products).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, products, len(products))
	}
}

// GET /api/productos/:id
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var product models.Product
		if err := db.Preload("Category").First(&product, "id = ?", productID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "producto"))
			return
		}
		respond.OK(c, product)
	}
}

// POST /api/productos (admin)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("datos de producto inválidos: "+err.Error()))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", input.CategoryID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "categoría"))
			return
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Stock:       input.Stock,
			CategoryID:  input.CategoryID,
			Brand:       input.Brand,
			Image:       input.Image,
			Active:      true,
		}
		if err := db.Create(&product).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "no se pudo crear el producto"))
			return
		}

		product.Category = &category
		respond.Created(c, product)
	}
}

// PUT /api/productos/:id (admin)
// AvgRating and ReviewCount are derived fields and not updatable here.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "producto"))
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("datos de producto inválidos: "+err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if *input.Price < 0 {
				respond.Err(c, apperr.Validation("el precio no puede ser negativo"))
				return
			}
			updates["price"] = *input.Price
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, "id = ?", *input.CategoryID).Error; err != nil {
				respond.Err(c, apperr.FromDB(err, "categoría"))
				return
			}
			updates["category_id"] = *input.CategoryID
		}
		if input.Brand != nil {
			updates["brand"] = *input.Brand
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}
		if input.Active != nil {
			updates["active"] = *input.Active
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				respond.Err(c, apperr.Internal(err, "no se pudo actualizar el producto"))
				return
			}
		}

		respond.OK(c, product)
	}
}

// DELETE /api/productos/:id (admin)
// Soft delete: the product is marked inactive so order history keeps
// resolving.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "producto"))
			return
		}

		if err := db.Model(&product).Update("active", false).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "no se pudo desactivar el producto"))
			return
		}

		respond.Message(c, gin.H{}, "producto desactivado correctamente")
	}
}
