package categoryControllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// CategoryStat is one row of the per-category product count report.
type CategoryStat struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"product_count"`
}

// GET /api/categorias
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("active = ?", true).Order("name").Find(&categories).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, categories, len(categories))
	}
}

// GET /api/categorias/stats (admin)
// Active product count per active category, outer-joined so empty
// categories still show with zero.
func GetCategoryStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats []CategoryStat
		err := db.Model(&models.Category{}).
			Select("categories.id, categories.name, categories.description, COUNT(products.id) AS product_count").
			Joins("LEFT JOIN products ON products.category_id = categories.id AND products.active = ?", true).
			Where("categories.active = ?", true).
			Group("categories.id, categories.name, categories.description").
			Order("product_count DESC").
			Scan(&stats).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		total := 0
		for _, s := range stats {
			total += s.ProductCount
		}

		respond.List(c, gin.H{"categories": stats, "total_products": total}, len(stats))
	}
}

// GET /api/categorias/:id
// Includes the category's active products.
func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var category models.Category
		err = db.
			Preload("Products", "active = ?", true).
			First(&category, "id = ?", categoryID).Error
		if err != nil {
			respond.Err(c, apperr.FromDB(err, "categoría"))
			return
		}
		respond.OK(c, category)
	}
}

// POST /api/categorias (admin)
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("el nombre es obligatorio"))
			return
		}

		category := models.Category{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Active:      true,
		}
		if category.Name == "" {
			respond.Err(c, apperr.Validation("el nombre es obligatorio"))
			return
		}

		if err := db.Create(&category).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "nombre"))
			return
		}
		respond.Created(c, category)
	}
}

// PUT /api/categorias/:id (admin)
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", categoryID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "categoría"))
			return
		}

		var input UpdateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("datos inválidos: "+err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				respond.Err(c, apperr.Validation("el nombre es obligatorio"))
				return
			}
			updates["name"] = name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Active != nil {
			updates["active"] = *input.Active
		}

		if len(updates) > 0 {
			if err := db.Model(&category).Updates(updates).Error; err != nil {
				respond.Err(c, apperr.FromDB(err, "nombre"))
				return
			}
		}

		respond.OK(c, category)
	}
}

// DELETE /api/categorias/:id (admin)
// Refused while any active product still references the category.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", categoryID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "categoría"))
			return
		}

		var count int64
		err = db.Model(&models.Product{}).
			Where("category_id = ? AND active = ?", category.ID, true).
			Count(&count).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		if count > 0 {
			respond.Err(c, apperr.BusinessRule("no se puede eliminar: hay productos usando esta categoría"))
			return
		}

		if err := db.Delete(&category).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "no se pudo eliminar la categoría"))
			return
		}
		respond.Message(c, gin.H{}, "categoría eliminada correctamente")
	}
}
