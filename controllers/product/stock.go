package productControllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

type StockInput struct {
	Stock     int    `json:"stock" binding:"required,gt=0"`
	Operation string `json:"operation" binding:"required"`
}

// PATCH /api/productos/:id/stock (admin)
// Operations: incrementar, decrementar, establecer. Stock never goes
// negative: a decrement larger than the current stock is rejected.
func UpdateStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var input StockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("proporcione stock y operación (incrementar/decrementar/establecer)"))
			return
		}

		var product models.Product
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				return apperr.FromDB(err, "producto")
			}

			switch input.Operation {
			case "incrementar":
				product.Stock += input.Stock
			case "decrementar":
				if product.Stock < input.Stock {
					return apperr.BusinessRule("el stock no puede ser negativo")
				}
				product.Stock -= input.Stock
			case "establecer":
				product.Stock = input.Stock
			default:
				return apperr.Validation("operación inválida, use: incrementar, decrementar o establecer")
			}

			return tx.Model(&product).Update("stock", product.Stock).Error
		})
		if err != nil {
			respond.Err(c, err)
			return
		}

		respond.OK(c, product)
	}
}
