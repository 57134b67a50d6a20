package cartControllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartTotals is the aggregated shape of GET /api/carrito/:usuarioId/total.
type CartTotals struct {
	Total         float64           `json:"total"`
	ItemCount     int               `json:"item_count"`
	TotalQuantity int               `json:"total_quantity"`
	Items         []CartLineSummary `json:"items"`
}

type CartLineSummary struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// loadCart fetches the cart for userID with product references resolved.
func loadCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.
		Preload("Items.Product.Category").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, apperr.FromDB(err, "carrito")
	}
	return &cart, nil
}

// addItem merges quantity into an existing line (re-validating stock against
// the merged quantity and refreshing the snapshot price) or appends a new
// line with the product's current price.
func addItem(db *gorm.DB, userID string, productID uint, quantity int) (*models.Cart, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil || !product.Active {
		return nil, apperr.NotFound("producto no encontrado o no disponible")
	}

	var cart models.Cart
	if err := db.First(&cart, "user_id = ?", userID).Error; err != nil {
		// Carts are created at registration; recover if one is missing.
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, apperr.Internal(err, "no se pudo crear el carrito")
		}
	}

	var line models.CartItem
	err := db.First(&line, "cart_id = ? AND product_id = ?", cart.ID, productID).Error
	switch {
	case err == nil:
		merged := line.Quantity + quantity
		if product.Stock < merged {
			return nil, apperr.BusinessRule(fmt.Sprintf("stock insuficiente, stock disponible: %d", product.Stock))
		}
		line.Quantity = merged
		line.Price = product.Price
		line.AddedAt = time.Now()
		if err := db.Save(&line).Error; err != nil {
			return nil, apperr.Internal(err, "no se pudo actualizar el carrito")
		}
	case err == gorm.ErrRecordNotFound:
		if product.Stock < quantity {
			return nil, apperr.BusinessRule(fmt.Sprintf("stock insuficiente, stock disponible: %d", product.Stock))
		}
		line = models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&line).Error; err != nil {
			return nil, apperr.Internal(err, "no se pudo agregar al carrito")
		}
	default:
		return nil, apperr.Internal(err, "error del servidor")
	}

	return loadCart(db, userID)
}

// updateItem sets an explicit quantity for an existing line, re-validating
// stock and refreshing the snapshot price.
func updateItem(db *gorm.DB, userID string, productID uint, quantity int) (*models.Cart, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperr.FromDB(err, "producto")
	}
	if product.Stock < quantity {
		return nil, apperr.BusinessRule(fmt.Sprintf("stock insuficiente, stock disponible: %d", product.Stock))
	}

	var cart models.Cart
	if err := db.First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, apperr.FromDB(err, "carrito")
	}

	result := db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Updates(map[string]interface{}{"quantity": quantity, "price": product.Price, "added_at": time.Now()})
	if result.Error != nil {
		return nil, apperr.Internal(result.Error, "no se pudo actualizar el carrito")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("el producto no está en el carrito")
	}

	return loadCart(db, userID)
}

// GET /api/carrito/:usuarioId (owner or admin)
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("usuarioId")
		if !middleware.IsOwnerOrAdmin(middleware.CurrentUser(c), userID) {
			respond.Err(c, apperr.Authorization("no autorizado para ver este carrito"))
			return
		}

		cart, err := loadCart(db, userID)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.OK(c, cart)
	}
}

// GET /api/carrito/:usuarioId/total (owner or admin)
func GetCartTotal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("usuarioId")
		if !middleware.IsOwnerOrAdmin(middleware.CurrentUser(c), userID) {
			respond.Err(c, apperr.Authorization("no autorizado para ver este carrito"))
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "carrito"))
			return
		}

		totals := CartTotals{Items: []CartLineSummary{}}
		for _, item := range cart.Items {
			subtotal := item.Price * float64(item.Quantity)
			totals.Total += subtotal
			totals.ItemCount++
			totals.TotalQuantity += item.Quantity
			totals.Items = append(totals.Items, CartLineSummary{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Subtotal:  subtotal,
			})
		}
		respond.OK(c, totals)
	}
}

// POST /api/carrito/:usuarioId (owner)
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("usuarioId")
		caller := middleware.CurrentUser(c)
		if caller == nil || caller.ID != userID {
			respond.Err(c, apperr.Authorization("no autorizado para modificar este carrito"))
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("proporcione product_id y cantidad mayor a 0"))
			return
		}

		cart, err := addItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.OK(c, cart)
	}
}

// PUT /api/carrito/:usuarioId/item/:productoId (owner)
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("usuarioId")
		caller := middleware.CurrentUser(c)
		if caller == nil || caller.ID != userID {
			respond.Err(c, apperr.Authorization("no autorizado para modificar este carrito"))
			return
		}

		productID, err := parseUintParam(c, "productoId")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("la cantidad debe ser mayor a 0"))
			return
		}

		cart, err := updateItem(db, userID, productID, input.Quantity)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.OK(c, cart)
	}
}

// DELETE /api/carrito/:usuarioId/item/:productoId (owner)
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("usuarioId")
		caller := middleware.CurrentUser(c)
		if caller == nil || caller.ID != userID {
			respond.Err(c, apperr.Authorization("no autorizado para modificar este carrito"))
			return
		}

		productID, err := parseUintParam(c, "productoId")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var cart models.Cart
		if err := db.First(&cart, "user_id = ?", userID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "carrito"))
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			respond.Err(c, apperr.Internal(result.Error, "no se pudo eliminar el producto"))
			return
		}
		if result.RowsAffected == 0 {
			respond.Err(c, apperr.NotFound("el producto no está en el carrito"))
			return
		}

		updated, err := loadCart(db, userID)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.Message(c, updated, "producto eliminado del carrito")
	}
}

// DELETE /api/carrito/:usuarioId (owner)
// Empties the line items; the cart row itself stays.
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("usuarioId")
		caller := middleware.CurrentUser(c)
		if caller == nil || caller.ID != userID {
			respond.Err(c, apperr.Authorization("no autorizado para modificar este carrito"))
			return
		}

		var cart models.Cart
		if err := db.First(&cart, "user_id = ?", userID).Error; err != nil {
			respond.Err(c, apperr.FromDB(err, "carrito"))
			return
		}

		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "no se pudo vaciar el carrito"))
			return
		}
		cart.Items = []models.CartItem{}
		respond.Message(c, cart, "carrito vaciado correctamente")
	}
}
