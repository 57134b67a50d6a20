package orderControllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

// -------- Request structs --------

type PlaceOrderInput struct {
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ShippingAddress *models.Address `json:"shipping_address"`
	Notes           string          `json:"notes"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// -------- Core logic --------

// PlaceOrder turns the caller's cart into a pending order. Everything runs
// in one transaction: validation of every line, the order insert, the stock
// decrements and the cart clear either all land or none do.
func PlaceOrder(db *gorm.DB, user *models.User, input PlaceOrderInput) (*models.Order, error) {
	method, err := models.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, apperr.Validation("método de pago inválido, use: cash, card, transfer o mercadopago")
	}

	var orderID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").First(&cart, "user_id = ?", user.ID).Error; err != nil {
			return apperr.FromDB(err, "carrito")
		}
		if len(cart.Items) == 0 {
			return apperr.BusinessRule("el carrito está vacío")
		}

		// Check every line before any write so a late failure cannot leave
		// partial state.
		for _, item := range cart.Items {
			if item.Product == nil || !item.Product.Active {
				name := "desconocido"
				if item.Product != nil {
					name = item.Product.Name
				}
				return apperr.BusinessRule(fmt.Sprintf("el producto %s no está disponible", name))
			}
			if item.Product.Stock < item.Quantity {
				return apperr.BusinessRule(fmt.Sprintf("stock insuficiente para %s, disponible: %d", item.Product.Name, item.Product.Stock))
			}
		}

		// Snapshot the lines: name and price are frozen here and do not
		// track later product changes.
		items := make([]models.OrderItem, 0, len(cart.Items))
		var total float64
		for _, item := range cart.Items {
			subtotal := item.Price * float64(item.Quantity)
			total += subtotal
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Product.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Subtotal:  subtotal,
			})
		}

		shipping := user.Address
		if input.ShippingAddress != nil && !input.ShippingAddress.IsZero() {
			shipping = *input.ShippingAddress
		}

		order := models.Order{
			UserID:          user.ID,
			Items:           items,
			Total:           total,
			Status:          models.OrderStatusPending,
			PaymentMethod:   method,
			ShippingAddress: shipping,
			Notes:           input.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperr.Internal(errors.Wrap(err, "crear pedido"), "no se pudo crear el pedido")
		}

		// Conditional decrement: the stock >= quantity guard rides in the
		// same UPDATE, so a concurrent placement loses here instead of
		// overselling.
		for _, item := range cart.Items {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return apperr.Internal(errors.Wrap(result.Error, "descontar stock"), "no se pudo actualizar el stock")
			}
			if result.RowsAffected == 0 {
				return apperr.BusinessRule(fmt.Sprintf("stock insuficiente para %s", item.Product.Name))
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return apperr.Internal(errors.Wrap(err, "vaciar carrito"), "no se pudo vaciar el carrito")
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var placed models.Order
	if err := db.Preload("User").Preload("Items.Product").First(&placed, orderID).Error; err != nil {
		return nil, apperr.Internal(err, "error del servidor")
	}
	return &placed, nil
}

// CancelOrder cancels a pending or processing order and restores the
// snapshotted quantities to product stock, all in one transaction.
func CancelOrder(db *gorm.DB, user *models.User, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return apperr.FromDB(err, "pedido")
		}
		if !middleware.IsOwnerOrAdmin(user, order.UserID) {
			return apperr.Authorization("no autorizado para cancelar este pedido")
		}
		if !order.Status.Cancellable() {
			return apperr.BusinessRule(fmt.Sprintf("no se puede cancelar un pedido en estado: %s", order.Status))
		}

		for _, item := range order.Items {
			result := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if result.Error != nil {
				return apperr.Internal(errors.Wrap(result.Error, "devolver stock"), "no se pudo devolver el stock")
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return apperr.Internal(err, "no se pudo cancelar el pedido")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionOrderStatus applies an admin status change, enforcing the
// transition graph on this path as well as on cancellation.
func TransitionOrderStatus(db *gorm.DB, orderID uint, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return apperr.FromDB(err, "pedido")
		}
		if !order.Status.CanTransitionTo(next) {
			return apperr.BusinessRule(fmt.Sprintf("transición de estado inválida: %s -> %s", order.Status, next))
		}

		// Cancelling through this path restores stock like the cancel
		// endpoint does.
		if next == models.OrderStatusCancelled {
			for _, item := range order.Items {
				result := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
				if result.Error != nil {
					return apperr.Internal(result.Error, "no se pudo devolver el stock")
				}
			}
		}

		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return apperr.Internal(err, "no se pudo actualizar el estado")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /api/ordenes
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("el método de pago es obligatorio"))
			return
		}

		order, err := PlaceOrder(db, middleware.CurrentUser(c), input)
		if err != nil {
			respond.Err(c, err)
			return
		}

		broadcastOrderEvent("order_placed", order)
		respond.Created(c, order)
	}
}

// GET /api/ordenes (admin)
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		err := db.
			Preload("User").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, orders, len(orders))
	}
}

// GET /api/ordenes/user/:userId (owner or admin)
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !middleware.IsOwnerOrAdmin(middleware.CurrentUser(c), userID) {
			respond.Err(c, apperr.Authorization("no autorizado para ver estos pedidos"))
			return
		}

		var orders []models.Order
		err := db.
			Where("user_id = ?", userID).
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}
		respond.List(c, orders, len(orders))
	}
}

// GET /api/ordenes/:id (owner or admin)
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var order models.Order
		err = db.
			Preload("User").
			Preload("Items.Product").
			First(&order, "id = ?", orderID).Error
		if err != nil {
			respond.Err(c, apperr.FromDB(err, "pedido"))
			return
		}
		if !middleware.IsOwnerOrAdmin(middleware.CurrentUser(c), order.UserID) {
			respond.Err(c, apperr.Authorization("no autorizado para ver este pedido"))
			return
		}
		respond.OK(c, order)
	}
}

// PATCH /api/ordenes/:id/status (admin)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Err(c, apperr.Validation("el estado es obligatorio"))
			return
		}
		next, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			respond.Err(c, apperr.Validation("estado inválido, estados válidos: pending, processing, shipped, delivered, cancelled"))
			return
		}

		order, err := TransitionOrderStatus(db, orderID, next)
		if err != nil {
			respond.Err(c, err)
			return
		}

		broadcastOrderEvent("status_changed", order)
		respond.Message(c, order, fmt.Sprintf("estado actualizado a: %s", next))
	}
}

// DELETE /api/ordenes/:id (owner or admin)
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseUintParam(c, "id")
		if err != nil {
			respond.Err(c, err)
			return
		}

		order, err := CancelOrder(db, middleware.CurrentUser(c), orderID)
		if err != nil {
			respond.Err(c, err)
			return
		}

		broadcastOrderEvent("order_cancelled", order)
		respond.Message(c, order, "pedido cancelado correctamente")
	}
}
