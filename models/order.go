package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting processing
	OrderStatusProcessing OrderStatus = "processing" // being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // terminal
	OrderStatusCancelled  OrderStatus = "cancelled"  // terminal

	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentMercadoPago PaymentMethod = "mercadopago"
)

// ParseOrderStatus maps a request string to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusProcessing):
		return OrderStatusProcessing, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// ParsePaymentMethod maps a request string to a PaymentMethod.
func ParsePaymentMethod(method string) (PaymentMethod, error) {
	switch strings.ToLower(method) {
	case string(PaymentCash):
		return PaymentCash, nil
	case string(PaymentCard):
		return PaymentCard, nil
	case string(PaymentTransfer):
		return PaymentTransfer, nil
	case string(PaymentMercadoPago):
		return PaymentMercadoPago, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// CanTransitionTo reports whether the status graph allows moving to next.
// pending -> processing|cancelled, processing -> shipped|cancelled,
// shipped -> delivered; delivered and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing || next == OrderStatusCancelled
	case OrderStatusProcessing:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// Cancellable reports whether the order may still be cancelled by its owner.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// Items are frozen at creation time even if products later change.
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total           float64       `gorm:"not null;check:total >= 0" json:"total"`
	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	PaymentMethod   PaymentMethod `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes           string        `json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"index" json:"-"`
	ProductID uint     `gorm:"not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Name      string   `json:"name"` // product name snapshot
	Quantity  int      `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"` // unit price snapshot from the cart
	Subtotal  float64  `gorm:"not null" json:"subtotal"`
}
