package orderControllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

// StatusStat is one row of the per-status order report.
type StatusStat struct {
	Status  models.OrderStatus `json:"status"`
	Count   int                `json:"count"`
	Revenue float64            `json:"revenue"`
}

// OrderTotals aggregates across all orders.
type OrderTotals struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	AverageSale  float64 `json:"average_sale"`
}

// GET /api/ordenes/stats (admin)
func GetOrderStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var byStatus []StatusStat
		err := db.Model(&models.Order{}).
			Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
			Group("status").
			Order("count DESC").
			Scan(&byStatus).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		var totals OrderTotals
		err = db.Model(&models.Order{}).
			Select("COUNT(*) AS total_orders, COALESCE(SUM(total), 0) AS total_revenue, COALESCE(AVG(total), 0) AS average_sale").
			Scan(&totals).Error
		if err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		respond.OK(c, gin.H{"by_status": byStatus, "totals": totals})
	}
}
