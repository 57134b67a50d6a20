package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

// GET /api/productos/export (admin)
// Streams the full catalog as an Excel workbook.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Order("id").Find(&products).Error; err != nil {
			respond.Err(c, apperr.Internal(err, "error del servidor"))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Productos")
		if err != nil {
			respond.Err(c, apperr.Internal(err, "no se pudo generar el archivo"))
			return
		}

		headers := []string{
			"ID", "Nombre", "Descripción", "Precio", "Stock", "Categoría",
			"Marca", "Activo", "Calificación", "Reseñas", "Creado",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Stock)
			if p.Category != nil {
				row.AddCell().SetValue(p.Category.Name)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(p.Brand)
			row.AddCell().SetValue(p.Active)
			row.AddCell().SetValue(p.AvgRating)
			row.AddCell().SetValue(p.ReviewCount)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=productos.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	}
}
