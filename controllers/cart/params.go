package cartControllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adrianfredes10/tienda-api/apperr"
)

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("identificador inválido: " + name)
	}
	return uint(v), nil
}
