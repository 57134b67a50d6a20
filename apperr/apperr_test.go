package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("campo inválido"), http.StatusBadRequest},
		{Conflict("duplicado"), http.StatusBadRequest},
		{BusinessRule("regla de negocio"), http.StatusBadRequest},
		{NotFound("no existe"), http.StatusNotFound},
		{Authentication("sin credenciales"), http.StatusUnauthorized},
		{Authorization("sin permiso"), http.StatusForbidden},
		{Internal(errors.New("boom"), "error del servidor"), http.StatusInternalServerError},
		{errors.New("error cualquiera"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "error: %v", tc.err)
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	inner := NotFound("producto no encontrado")
	assert.Equal(t, KindNotFound, KindOf(inner))

	var e *Error
	assert.True(t, errors.As(inner, &e))
	assert.Equal(t, "producto no encontrado", e.Message)
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "producto"))

	err := FromDB(gorm.ErrRecordNotFound, "producto")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "producto no encontrado", err.Error())

	err = FromDB(gorm.ErrDuplicatedKey, "email")
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "email ya existe en la base de datos", err.Error())

	err = FromDB(gorm.ErrDuplicatedKey, "reseña")
	assert.Equal(t, "reseña ya existe en la base de datos", err.Error())

	err = FromDB(errors.New("disco lleno"), "producto")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "error del servidor", err.Error())
}

func TestInternalPreservesCause(t *testing.T) {
	cause := errors.New("conexión perdida")
	err := Internal(cause, "error del servidor")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "error del servidor", err.Error())
}
