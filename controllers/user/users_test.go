package userControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adrianfredes10/tienda-api/auth"
	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
	))
	return db
}

func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func do(t *testing.T, router *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: "hash",
		Role:     role,
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return &user
}

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	router := gin.New()
	router.POST("/api/users", Register(db))

	rec, body := do(t, router, http.MethodPost, "/api/users", gin.H{
		"name":     "María González",
		"email":    "  Maria@Example.COM ",
		"password": "secreto123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "maria@example.com", data["email"])
	assert.Equal(t, string(models.RoleCustomer), data["role"])
	assert.NotEmpty(t, data["token"])

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)
	assert.NotEqual(t, "secreto123", user.Password)

	var cart models.Cart
	assert.NoError(t, db.First(&cart, "user_id = ?", user.ID).Error)

	t.Run("duplicate email", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/users", gin.H{
			"name":     "Otra María",
			"email":    "maria@example.com",
			"password": "secreto123",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, body["success"].(bool))

		var n int64
		require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
		assert.EqualValues(t, 1, n)
	})

	t.Run("short password", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPost, "/api/users", gin.H{
			"name":     "Corto",
			"email":    "corto@example.com",
			"password": "123",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPost, "/api/users", gin.H{
			"name":     "Raro",
			"email":    "raro@example.com",
			"password": "secreto123",
			"role":     "superuser",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "clave-de-prueba")
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)

	hash, err := auth.HashPassword("secreto123")
	require.NoError(t, err)
	user := models.User{
		ID: uuid.New().String(), Name: "Pedro Ruiz", Email: "pedro@example.com",
		Password: hash, Role: models.RoleCustomer, Active: true,
	}
	require.NoError(t, db.Create(&user).Error)

	router := gin.New()
	router.POST("/api/users/login", Login(db))

	t.Run("valid credentials", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/users/login", gin.H{
			"email": "Pedro@Example.com", "password": "secreto123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, user.ID, data["id"])
		assert.NotEmpty(t, data["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPost, "/api/users/login", gin.H{
			"email": "pedro@example.com", "password": "equivocada",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPost, "/api/users/login", gin.H{
			"email": "nadie@example.com", "password": "secreto123",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSearchUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	seedUser(t, db, "Marta Díaz", "marta@example.com", models.RoleCustomer)
	seedUser(t, db, "Martín Vega", "martin@example.com", models.RoleCustomer)
	seedUser(t, db, "Laura Bravo", "laura@example.com", models.RoleCustomer)

	router := gin.New()
	router.GET("/api/users/buscar", SearchUsers(db))

	t.Run("case-insensitive match on name", func(t *testing.T) {
		rec, body := do(t, router, http.MethodGet, "/api/users/buscar?termino=MART", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 2, body["count"])
	})

	t.Run("match on email", func(t *testing.T) {
		rec, body := do(t, router, http.MethodGet, "/api/users/buscar?termino=laura@", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("missing term", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodGet, "/api/users/buscar?termino=", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	user := seedUser(t, db, "Clara Fuentes", "clara@example.com", models.RoleCustomer)
	other := seedUser(t, db, "Hugo Sáez", "hugo@example.com", models.RoleCustomer)
	admin := seedUser(t, db, "Admin", "admin@example.com", models.RoleAdmin)

	newRouter := func(caller *models.User) *gin.Engine {
		router := gin.New()
		router.PUT("/api/users/:id", asUser(caller), UpdateUser(db))
		return router
	}

	t.Run("owner updates own profile", func(t *testing.T) {
		rec, _ := do(t, newRouter(user), http.MethodPut, "/api/users/"+user.ID, gin.H{
			"phone":   "+56911112222",
			"address": gin.H{"street": "Calle Nueva 5", "city": "Concepción", "country": "Chile"},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var reloaded models.User
		require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
		assert.Equal(t, "+56911112222", reloaded.Phone)
		assert.Equal(t, "Concepción", reloaded.Address.City)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		rec, _ := do(t, newRouter(other), http.MethodPut, "/api/users/"+user.ID, gin.H{"name": "Hackeada"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner cannot change own role", func(t *testing.T) {
		rec, _ := do(t, newRouter(user), http.MethodPut, "/api/users/"+user.ID, gin.H{"role": "admin"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin changes a role", func(t *testing.T) {
		rec, _ := do(t, newRouter(admin), http.MethodPut, "/api/users/"+user.ID, gin.H{"role": "admin"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reloaded models.User
		require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
		assert.Equal(t, models.RoleAdmin, reloaded.Role)
	})
}

func TestDeleteUserRemovesCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	user := seedUser(t, db, "Borrable", "borrable@example.com", models.RoleCustomer)

	router := gin.New()
	router.DELETE("/api/users/:id", DeleteUser(db))

	rec, _ := do(t, router, http.MethodDelete, "/api/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users, carts int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users).Error)
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.Zero(t, users)
	assert.Zero(t, carts)
}
