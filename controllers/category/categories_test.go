package categoryControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adrianfredes10/tienda-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/categorias", GetCategories(db))
	router.GET("/api/categorias/stats", GetCategoryStats(db))
	router.GET("/api/categorias/:id", GetCategory(db))
	router.POST("/api/categorias", CreateCategory(db))
	router.PUT("/api/categorias/:id", UpdateCategory(db))
	router.DELETE("/api/categorias/:id", DeleteCategory(db))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func seedCategory(t *testing.T, db *gorm.DB, name string, active bool) *models.Category {
	t.Helper()
	category := models.Category{Name: name, Active: active}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func seedProduct(t *testing.T, db *gorm.DB, category *models.Category, name string, active bool) *models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: 10, Stock: 5, CategoryID: category.ID, Active: active}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestCreateCategory(t *testing.T) {
	db := openTestDB(t)
	router := newRouter(db)

	rec, body := do(t, router, http.MethodPost, "/api/categorias", gin.H{"name": "  Electrónica  "})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body["success"].(bool))
	assert.Equal(t, "Electrónica", body["data"].(map[string]interface{})["name"])

	t.Run("duplicate name", func(t *testing.T) {
		rec, body := do(t, router, http.MethodPost, "/api/categorias", gin.H{"name": "Electrónica"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, body["success"].(bool))
	})

	t.Run("blank name", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPost, "/api/categorias", gin.H{"name": "   "})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetCategoriesListsOnlyActive(t *testing.T) {
	db := openTestDB(t)
	router := newRouter(db)
	seedCategory(t, db, "Hogar", true)
	seedCategory(t, db, "Archivada", false)

	rec, body := do(t, router, http.MethodGet, "/api/categorias", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestGetCategoryStats(t *testing.T) {
	db := openTestDB(t)
	router := newRouter(db)

	full := seedCategory(t, db, "Deportes", true)
	seedProduct(t, db, full, "Pelota", true)
	seedProduct(t, db, full, "Raqueta", true)
	seedProduct(t, db, full, "Descatalogado", false)
	empty := seedCategory(t, db, "Vacía", true)

	rec, body := do(t, router, http.MethodGet, "/api/categorias/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["total_products"])

	rows := data["categories"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Deportes", first["name"])
	assert.EqualValues(t, 2, first["product_count"])

	second := rows[1].(map[string]interface{})
	assert.Equal(t, empty.Name, second["name"])
	assert.EqualValues(t, 0, second["product_count"])
}

func TestUpdateCategory(t *testing.T) {
	db := openTestDB(t)
	router := newRouter(db)
	category := seedCategory(t, db, "Libros", true)

	rec, _ := do(t, router, http.MethodPut, fmt.Sprintf("/api/categorias/%d", category.ID),
		gin.H{"description": "Lectura y papelería", "active": false})
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded models.Category
	require.NoError(t, db.First(&reloaded, category.ID).Error)
	assert.Equal(t, "Lectura y papelería", reloaded.Description)
	assert.False(t, reloaded.Active)

	t.Run("missing category", func(t *testing.T) {
		rec, _ := do(t, router, http.MethodPut, "/api/categorias/9999", gin.H{"name": "Nada"})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMalformedCategoryID(t *testing.T) {
	db := openTestDB(t)
	router := newRouter(db)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/categorias/abc"},
		{http.MethodPut, "/api/categorias/abc"},
		{http.MethodDelete, "/api/categorias/abc"},
	}
	for _, tc := range cases {
		rec, body := do(t, router, tc.method, tc.path, gin.H{"name": "X"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", tc.method, tc.path)
		assert.False(t, body["success"].(bool))
	}
}

func TestDeleteCategoryGuard(t *testing.T) {
	db := openTestDB(t)
	router := newRouter(db)

	category := seedCategory(t, db, "Jardín", true)
	product := seedProduct(t, db, category, "Pala", true)

	t.Run("refused with active products", func(t *testing.T) {
		rec, body := do(t, router, http.MethodDelete, fmt.Sprintf("/api/categorias/%d", category.ID), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, body["success"].(bool))
	})

	t.Run("allowed once products are inactive", func(t *testing.T) {
		require.NoError(t, db.Model(product).Update("active", false).Error)

		rec, _ := do(t, router, http.MethodDelete, fmt.Sprintf("/api/categorias/%d", category.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var n int64
		require.NoError(t, db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&n).Error)
		assert.Zero(t, n)
	})
}
