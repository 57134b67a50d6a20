package orderControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/middleware"
	"github.com/adrianfredes10/tienda-api/models"
)

func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func placeTestOrder(t *testing.T, db *gorm.DB, user *models.User, price float64, quantity int) *models.Order {
	t.Helper()
	product := seedProduct(t, db, "prod-"+uuid.New().String()[:8], price, quantity+10)
	addLine(t, db, user, product, quantity)
	order, err := PlaceOrder(db, user, PlaceOrderInput{PaymentMethod: "cash"})
	require.NoError(t, err)
	return order
}

func TestGetOrderStatsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	user := seedUser(t, db, models.RoleCustomer)

	placeTestOrder(t, db, user, 10, 2)           // total 20
	second := placeTestOrder(t, db, user, 30, 1) // total 30
	_, err := TransitionOrderStatus(db, second.ID, models.OrderStatusProcessing)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/api/ordenes/stats", GetOrderStats(db))

	rec, body := doRequest(t, router, http.MethodGet, "/api/ordenes/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, body["success"].(bool))

	data := body["data"].(map[string]interface{})
	totals := data["totals"].(map[string]interface{})
	assert.EqualValues(t, 2, totals["total_orders"])
	assert.EqualValues(t, 50, totals["total_revenue"])
	assert.EqualValues(t, 25, totals["average_sale"])

	byStatus := data["by_status"].([]interface{})
	assert.Len(t, byStatus, 2)
}

func TestGetOrderMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	user := seedUser(t, db, models.RoleCustomer)

	router := gin.New()
	router.GET("/api/ordenes/:id", asUser(user), GetOrder(db))

	rec, body := doRequest(t, router, http.MethodGet, "/api/ordenes/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body["success"].(bool))
}

func TestGetUserOrdersHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	owner := seedUser(t, db, models.RoleCustomer)
	stranger := seedUser(t, db, models.RoleCustomer)
	admin := seedUser(t, db, models.RoleAdmin)
	placeTestOrder(t, db, owner, 15, 1)

	newRouter := func(caller *models.User) *gin.Engine {
		router := gin.New()
		router.GET("/api/ordenes/user/:userId", asUser(caller), GetUserOrders(db))
		return router
	}

	t.Run("owner sees own orders", func(t *testing.T) {
		rec, body := doRequest(t, newRouter(owner), http.MethodGet, "/api/ordenes/user/"+owner.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("admin sees anyone's orders", func(t *testing.T) {
		rec, _ := doRequest(t, newRouter(admin), http.MethodGet, "/api/ordenes/user/"+owner.ID)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		rec, body := doRequest(t, newRouter(stranger), http.MethodGet, "/api/ordenes/user/"+owner.ID)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, body["success"].(bool))
	})
}
