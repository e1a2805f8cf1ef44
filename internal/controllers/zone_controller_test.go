package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bellanapoli/pizzeria-api/internal/middleware"
	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *apiFixture) zoneRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewZoneController(services.NewZoneService(f.db))

	router.GET("/api/v1/public/zones/check", controller.CheckZone)

	zones := router.Group("/api/v1/protected/zones")
	zones.Use(middleware.JWTAuth([]byte(testJWTSecret)))
	{
		zones.GET("", controller.GetAllZones)
		zones.POST("", controller.CreateZone)
		zones.PUT("/:id", controller.UpdateZone)
		zones.DELETE("/:id", controller.DeleteZone)
	}
	return router
}

func TestCheckZoneEndpoint(t *testing.T) {
	fixture := setupAPIFixture(t)
	router := fixture.zoneRouter()

	t.Run("missing postal code", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/public/zones/check", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("served postal code", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/public/zones/check?postal_code=1003", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Available bool                `json:"available"`
			Zone      models.DeliveryZone `json:"zone"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Available)
		assert.Equal(t, 5.00, resp.Zone.DeliveryFee)
		assert.Equal(t, 20.00, resp.Zone.MinOrderAmount)
	})

	t.Run("unserved postal code", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/public/zones/check?postal_code=8001", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Available bool   `json:"available"`
			Message   string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Available)
		assert.Equal(t, "Livraison non disponible pour ce code postal", resp.Message)
	})
}

func TestZoneManagementEndpoints(t *testing.T) {
	fixture := setupAPIFixture(t)
	router := fixture.zoneRouter()

	// any authenticated caller manages zones, role is not checked
	token := signTestToken(t, 7, models.RoleCustomer, "")

	t.Run("requires authentication", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/protected/zones", "", map[string]interface{}{
			"canton": "Vaud", "postal_codes": []string{"1020"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/protected/zones", token, map[string]interface{}{
			"canton":       "Vaud",
			"postal_codes": []string{"1020", "1022"},
			"delivery_fee": 6.00,
			"is_active":    true,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var zone models.DeliveryZone
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &zone))
		assert.NotEmpty(t, zone.ID)
	})

	t.Run("overlap with the seeded zone conflicts", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/protected/zones", token, map[string]interface{}{
			"canton":       "Vaud",
			"postal_codes": []string{"1003"},
			"delivery_fee": 6.00,
			"is_active":    true,
		})
		require.Equal(t, http.StatusConflict, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.ErrZoneOverlap, resp["code"])
	})

	t.Run("invalid zone", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/protected/zones", token, map[string]interface{}{
			"canton": "Vaud",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update missing zone", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/v1/protected/zones/missing", token, map[string]interface{}{
			"canton":       "Vaud",
			"postal_codes": []string{"1030"},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list and delete", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/protected/zones", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var zones []models.DeliveryZone
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &zones))
		require.NotEmpty(t, zones)

		w = doJSON(router, http.MethodDelete, "/api/v1/protected/zones/"+zones[0].ID, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, http.MethodDelete, "/api/v1/protected/zones/"+zones[0].ID, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
