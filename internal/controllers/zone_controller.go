package controllers

import (
	"errors"
	"net/http"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ZoneController handles delivery-zone CRUD and the public zone check
type ZoneController interface {
	GetAllZones(c *gin.Context)
	CheckZone(c *gin.Context)
	CreateZone(c *gin.Context)
	UpdateZone(c *gin.Context)
	DeleteZone(c *gin.Context)
}

type zoneController struct {
	service services.ZoneService
}

// NewZoneController creates a new instance of ZoneController
func NewZoneController(service services.ZoneService) *zoneController {
	return &zoneController{service: service}
}

// GetAllZones godoc
// @Summary List delivery zones
// @Tags zones
// @Produce json
// @Success 200 {array} models.DeliveryZone
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/zones [get]
func (zc *zoneController) GetAllZones(ctx *gin.Context) {
	zones, err := zc.service.GetAllZones()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve zones"})
		return
	}
	ctx.JSON(http.StatusOK, zones)
}

// CheckZone godoc
// @Summary Check delivery availability for a postal code
// @Description Resolve a postal code to its delivery zone, or report the area as unavailable
// @Tags zones
// @Produce json
// @Param postal_code query string true "Postal code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/public/zones/check [get]
func (zc *zoneController) CheckZone(ctx *gin.Context) {
	postalCode := ctx.Query("postal_code")
	if postalCode == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Postal code is required"})
		return
	}

	zone, err := zc.service.Resolve(postalCode)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{
				"available": false,
				"message":   "Livraison non disponible pour ce code postal",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check delivery zone"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"available": true,
		"zone":      zone,
	})
}

// CreateZone godoc
// @Summary Create a delivery zone
// @Description Creates a zone; postal codes must not overlap another active zone
// @Tags zones
// @Accept json
// @Produce json
// @Param zone body models.DeliveryZone true "Zone object"
// @Success 201 {object} models.DeliveryZone
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/zones [post]
func (zc *zoneController) CreateZone(ctx *gin.Context) {
	var zone models.DeliveryZone
	if err := ctx.ShouldBindJSON(&zone); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := zc.service.CreateZone(zone)
	if err != nil {
		zc.writeZoneError(ctx, err, "Failed to create zone")
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateZone godoc
// @Summary Update a delivery zone
// @Tags zones
// @Accept json
// @Produce json
// @Param id path string true "Zone ID"
// @Param zone body models.DeliveryZone true "Zone object"
// @Success 200 {object} models.DeliveryZone
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/zones/{id} [put]
func (zc *zoneController) UpdateZone(ctx *gin.Context) {
	var zone models.DeliveryZone
	if err := ctx.ShouldBindJSON(&zone); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	zone.ID = ctx.Param("id")

	updated, err := zc.service.UpdateZone(zone)
	if err != nil {
		zc.writeZoneError(ctx, err, "Failed to update zone")
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteZone godoc
// @Summary Delete a delivery zone
// @Tags zones
// @Produce json
// @Param id path string true "Zone ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/zones/{id} [delete]
func (zc *zoneController) DeleteZone(ctx *gin.Context) {
	if err := zc.service.DeleteZone(ctx.Param("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete zone"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (zc *zoneController) writeZoneError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
	case errors.Is(err, services.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"code":  models.ErrZoneOverlap,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
