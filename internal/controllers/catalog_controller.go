package controllers

import (
	"errors"
	"net/http"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogController serves the customizer's supporting data and the admin
// topping management
type CatalogController interface {
	GetCategories(c *gin.Context)
	GetSizes(c *gin.Context)
	GetCrustTypes(c *gin.Context)
	GetToppings(c *gin.Context)
	CreateTopping(c *gin.Context)
	UpdateTopping(c *gin.Context)
	DeleteTopping(c *gin.Context)
}

type catalogController struct {
	service services.CatalogService
}

// NewCatalogController creates a new instance of CatalogController
func NewCatalogController(service services.CatalogService) *catalogController {
	return &catalogController{service: service}
}

// GetCategories godoc
// @Summary List active menu categories
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/categories [get]
func (cc *catalogController) GetCategories(ctx *gin.Context) {
	categories, err := cc.service.GetCategories()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// GetSizes godoc
// @Summary List pizza sizes
// @Tags catalog
// @Produce json
// @Success 200 {array} models.PizzaSize
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/sizes [get]
func (cc *catalogController) GetSizes(ctx *gin.Context) {
	sizes, err := cc.service.GetSizes()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sizes"})
		return
	}
	ctx.JSON(http.StatusOK, sizes)
}

// GetCrustTypes godoc
// @Summary List crust types
// @Tags catalog
// @Produce json
// @Success 200 {array} models.CrustType
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/crusts [get]
func (cc *catalogController) GetCrustTypes(ctx *gin.Context) {
	crusts, err := cc.service.GetCrustTypes()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crust types"})
		return
	}
	ctx.JSON(http.StatusOK, crusts)
}

// GetToppings godoc
// @Summary List toppings
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Topping
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/toppings [get]
func (cc *catalogController) GetToppings(ctx *gin.Context) {
	toppings, err := cc.service.GetToppings()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve toppings"})
		return
	}
	ctx.JSON(http.StatusOK, toppings)
}

// CreateTopping godoc
// @Summary Create a topping
// @Tags catalog
// @Accept json
// @Produce json
// @Param topping body models.Topping true "Topping object"
// @Success 201 {object} models.Topping
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/toppings [post]
func (cc *catalogController) CreateTopping(ctx *gin.Context) {
	var topping models.Topping
	if err := ctx.ShouldBindJSON(&topping); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := cc.service.CreateTopping(topping)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create topping"})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdateTopping godoc
// @Summary Update a topping
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Topping ID"
// @Param topping body models.Topping true "Topping object"
// @Success 200 {object} models.Topping
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/toppings/{id} [put]
func (cc *catalogController) UpdateTopping(ctx *gin.Context) {
	var topping models.Topping
	if err := ctx.ShouldBindJSON(&topping); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	topping.ID = ctx.Param("id")

	updated, err := cc.service.UpdateTopping(topping)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Topping not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update topping"})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteTopping godoc
// @Summary Delete a topping
// @Tags catalog
// @Produce json
// @Param id path string true "Topping ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/toppings/{id} [delete]
func (cc *catalogController) DeleteTopping(ctx *gin.Context) {
	if err := cc.service.DeleteTopping(ctx.Param("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Topping not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete topping"})
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
