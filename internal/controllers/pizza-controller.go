package controllers

import (
	"errors"
	"net/http"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
)

// PizzaController handles HTTP requests related to menu pizzas
type PizzaController interface {
	// GetAllPizzas retrieves the menu, optionally filtered
	GetAllPizzas(c *gin.Context)
	// GetPizza retrieves a pizza by its ID or slug
	GetPizza(c *gin.Context)
	// CreatePizza creates a new pizza
	CreatePizza(c *gin.Context)
	// UpdatePizza replaces an existing pizza
	UpdatePizza(c *gin.Context)
	// PatchPizza applies a partial update, e.g. an availability toggle
	PatchPizza(c *gin.Context)
	// DeletePizza removes a pizza from the menu
	DeletePizza(c *gin.Context)
}

type pizzaController struct {
	service services.PizzaService
}

// NewPizzaController creates a new instance of PizzaController
func NewPizzaController(service services.PizzaService) *pizzaController {
	return &pizzaController{service: service}
}

// GetAllPizzas godoc
// @Summary Get the pizza menu
// @Description Get all pizzas, optionally filtered by category slug and availability
// @Tags pizzas
// @Accept json
// @Produce json
// @Param category query string false "Filter by category slug"
// @Param available query bool false "Only available pizzas"
// @Success 200 {array} models.Pizza
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/pizzas [get]
func (pc *pizzaController) GetAllPizzas(ctx *gin.Context) {
	category := ctx.Query("category")
	availableOnly := ctx.Query("available") == "true"

	pizzas, err := pc.service.GetAllPizzas(category, availableOnly)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pizzas"})
		return
	}
	ctx.JSON(http.StatusOK, pizzas)
}

// GetPizza godoc
// @Summary Get pizza by ID or slug
// @Description Get a single pizza by its ID or URL slug
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path string true "Pizza ID or slug"
// @Success 200 {object} models.Pizza
// @Failure 404 {object} map[string]string
// @Router /api/v1/public/pizzas/{id} [get]
func (pc *pizzaController) GetPizza(ctx *gin.Context) {
	pizza, err := pc.service.GetPizza(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Pizza not found"})
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}

// CreatePizza godoc
// @Summary Create a new pizza
// @Description Create a new pizza with the input payload
// @Tags pizzas
// @Accept json
// @Produce json
// @Param pizza body models.Pizza true "Pizza object"
// @Success 201 {object} models.Pizza
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/pizzas [post]
func (pc *pizzaController) CreatePizza(ctx *gin.Context) {
	var pizza models.Pizza
	if err := ctx.ShouldBindJSON(&pizza); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := pc.service.CreatePizza(pizza)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pizza"})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// UpdatePizza godoc
// @Summary Update a pizza
// @Description Replace a pizza with the input payload
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path string true "Pizza ID"
// @Param pizza body models.Pizza true "Pizza object"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/pizzas/{id} [put]
func (pc *pizzaController) UpdatePizza(ctx *gin.Context) {
	id := ctx.Param("id")

	// Existence check keeps PUT from silently inserting
	if _, err := pc.service.GetPizza(id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Pizza not found"})
		return
	}

	var pizza models.Pizza
	if err := ctx.ShouldBindJSON(&pizza); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	pizza.ID = id

	updated, err := pc.service.UpdatePizza(pizza)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pizza"})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// PatchPizza godoc
// @Summary Patch a pizza
// @Description Apply a partial field update to a pizza (e.g. availability toggle)
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path string true "Pizza ID"
// @Param fields body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/pizzas/{id} [patch]
func (pc *pizzaController) PatchPizza(ctx *gin.Context) {
	var fields map[string]interface{}
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pizza, err := pc.service.PatchPizza(ctx.Param("id"), fields)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Pizza not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pizza"})
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}

// DeletePizza godoc
// @Summary Delete a pizza
// @Description Delete a pizza by its ID
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path string true "Pizza ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/pizzas/{id} [delete]
func (pc *pizzaController) DeletePizza(ctx *gin.Context) {
	if err := pc.service.DeletePizza(ctx.Param("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Pizza not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pizza"})
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
