package controllers

import (
	"errors"
	"net/http"

	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// OrderController handles checkout, order reads and staff status updates
type OrderController interface {
	// CreateOrder runs the checkout orchestration
	CreateOrder(c *gin.Context)
	// GetOrder fetches an order with items and toppings for tracking
	GetOrder(c *gin.Context)
	// GetOrdersByEmail lists a caller's orders by account or guest email
	GetOrdersByEmail(c *gin.Context)
	// ListOrders returns all orders for the admin console
	ListOrders(c *gin.Context)
	// UpdateOrder applies a staff patch (status change via the lifecycle)
	UpdateOrder(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) *orderController {
	return &orderController{service: service}
}

// CreateOrder godoc
// @Summary Place an order
// @Description Creates the order, its items and topping snapshots in one transaction and returns the order id
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.CheckoutRequest true "Checkout payload"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/orders [post]
func (oc *orderController) CreateOrder(ctx *gin.Context) {
	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// A logged-in caller places the order under their own account
	if userID, exists := ctx.Get("userID"); exists {
		if id, ok := userID.(uint); ok {
			req.UserID = &id
		}
	}

	order, err := oc.service.CreateOrder(req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Order creation failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"orderId": order.ID})
}

// GetOrder godoc
// @Summary Get an order
// @Description Fetch an order with its items and topping snapshots
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string
// @Router /api/v1/public/orders/{id} [get]
func (oc *orderController) GetOrder(ctx *gin.Context) {
	order, err := oc.service.GetOrder(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// GetOrdersByEmail godoc
// @Summary List orders for an email
// @Description An authenticated caller whose account email matches gets their orders; otherwise guest orders under the email are returned
// @Tags orders
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {array} models.Order
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/public/orders/by-email [get]
func (oc *orderController) GetOrdersByEmail(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email parameter is required"})
		return
	}

	userID, authed := ctx.Get("userID")
	userEmail := ctx.GetString("userEmail")

	var (
		orders interface{}
		err    error
	)
	if authed && userEmail == email {
		if id, ok := userID.(uint); ok {
			orders, err = oc.service.GetOrdersForUser(id)
		}
	} else {
		orders, err = oc.service.GetOrdersByGuestEmail(email)
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// ListOrders godoc
// @Summary List all orders
// @Description Admin listing of the order book, optionally filtered by status
// @Tags orders
// @Produce json
// @Param status query string false "Filter by order status"
// @Success 200 {array} models.Order
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/admin/orders [get]
func (oc *orderController) ListOrders(ctx *gin.Context) {
	orders, err := oc.service.ListOrders(ctx.Query("status"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// UpdateOrder godoc
// @Summary Update an order's status
// @Description Moves the order along its lifecycle; transitions not reachable from the current status are rejected
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param patch body object{status=string} true "Target status"
// @Success 200 {object} models.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/protected/staff/orders/{id} [patch]
func (oc *orderController) UpdateOrder(ctx *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := oc.service.UpdateStatus(ctx.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, services.ErrConflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}
	ctx.JSON(http.StatusOK, order)
}
