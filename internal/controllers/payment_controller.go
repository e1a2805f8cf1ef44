package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/payments"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PaymentController bridges orders to the hosted payment provider
type PaymentController interface {
	// CreateCheckoutSession opens a hosted payment session for an order
	CreateCheckoutSession(c *gin.Context)
	// GetSession reads payment and order state back for the confirmation
	// page; it never writes
	GetSession(c *gin.Context)
	// HandleWebhook receives signed provider events and confirms orders
	HandleWebhook(c *gin.Context)
}

type paymentController struct {
	client        *payments.Client
	orders        services.OrderService
	webhookSecret string
	currency      string
}

// NewPaymentController creates a new instance of PaymentController
func NewPaymentController(client *payments.Client, orders services.OrderService, webhookSecret, currency string) *paymentController {
	return &paymentController{
		client:        client,
		orders:        orders,
		webhookSecret: webhookSecret,
		currency:      currency,
	}
}

// CreateCheckoutSession godoc
// @Summary Create a hosted checkout session
// @Description Opens a payment session for the order's total and persists the session reference on the order
// @Tags payments
// @Accept json
// @Produce json
// @Param request body object{orderId=string} true "Order reference"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/public/payments/checkout [post]
func (pc *paymentController) CreateCheckoutSession(ctx *gin.Context) {
	var req struct {
		OrderID string `json:"orderId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := pc.orders.GetOrder(req.OrderID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	session, err := pc.client.CreateCheckoutSession(ctx.Request.Context(), order.ID, order.Total, pc.currency)
	if err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("Checkout session creation failed")
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to create checkout session",
			"code":  models.ErrPaymentSessionFailed,
		})
		return
	}

	if err := pc.orders.AttachPaymentSession(order.ID, session.ID); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("Failed to persist payment session reference")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"sessionId":    session.ID,
		"clientSecret": session.ClientSecret,
	})
}

// GetSession godoc
// @Summary Read back a checkout session
// @Description Returns payment status and the associated order status. Read-only: the webhook is the sole writer of payment state.
// @Tags payments
// @Produce json
// @Param session_id query string true "Checkout session ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/public/payments/session [get]
func (pc *paymentController) GetSession(ctx *gin.Context) {
	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required"})
		return
	}

	session, err := pc.client.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		log.WithError(err).WithField("session_id", sessionID).Error("Session retrieval failed")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve session"})
		return
	}

	orderID := session.Metadata["orderId"]
	if orderID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Order ID not found"})
		return
	}

	orderStatus := ""
	if order, err := pc.orders.GetOrder(orderID); err == nil {
		orderStatus = order.Status
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orderId":       orderID,
		"paymentStatus": session.PaymentStatus,
		"orderStatus":   orderStatus,
	})
}

// HandleWebhook godoc
// @Summary Payment provider webhook
// @Description Verifies the event signature and marks the order paid and confirmed on completed checkouts. Safe under replay.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Router /api/v1/public/payments/webhook [post]
func (pc *paymentController) HandleWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	event, err := payments.ConstructEvent(payload, ctx.GetHeader(payments.SignatureHeader),
		pc.webhookSecret, payments.DefaultTolerance)
	if err != nil {
		log.WithError(err).Warn("Rejected webhook delivery")
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Webhook verification failed",
			"code":  models.ErrInvalidWebhookSignature,
		})
		return
	}

	if event.Type == payments.EventCheckoutCompleted {
		orderID := event.OrderID()
		if orderID != "" {
			if err := pc.orders.MarkPaid(orderID); err != nil && !errors.Is(err, services.ErrNotFound) {
				log.WithError(err).WithField("order_id", orderID).Error("Failed to confirm paid order")
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
				return
			}
			log.WithField("order_id", orderID).Info("Order payment confirmed")
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
