package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/pricing"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CartLine is one customized pizza submitted at checkout. Unit prices are
// recomputed server-side from the live menu; the client-held price is not
// trusted.
type CartLine struct {
	PizzaID             string   `json:"pizza_id" binding:"required"`
	SizeID              string   `json:"size_id" binding:"required"`
	CrustTypeID         string   `json:"crust_type_id" binding:"required"`
	ToppingIDs          []string `json:"topping_ids"`
	Quantity            int      `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string   `json:"special_instructions"`
}

// CheckoutRequest carries everything needed to create an order. Exactly one
// of UserID or the guest contact fields must be supplied.
type CheckoutRequest struct {
	UserID            *uint     `json:"user_id"`
	GuestEmail        string    `json:"guest_email"`
	GuestName         string    `json:"guest_name"`
	GuestPhone        string    `json:"guest_phone"`
	DeliveryStreet    string    `json:"delivery_street" binding:"required"`
	DeliveryCity      string    `json:"delivery_city" binding:"required"`
	DeliveryPostalCode string   `json:"delivery_postal_code" binding:"required"`
	DeliveryNotes     string    `json:"delivery_notes"`
	Cart              []CartLine `json:"cart"`
}

// OrderService owns the order graph: checkout, reads, the status lifecycle
// and the payment-driven confirmation
type OrderService interface {
	// CreateOrder validates the request, snapshots the menu and writes the
	// order, its items and their toppings in one transaction
	CreateOrder(req CheckoutRequest) (models.Order, error)
	// GetOrder fetches an order with its items and toppings
	GetOrder(id string) (models.Order, error)
	// GetOrdersForUser lists a registered user's orders, newest first
	GetOrdersForUser(userID uint) ([]models.Order, error)
	// GetOrdersByGuestEmail lists guest orders placed under an email
	GetOrdersByGuestEmail(email string) ([]models.Order, error)
	// ListOrders returns all orders for the admin console, optionally
	// filtered by status
	ListOrders(status string) ([]models.Order, error)
	// UpdateStatus advances the order along the lifecycle. Transitions not
	// reachable from the current status are rejected.
	UpdateStatus(id, status string) (models.Order, error)
	// AttachPaymentSession persists the checkout-session reference
	AttachPaymentSession(id, sessionID string) error
	// MarkPaid sets payment_status=paid and status=confirmed. Fixed-value
	// update: replaying it leaves the order unchanged.
	MarkPaid(id string) error
}

type orderService struct {
	db      *gorm.DB
	zones   ZoneService
	catalog CatalogService
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, zones ZoneService, catalog CatalogService) OrderService {
	return &orderService{db: db, zones: zones, catalog: catalog}
}

func (s *orderService) CreateOrder(req CheckoutRequest) (models.Order, error) {
	if err := validateContact(req); err != nil {
		return models.Order{}, err
	}
	if len(req.Cart) == 0 {
		return models.Order{}, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	zone, err := s.zones.Resolve(req.DeliveryPostalCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Order{}, fmt.Errorf("%w: delivery not available for %s", ErrValidation, req.DeliveryPostalCode)
		}
		return models.Order{}, err
	}

	items, lines, err := s.snapshotCart(req.Cart)
	if err != nil {
		return models.Order{}, err
	}

	totals := pricing.Quote(lines, zone.DeliveryFee)
	if totals.Subtotal < zone.MinOrderAmount {
		return models.Order{}, fmt.Errorf("%w: subtotal %.2f below zone minimum %.2f",
			ErrValidation, totals.Subtotal, zone.MinOrderAmount)
	}

	eta := time.Now().Add(time.Duration(zone.EstimatedDeliveryMinutes) * time.Minute)
	order := models.Order{
		ID:                 uuid.New().String(),
		UserID:             req.UserID,
		DeliveryStreet:     req.DeliveryStreet,
		DeliveryCity:       req.DeliveryCity,
		DeliveryPostalCode: req.DeliveryPostalCode,
		DeliveryCanton:     zone.Canton,
		DeliveryNotes:      req.DeliveryNotes,
		Subtotal:           totals.Subtotal,
		DeliveryFee:        totals.DeliveryFee,
		Tax:                totals.Tax,
		Total:              totals.Total,
		Status:             models.OrderStatusPending,
		PaymentStatus:      models.PaymentStatusPending,
		EstimatedDeliveryTime: &eta,
	}
	if req.UserID == nil {
		order.GuestEmail = &req.GuestEmail
		order.GuestName = &req.GuestName
		order.GuestPhone = &req.GuestPhone
	}

	// Order, items and toppings appear together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"total":    order.Total,
		"items":    len(items),
		"canton":   zone.Canton,
	}).Info("Order created")

	order.Items = items
	return order, nil
}

// snapshotCart resolves every cart line against the live menu and
// denormalizes names and prices so later menu edits don't alter the order
func (s *orderService) snapshotCart(cart []CartLine) ([]models.OrderItem, []pricing.Line, error) {
	items := make([]models.OrderItem, 0, len(cart))
	lines := make([]pricing.Line, 0, len(cart))

	for _, cl := range cart {
		if cl.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}

		var pizza models.Pizza
		if err := s.db.First(&pizza, "id = ?", cl.PizzaID).Error; err != nil {
			return nil, nil, fmt.Errorf("%w: unknown pizza %s", ErrValidation, cl.PizzaID)
		}
		if !pizza.IsAvailable {
			return nil, nil, fmt.Errorf("%w: pizza %s is not available", ErrValidation, pizza.Slug)
		}

		var size models.PizzaSize
		if err := s.db.First(&size, "id = ?", cl.SizeID).Error; err != nil {
			return nil, nil, fmt.Errorf("%w: unknown size %s", ErrValidation, cl.SizeID)
		}

		var crust models.CrustType
		if err := s.db.First(&crust, "id = ?", cl.CrustTypeID).Error; err != nil {
			return nil, nil, fmt.Errorf("%w: unknown crust type %s", ErrValidation, cl.CrustTypeID)
		}

		toppings, err := s.catalog.GetToppingsByIDs(cl.ToppingIDs)
		if err != nil {
			return nil, nil, err
		}

		toppingPrices := make([]float64, 0, len(toppings))
		itemToppings := make([]models.OrderItemTopping, 0, len(toppings))
		for _, topping := range toppings {
			toppingPrices = append(toppingPrices, topping.Price)
			itemToppings = append(itemToppings, models.OrderItemTopping{
				ID:           uuid.New().String(),
				ToppingID:    topping.ID,
				ToppingName:  topping.Name,
				ToppingPrice: topping.Price,
			})
		}

		unitPrice := pricing.UnitPrice(pizza.BasePrice, size.PriceMultiplier, crust.AdditionalPrice, toppingPrices)
		itemID := uuid.New().String()
		for i := range itemToppings {
			itemToppings[i].OrderItemID = itemID
		}

		items = append(items, models.OrderItem{
			ID:                  itemID,
			PizzaID:             pizza.ID,
			PizzaName:           pizza.Name,
			SizeID:              size.ID,
			SizeName:            size.Name,
			CrustTypeID:         crust.ID,
			CrustTypeName:       crust.Name,
			Quantity:            cl.Quantity,
			UnitPrice:           unitPrice,
			TotalPrice:          pricing.RoundCHF(unitPrice * float64(cl.Quantity)),
			SpecialInstructions: cl.SpecialInstructions,
			Toppings:            itemToppings,
		})
		lines = append(lines, pricing.Line{UnitPrice: unitPrice, Quantity: cl.Quantity})
	}

	return items, lines, nil
}

func (s *orderService) GetOrder(id string) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Toppings").Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) GetOrdersForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Toppings").Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrdersByGuestEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Toppings").Preload("Items").
		Where("guest_email = ?", email).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListOrders(status string) ([]models.Order, error) {
	query := s.db.Preload("Items.Toppings").Preload("Items").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(id, status string) (models.Order, error) {
	if !models.IsValidStatus(status) {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return models.Order{}, err
	}

	if !models.CanTransition(order.Status, status) {
		return models.Order{}, fmt.Errorf("%w: cannot move order from %s to %s",
			ErrConflict, order.Status, status)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.OrderStatusDelivered {
		now := time.Now()
		updates["actual_delivery_time"] = &now
	}
	if err := s.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Order{}, err
	}

	log.WithFields(log.Fields{
		"order_id": id,
		"from":     order.Status,
		"to":       status,
	}).Info("Order status updated")

	return s.GetOrder(id)
}

func (s *orderService) AttachPaymentSession(id, sessionID string) error {
	result := s.db.Model(&models.Order{}).Where("id = ?", id).
		Update("payment_session_id", sessionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return nil
}

func (s *orderService) MarkPaid(id string) error {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return err
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
	}
	// Confirmation only ever moves pending orders forward; a replayed
	// webhook must not drag an order already in preparation back
	if order.Status == models.OrderStatusPending {
		updates["status"] = models.OrderStatusConfirmed
	}
	return s.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

func validateContact(req CheckoutRequest) error {
	hasGuest := req.GuestEmail != "" || req.GuestName != "" || req.GuestPhone != ""
	if req.UserID != nil && hasGuest {
		return fmt.Errorf("%w: supply either user_id or guest contact, not both", ErrValidation)
	}
	if req.UserID == nil {
		if req.GuestEmail == "" || req.GuestName == "" {
			return fmt.Errorf("%w: guest orders require guest_email and guest_name", ErrValidation)
		}
	}
	return nil
}
