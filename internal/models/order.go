package models

import (
	"time"
)

// Order status lifecycle
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusReady      = "ready"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status values
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// statusSuccessor maps each order status to the next one in the lifecycle.
// Terminal states have no successor.
var statusSuccessor = map[string]string{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusPreparing,
	OrderStatusPreparing:  OrderStatusReady,
	OrderStatusReady:      OrderStatusDelivering,
	OrderStatusDelivering: OrderStatusDelivered,
}

// IsTerminalStatus reports whether no further transition is allowed
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// IsValidStatus reports whether the value is part of the lifecycle enumeration
func IsValidStatus(status string) bool {
	if IsTerminalStatus(status) {
		return true
	}
	_, ok := statusSuccessor[status]
	return ok
}

// CanTransition reports whether an order may move from one status to the
// next. Orders only progress forward one step at a time; cancellation is
// reachable from any non-terminal state.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return statusSuccessor[from] == to
}

// Order is created once at checkout and mutated only by staff status
// updates and the payment webhook. Orders are never deleted.
type Order struct {
	ID                string  `gorm:"primaryKey" json:"id"`
	UserID            *uint   `gorm:"index" json:"user_id"`
	GuestEmail        *string `gorm:"index" json:"guest_email"`
	GuestName         *string `json:"guest_name"`
	GuestPhone        *string `json:"guest_phone"`
	DeliveryStreet    string  `gorm:"not null" json:"delivery_street"`
	DeliveryCity      string  `gorm:"not null" json:"delivery_city"`
	DeliveryPostalCode string `gorm:"not null" json:"delivery_postal_code"`
	DeliveryCanton    string  `json:"delivery_canton"`
	DeliveryNotes     string  `json:"delivery_notes"`
	Subtotal          float64 `gorm:"not null" json:"subtotal"`
	DeliveryFee       float64 `gorm:"not null" json:"delivery_fee"`
	Tax               float64 `gorm:"not null" json:"tax"`
	Total             float64 `gorm:"not null" json:"total"`
	Status            string  `gorm:"default:'pending'" json:"status"`
	PaymentStatus     string  `gorm:"default:'pending'" json:"payment_status"`
	PaymentSessionID  *string `gorm:"index" json:"payment_session_id"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time"`
	Items             []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// OrderItem snapshots pizza, size and crust names and prices at order time
// so later menu edits never alter historical orders
type OrderItem struct {
	ID                  string  `gorm:"primaryKey" json:"id"`
	OrderID             string  `gorm:"index;not null" json:"order_id"`
	PizzaID             string  `gorm:"not null" json:"pizza_id"`
	PizzaName           string  `gorm:"not null" json:"pizza_name"`
	SizeID              string  `gorm:"not null" json:"size_id"`
	SizeName            string  `gorm:"not null" json:"size_name"`
	CrustTypeID         string  `gorm:"not null" json:"crust_type_id"`
	CrustTypeName       string  `gorm:"not null" json:"crust_type_name"`
	Quantity            int     `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice           float64 `gorm:"not null" json:"unit_price"`
	TotalPrice          float64 `gorm:"not null" json:"total_price"`
	SpecialInstructions string  `json:"special_instructions"`
	Toppings            []OrderItemTopping `gorm:"foreignKey:OrderItemID" json:"toppings"`
	CreatedAt           time.Time          `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderItemTopping snapshots a selected topping's name and price
type OrderItemTopping struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	OrderItemID  string  `gorm:"index;not null" json:"order_item_id"`
	ToppingID    string  `gorm:"not null" json:"topping_id"`
	ToppingName  string  `gorm:"not null" json:"topping_name"`
	ToppingPrice float64 `gorm:"not null" json:"topping_price"`
}

func (OrderItemTopping) TableName() string {
	return "order_item_toppings"
}
