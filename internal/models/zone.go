package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a list of strings as a JSON text column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Contains reports whether the list holds the exact string.
// No trimming or zero-padding: postal codes match literally.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// DeliveryZone is a delivery area keyed by a set of postal codes,
// carrying a flat delivery fee and a minimum order amount
type DeliveryZone struct {
	ID                       string     `gorm:"primaryKey" json:"id"`
	Canton                   string     `gorm:"not null" json:"canton"`
	PostalCodes              StringList `gorm:"type:text;not null" json:"postal_codes"`
	DeliveryFee              float64    `gorm:"not null" json:"delivery_fee"`
	MinOrderAmount           float64    `json:"min_order_amount"`
	EstimatedDeliveryMinutes int        `gorm:"default:45" json:"estimated_delivery_minutes"`
	IsActive                 bool       `json:"is_active"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func (DeliveryZone) TableName() string {
	return "delivery_zones"
}
