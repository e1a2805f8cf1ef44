package models

import (
	"time"
)

// Pizza represents a menu pizza with its base price and dietary flags
type Pizza struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url"`
	CategoryID      *string   `gorm:"index" json:"category_id"`
	BasePrice       float64   `gorm:"not null" json:"base_price"`
	IsAvailable     bool      `gorm:"default:true" json:"is_available"`
	IsVegetarian    bool      `json:"is_vegetarian"`
	IsVegan         bool      `json:"is_vegan"`
	IsSpicy         bool      `json:"is_spicy"`
	PrepTimeMinutes int       `gorm:"default:15" json:"prep_time_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Category groups pizzas in the menu listing
type Category struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// PizzaSize applies a price multiplier to a pizza's base price
type PizzaSize struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	DiameterCM      int       `json:"diameter_cm"`
	PriceMultiplier float64   `gorm:"not null;default:1" json:"price_multiplier"`
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
}

// CrustType adds a flat price on top of the sized base price
type CrustType struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	AdditionalPrice float64   `json:"additional_price"`
	IsAvailable     bool      `gorm:"default:true" json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

// Topping category tags
const (
	ToppingCheese    = "cheese"
	ToppingMeat      = "meat"
	ToppingVegetable = "vegetable"
	ToppingSauce     = "sauce"
	ToppingOther     = "other"
)

// Topping is a flat-priced extra selectable in the customizer
type Topping struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Price        float64   `gorm:"not null" json:"price"`
	Category     string    `gorm:"default:'other'" json:"category"`
	IsAvailable  bool      `gorm:"default:true" json:"is_available"`
	IsVegetarian bool      `json:"is_vegetarian"`
	IsVegan      bool      `json:"is_vegan"`
	CreatedAt    time.Time `json:"created_at"`
}
