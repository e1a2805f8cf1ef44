package services

import (
	"errors"
	"fmt"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors translated to HTTP statuses by the controllers
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// PizzaService provides menu pizza management
type PizzaService interface {
	// GetAllPizzas retrieves pizzas, optionally filtered by category slug
	// and availability
	GetAllPizzas(categorySlug string, availableOnly bool) ([]models.Pizza, error)
	// GetPizza retrieves a pizza by its ID or slug
	GetPizza(idOrSlug string) (models.Pizza, error)
	// CreatePizza creates a new pizza in the menu
	CreatePizza(pizza models.Pizza) (models.Pizza, error)
	// UpdatePizza replaces an existing pizza
	UpdatePizza(pizza models.Pizza) (models.Pizza, error)
	// PatchPizza applies a partial field update (e.g. availability toggle)
	PatchPizza(id string, fields map[string]interface{}) (models.Pizza, error)
	// DeletePizza removes a pizza from the menu
	DeletePizza(id string) error
}

type pizzaService struct {
	db *gorm.DB
}

// NewPizzaService creates a new instance of PizzaService
func NewPizzaService(db *gorm.DB) PizzaService {
	return &pizzaService{db: db}
}

func (s *pizzaService) GetAllPizzas(categorySlug string, availableOnly bool) ([]models.Pizza, error) {
	query := s.db.Model(&models.Pizza{}).Order("name")

	if categorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = pizzas.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if availableOnly {
		query = query.Where("pizzas.is_available = ?", true)
	}

	var pizzas []models.Pizza
	if err := query.Find(&pizzas).Error; err != nil {
		return nil, err
	}
	return pizzas, nil
}

func (s *pizzaService) GetPizza(idOrSlug string) (models.Pizza, error) {
	var pizza models.Pizza
	err := s.db.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&pizza).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Pizza{}, fmt.Errorf("%w: pizza %s", ErrNotFound, idOrSlug)
	}
	if err != nil {
		return models.Pizza{}, err
	}
	return pizza, nil
}

func (s *pizzaService) CreatePizza(pizza models.Pizza) (models.Pizza, error) {
	if pizza.Name == "" || pizza.Slug == "" {
		return models.Pizza{}, fmt.Errorf("%w: name and slug are required", ErrValidation)
	}
	if pizza.BasePrice <= 0 {
		return models.Pizza{}, fmt.Errorf("%w: base_price must be positive", ErrValidation)
	}
	if pizza.ID == "" {
		pizza.ID = uuid.New().String()
	}
	if err := s.db.Create(&pizza).Error; err != nil {
		return models.Pizza{}, err
	}
	return pizza, nil
}

func (s *pizzaService) UpdatePizza(pizza models.Pizza) (models.Pizza, error) {
	if err := s.db.Save(&pizza).Error; err != nil {
		return models.Pizza{}, err
	}
	return pizza, nil
}

func (s *pizzaService) PatchPizza(id string, fields map[string]interface{}) (models.Pizza, error) {
	var pizza models.Pizza
	if err := s.db.First(&pizza, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Pizza{}, fmt.Errorf("%w: pizza %s", ErrNotFound, id)
		}
		return models.Pizza{}, err
	}

	if err := s.db.Model(&pizza).Updates(fields).Error; err != nil {
		return models.Pizza{}, err
	}
	return pizza, nil
}

func (s *pizzaService) DeletePizza(id string) error {
	result := s.db.Delete(&models.Pizza{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: pizza %s", ErrNotFound, id)
	}
	return nil
}
