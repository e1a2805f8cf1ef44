package services

import (
	"errors"
	"fmt"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService serves the customizer's supporting menu data: categories,
// sizes, crust types and toppings. Toppings are admin-managed; the rest is
// read-only through the API and maintained by seeding or directly in the
// database.
type CatalogService interface {
	GetCategories() ([]models.Category, error)
	GetSizes() ([]models.PizzaSize, error)
	GetCrustTypes() ([]models.CrustType, error)
	GetToppings() ([]models.Topping, error)
	// GetToppingsByIDs resolves the given topping ids, erroring when any
	// id is unknown
	GetToppingsByIDs(ids []string) ([]models.Topping, error)
	CreateTopping(topping models.Topping) (models.Topping, error)
	UpdateTopping(topping models.Topping) (models.Topping, error)
	DeleteTopping(id string) error
}

type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("is_active = ?", true).Order("display_order").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *catalogService) GetSizes() ([]models.PizzaSize, error) {
	var sizes []models.PizzaSize
	if err := s.db.Order("display_order").Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

func (s *catalogService) GetCrustTypes() ([]models.CrustType, error) {
	var crusts []models.CrustType
	if err := s.db.Order("name").Find(&crusts).Error; err != nil {
		return nil, err
	}
	return crusts, nil
}

func (s *catalogService) GetToppings() ([]models.Topping, error) {
	var toppings []models.Topping
	if err := s.db.Order("category, name").Find(&toppings).Error; err != nil {
		return nil, err
	}
	return toppings, nil
}

func (s *catalogService) GetToppingsByIDs(ids []string) ([]models.Topping, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var toppings []models.Topping
	if err := s.db.Where("id IN ?", ids).Find(&toppings).Error; err != nil {
		return nil, err
	}
	if len(toppings) != len(ids) {
		return nil, fmt.Errorf("%w: unknown topping id in selection", ErrValidation)
	}
	return toppings, nil
}

func (s *catalogService) CreateTopping(topping models.Topping) (models.Topping, error) {
	if topping.Name == "" {
		return models.Topping{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if topping.Price < 0 {
		return models.Topping{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if topping.ID == "" {
		topping.ID = uuid.New().String()
	}
	if topping.Category == "" {
		topping.Category = models.ToppingOther
	}
	if err := s.db.Create(&topping).Error; err != nil {
		return models.Topping{}, err
	}
	return topping, nil
}

func (s *catalogService) UpdateTopping(topping models.Topping) (models.Topping, error) {
	var existing models.Topping
	if err := s.db.First(&existing, "id = ?", topping.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Topping{}, fmt.Errorf("%w: topping %s", ErrNotFound, topping.ID)
		}
		return models.Topping{}, err
	}
	if err := s.db.Save(&topping).Error; err != nil {
		return models.Topping{}, err
	}
	return topping, nil
}

func (s *catalogService) DeleteTopping(id string) error {
	result := s.db.Delete(&models.Topping{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: topping %s", ErrNotFound, id)
	}
	return nil
}
