package services

import (
	"errors"
	"fmt"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ZoneService manages delivery zones and resolves postal codes to them
type ZoneService interface {
	GetAllZones() ([]models.DeliveryZone, error)
	GetZone(id string) (models.DeliveryZone, error)
	// Resolve returns the active zone whose postal-code list contains the
	// given code. The code is matched literally, no normalization.
	Resolve(postalCode string) (models.DeliveryZone, error)
	CreateZone(zone models.DeliveryZone) (models.DeliveryZone, error)
	UpdateZone(zone models.DeliveryZone) (models.DeliveryZone, error)
	DeleteZone(id string) error
}

type zoneService struct {
	db *gorm.DB
}

// NewZoneService creates a new instance of ZoneService
func NewZoneService(db *gorm.DB) ZoneService {
	return &zoneService{db: db}
}

func (s *zoneService) GetAllZones() ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if err := s.db.Order("canton, created_at").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (s *zoneService) GetZone(id string) (models.DeliveryZone, error) {
	var zone models.DeliveryZone
	err := s.db.First(&zone, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DeliveryZone{}, fmt.Errorf("%w: zone %s", ErrNotFound, id)
	}
	if err != nil {
		return models.DeliveryZone{}, err
	}
	return zone, nil
}

func (s *zoneService) Resolve(postalCode string) (models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if err := s.db.Where("is_active = ?", true).Order("created_at").Find(&zones).Error; err != nil {
		return models.DeliveryZone{}, err
	}

	for _, zone := range zones {
		if zone.PostalCodes.Contains(postalCode) {
			return zone, nil
		}
	}
	return models.DeliveryZone{}, fmt.Errorf("%w: no active zone serves %s", ErrNotFound, postalCode)
}

func (s *zoneService) CreateZone(zone models.DeliveryZone) (models.DeliveryZone, error) {
	if err := validateZone(zone); err != nil {
		return models.DeliveryZone{}, err
	}
	if zone.ID == "" {
		zone.ID = uuid.New().String()
	}
	if err := s.checkOverlap(zone); err != nil {
		return models.DeliveryZone{}, err
	}
	if err := s.db.Create(&zone).Error; err != nil {
		return models.DeliveryZone{}, err
	}
	return zone, nil
}

func (s *zoneService) UpdateZone(zone models.DeliveryZone) (models.DeliveryZone, error) {
	if err := validateZone(zone); err != nil {
		return models.DeliveryZone{}, err
	}

	var existing models.DeliveryZone
	if err := s.db.First(&existing, "id = ?", zone.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DeliveryZone{}, fmt.Errorf("%w: zone %s", ErrNotFound, zone.ID)
		}
		return models.DeliveryZone{}, err
	}

	if err := s.checkOverlap(zone); err != nil {
		return models.DeliveryZone{}, err
	}
	zone.CreatedAt = existing.CreatedAt
	if err := s.db.Save(&zone).Error; err != nil {
		return models.DeliveryZone{}, err
	}
	return zone, nil
}

func (s *zoneService) DeleteZone(id string) error {
	result := s.db.Delete(&models.DeliveryZone{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: zone %s", ErrNotFound, id)
	}
	return nil
}

func validateZone(zone models.DeliveryZone) error {
	if zone.Canton == "" {
		return fmt.Errorf("%w: canton is required", ErrValidation)
	}
	if len(zone.PostalCodes) == 0 {
		return fmt.Errorf("%w: at least one postal code is required", ErrValidation)
	}
	if zone.DeliveryFee < 0 {
		return fmt.Errorf("%w: delivery_fee must not be negative", ErrValidation)
	}
	if zone.MinOrderAmount < 0 {
		return fmt.Errorf("%w: min_order_amount must not be negative", ErrValidation)
	}
	return nil
}

// checkOverlap keeps postal codes disjoint across active zones so that
// resolution maps each code to exactly one zone. Inactive zones are allowed
// to overlap; they never resolve.
func (s *zoneService) checkOverlap(zone models.DeliveryZone) error {
	if !zone.IsActive {
		return nil
	}

	var others []models.DeliveryZone
	if err := s.db.Where("is_active = ? AND id <> ?", true, zone.ID).Find(&others).Error; err != nil {
		return err
	}

	for _, other := range others {
		for _, code := range zone.PostalCodes {
			if other.PostalCodes.Contains(code) {
				return fmt.Errorf("%w: postal code %s already served by zone %s", ErrConflict, code, other.ID)
			}
		}
	}
	return nil
}
