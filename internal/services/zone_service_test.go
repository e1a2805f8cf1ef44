package services

import (
	"testing"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Pizza{}, &models.Category{}, &models.PizzaSize{},
		&models.CrustType{}, &models.Topping{}, &models.DeliveryZone{},
		&models.Order{}, &models.OrderItem{}, &models.OrderItemTopping{},
	)
	require.NoError(t, err)

	return db
}

func TestZoneResolve(t *testing.T) {
	db := setupServiceDB(t)
	service := NewZoneService(db)

	lausanne, err := service.CreateZone(models.DeliveryZone{
		Canton:         "Vaud",
		PostalCodes:    models.StringList{"1000", "1003", "1004"},
		DeliveryFee:    5.00,
		MinOrderAmount: 20.00,
		IsActive:       true,
	})
	require.NoError(t, err)

	_, err = service.CreateZone(models.DeliveryZone{
		Canton:         "Vaud",
		PostalCodes:    models.StringList{"1008", "1009"},
		DeliveryFee:    7.00,
		MinOrderAmount: 30.00,
		IsActive:       true,
	})
	require.NoError(t, err)

	zone, err := service.Resolve("1003")
	require.NoError(t, err)
	assert.Equal(t, lausanne.ID, zone.ID)
	assert.Equal(t, 5.00, zone.DeliveryFee)

	_, err = service.Resolve("9999")
	assert.ErrorIs(t, err, ErrNotFound)

	// literal match, no normalization
	_, err = service.Resolve(" 1003")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneResolveIgnoresInactiveZones(t *testing.T) {
	db := setupServiceDB(t)
	service := NewZoneService(db)

	_, err := service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1020"},
		DeliveryFee: 6.00,
		IsActive:    false,
	})
	require.NoError(t, err)

	_, err = service.Resolve("1020")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoneCreateRejectsOverlap(t *testing.T) {
	db := setupServiceDB(t)
	service := NewZoneService(db)

	_, err := service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1000", "1003"},
		DeliveryFee: 5.00,
		IsActive:    true,
	})
	require.NoError(t, err)

	_, err = service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1003", "1004"},
		DeliveryFee: 7.00,
		IsActive:    true,
	})
	assert.ErrorIs(t, err, ErrConflict)

	// inactive zones may share codes, they never resolve
	_, err = service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1003", "1004"},
		DeliveryFee: 7.00,
		IsActive:    false,
	})
	assert.NoError(t, err)
}

func TestZoneUpdateOverlapAndSelf(t *testing.T) {
	db := setupServiceDB(t)
	service := NewZoneService(db)

	first, err := service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1000"},
		DeliveryFee: 5.00,
		IsActive:    true,
	})
	require.NoError(t, err)

	second, err := service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1008"},
		DeliveryFee: 7.00,
		IsActive:    true,
	})
	require.NoError(t, err)

	// a zone does not conflict with itself
	first.DeliveryFee = 6.50
	updated, err := service.UpdateZone(first)
	require.NoError(t, err)
	assert.Equal(t, 6.50, updated.DeliveryFee)

	// stealing another active zone's code is rejected
	second.PostalCodes = models.StringList{"1000", "1008"}
	_, err = service.UpdateZone(second)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestZoneValidation(t *testing.T) {
	db := setupServiceDB(t)
	service := NewZoneService(db)

	tests := []struct {
		name string
		zone models.DeliveryZone
	}{
		{"missing canton", models.DeliveryZone{PostalCodes: models.StringList{"1000"}}},
		{"empty postal codes", models.DeliveryZone{Canton: "Vaud"}},
		{"negative fee", models.DeliveryZone{Canton: "Vaud", PostalCodes: models.StringList{"1000"}, DeliveryFee: -1}},
		{"negative minimum", models.DeliveryZone{Canton: "Vaud", PostalCodes: models.StringList{"1000"}, MinOrderAmount: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateZone(tt.zone)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestZoneDelete(t *testing.T) {
	db := setupServiceDB(t)
	service := NewZoneService(db)

	zone, err := service.CreateZone(models.DeliveryZone{
		Canton:      "Vaud",
		PostalCodes: models.StringList{"1000"},
		IsActive:    true,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteZone(zone.ID))
	assert.ErrorIs(t, service.DeleteZone(zone.ID), ErrNotFound)
}
