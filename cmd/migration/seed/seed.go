package seed

import (
	"time"

	"brightnest/config"
	"brightnest/internal/logger"
	. "brightnest/internal/models"
	"brightnest/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	codec, err := services.NewCodecService(config)
	if err != nil {
		return log.Err("failed to create codec for seeding", err)
	}

	owner := User{
		FirstName:               "Nora",
		LastName:                "Walsh",
		Email:                   stringPtr("nora@example.com"),
		Type:                    UserTypeHomeowner,
		NotificationPreferences: datatypes.NewJSONSlice([]string{ChannelEmail}),
	}

	cleaners := []User{
		{
			FirstName:               "Sam",
			LastName:                "Ortiz",
			Email:                   stringPtr("sam@example.com"),
			Type:                    UserTypeCleaner,
			NotificationPreferences: datatypes.NewJSONSlice([]string{ChannelEmail}),
			ServiceAreaLatitude:     stringPtr("42.3601"),
			ServiceAreaLongitude:    stringPtr("-71.0589"),
			ServiceAreaRadiusMiles:  floatPtr(25),
		},
		{
			FirstName:               "Priya",
			LastName:                "Iyer",
			Email:                   stringPtr("priya@example.com"),
			Type:                    UserTypeCleaner,
			NotificationPreferences: datatypes.NewJSONSlice([]string{ChannelEmail, ChannelPhone}),
			ServiceAreaLatitude:     stringPtr("42.3736"),
			ServiceAreaLongitude:    stringPtr("-71.1097"),
			IsBusinessOwner:         true,
			BusinessVerificationStatus: stringPtr(
				BusinessVerified,
			),
		},
	}

	if err := db.Create(&owner).Error; err != nil {
		return log.Err("failed to seed homeowner", err)
	}
	for i := range cleaners {
		if err := db.Create(&cleaners[i]).Error; err != nil {
			return log.Err("failed to seed cleaner", err, "email", cleaners[i].Email)
		}
	}

	encLat, err := codec.Encrypt("42.3611")
	if err != nil {
		return log.Err("failed to encrypt seed latitude", err)
	}
	encLon, err := codec.Encrypt("-71.0570")
	if err != nil {
		return log.Err("failed to encrypt seed longitude", err)
	}

	home := Home{
		OwnerID:              owner.ID,
		Address:              "12 Beacon St",
		City:                 "Boston",
		Latitude:             encLat,
		Longitude:            encLon,
		UsePreferredCleaners: true,
	}
	if err := db.Create(&home).Error; err != nil {
		return log.Err("failed to seed home", err)
	}

	preferred := HomePreferredCleaner{
		HomeID:    home.ID,
		CleanerID: cleaners[0].ID,
		SetAt:     time.Now(),
		SetBy:     PreferredSetByManual,
	}
	if err := db.Create(&preferred).Error; err != nil {
		return log.Err("failed to seed preferred cleaner", err)
	}

	appointment := Appointment{
		HomeID: home.ID,
		Date:   time.Now().Add(12 * time.Hour),
		Price:  decimal.NewFromInt(140),
		Status: AppointmentStatusPending,
	}
	if err := db.Create(&appointment).Error; err != nil {
		return log.Err("failed to seed appointment", err)
	}

	log.Info("Seed complete",
		"users", len(cleaners)+1,
		"homes", 1,
		"appointments", 1,
	)
	return nil
}
