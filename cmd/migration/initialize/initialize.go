package initialize

import (
	"brightnest/config"
	"brightnest/internal/logger"
	. "brightnest/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeDemoAccount(db, config, log); err != nil {
		return log.Err("failed to initialize demo account", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeDemoAccount guarantees the demo homeowner exists so the demo
// email redirect always has a real account to hang off of.
func initializeDemoAccount(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.DemoAccountEmail == "" {
		log.Info("No demo account configured, skipping")
		return nil
	}

	var existing User
	if err := db.First(&existing, "email = ?", config.DemoAccountEmail).Error; err == nil {
		log.Debug("Demo account already exists", "email", config.DemoAccountEmail)
		return nil
	}

	demo := User{
		FirstName:               "Demo",
		LastName:                "Homeowner",
		Email:                   &config.DemoAccountEmail,
		Type:                    UserTypeHomeowner,
		NotificationPreferences: datatypes.NewJSONSlice([]string{ChannelEmail}),
	}

	log.Info("Creating demo account", "email", config.DemoAccountEmail)
	if err := db.Create(&demo).Error; err != nil {
		return log.Err("failed to create demo account", err, "email", config.DemoAccountEmail)
	}

	return nil
}
