package database

import (
	"errors"
	"log"

	"fleetdocs/internal/models"

	"gorm.io/gorm"
)

// The fixed reminder ladder, keyed by offset
var defaultReminderConfigs = []models.ReminderConfig{
	{Name: "Expired", OffsetDays: 0, Enabled: true},
	{Name: "1 day before expiry", OffsetDays: 1, Enabled: true},
	{Name: "1 week before expiry", OffsetDays: 7, Enabled: true},
	{Name: "1 month before expiry", OffsetDays: 30, Enabled: true},
}

// SeedReminderConfigs ensures the fixed reminder configurations exist and are
// enabled. Re-running re-enables disabled rows; admin renames are kept.
func SeedReminderConfigs() error {
	db := GetDB()

	for _, cfg := range defaultReminderConfigs {
		var existing models.ReminderConfig
		err := db.Where("offset_days = ?", cfg.OffsetDays).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&cfg).Error; err != nil {
				return err
			}
			log.Printf("Seeded reminder config %q (offset %d days)", cfg.Name, cfg.OffsetDays)
			continue
		}
		if err != nil {
			return err
		}

		if !existing.Enabled {
			if err := db.Model(&existing).Update("enabled", true).Error; err != nil {
				return err
			}
			log.Printf("Re-enabled reminder config %q (offset %d days)", existing.Name, existing.OffsetDays)
		}
	}
	return nil
}
