package db

import (
	"log"
	"time"

	"github.com/harmoniawellness/wellness-scheduler/internal/config"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Overlap-freedom for booked slots is enforced by the store, not by the
	// application's point check. The unique index from AutoMigrate guards the
	// exact start key; the exclusion constraint below rejects overlapping
	// intervals with mixed durations.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
        ALTER TABLE booking_slots
        ADD CONSTRAINT booking_slots_no_overlap
        EXCLUDE USING gist (
            provider_id WITH =,
            date WITH =,
            int4range(
                (split_part(start_time, ':', 1)::int * 60 + split_part(start_time, ':', 2)::int),
                (split_part(end_time, ':', 1)::int * 60 + split_part(end_time, ':', 2)::int)
            ) WITH &&
        )
    `)

	return db
}

// Migrate creates or updates the schema. Split out so tests can run it
// against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Provider{},
		&models.User{},
		&models.Service{},
		&models.ServiceDurationOverride{},
		&models.WorkingHours{},
		&models.BlockedRange{},
		&models.Appointment{},
		&models.BookingSlot{},
		&models.RescheduleRequest{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Notification{},
		&models.AuditLog{},
	)
}
