package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sweetmerry/booking-api/internal/config"
	"github.com/sweetmerry/booking-api/internal/models"
)

func NewDB(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	if err := createActiveSlotIndex(db); err != nil {
		logger.Fatal("failed to create slot uniqueness index", zap.Error(err))
	}

	return db
}

// createActiveSlotIndex enforces uniqueness of active (service, date, time)
// tuples in storage. The application-level slot check alone cannot prevent two
// concurrent creates from landing on the same slot, and AutoMigrate has no
// notion of a partial index.
func createActiveSlotIndex(db *gorm.DB) error {
	return db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active_slot
        ON bookings (service_id, date, time)
        WHERE status IN ('PENDING', 'CONFIRMED')
    `).Error
}
