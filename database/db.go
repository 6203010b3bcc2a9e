package database

import (
	"fmt"
	"os"

	"chefmarket-booking/logger"
	"chefmarket-booking/models/booking"
	"chefmarket-booking/models/calendar"
	"chefmarket-booking/models/ledger"
	"chefmarket-booking/models/log"
	"chefmarket-booking/models/request"
	"chefmarket-booking/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models, staged so FK targets
// exist before their dependents.
func autoMigrate() error {
	// Stage 1: core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&request.CustomerRequest{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models with dependencies on Stage 1
	stage2Models := []interface{}{
		&booking.Booking{},
		&booking.BookingStatusEvent{},
		&ledger.LedgerEntry{},
		&calendar.CalendarEvent{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Remaining models
	remainingModels := []interface{}{
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance. The
// unique index on bookings.payment_intent_id is the idempotency anchor for
// payment notifications and must exist before the webhook route serves
// traffic; AutoMigrate creates it from the model tag, this is a guard.
func createIndexes() error {
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_payment_intent_id ON bookings(payment_intent_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking payment_intent_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)").Error; err != nil {
		return fmt.Errorf("failed to create booking status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_chef_id ON bookings(chef_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking chef_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_customer_id ON bookings(customer_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking customer_id index: %w", err)
	}
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_request_id ON bookings(request_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking request_id index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_customer_requests_customer_id ON customer_requests(customer_id)").Error; err != nil {
		return fmt.Errorf("failed to create request customer_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_customer_requests_status ON customer_requests(status)").Error; err != nil {
		return fmt.Errorf("failed to create request status index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_calendar_events_chef_date ON calendar_events(chef_id, event_date)").Error; err != nil {
		return fmt.Errorf("failed to create calendar chef/date index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_ledger_entries_disposition_status ON ledger_entries(disposition_status)").Error; err != nil {
		return fmt.Errorf("failed to create ledger disposition_status index: %w", err)
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_ledger_entries_booking",
			sql: `ALTER TABLE ledger_entries ADD CONSTRAINT fk_ledger_entries_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_booking_status_events_booking",
			sql: `ALTER TABLE booking_status_events ADD CONSTRAINT fk_booking_status_events_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
