package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opencampus/academics-service/internal/config"
	"github.com/opencampus/academics-service/internal/models"
)

// InitDatabase opens the Postgres connection, configures the pool and runs
// schema migrations
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.Environment == "development" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// attendanceKeyIndex is the upsert target for attendance records. It is
// created by hand because the index must be NULLS NOT DISTINCT: a slotless
// lecture stores a NULL time_slot_id, and under the default NULLS DISTINCT
// semantics two such rows would never conflict, so re-marking would insert a
// duplicate instead of overwriting the flag.
const attendanceKeyIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_key
ON attendance_records (student_id, subject_id, date, time_slot_id) NULLS NOT DISTINCT`

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Class{},
		&models.Subject{},
		&models.StudentProfile{},
		&models.TimeSlot{},
		&models.Timetable{},
		&models.Attendance{},
		&models.LeaveRequest{},
		&models.Announcement{},
	); err != nil {
		return err
	}

	return db.Exec(attendanceKeyIndex).Error
}
