package database

import (
	"fmt"
	"time"

	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.Env == "development" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Connected to database")
	return db, nil
}

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.ChallengeType{},
		&model.Challenge{},
		&model.ChallengeTestCase{},
		&model.ChallengeAttempt{},
		&model.UserChallengeStats{},
		&model.UserGlobalStats{},
		&model.Journey{},
		&model.Level{},
		&model.JourneyProgress{},
		&model.LevelProgress{},
	}
}

// AutoMigrate creates or updates the schema and seeds the fixed challenge types.
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	for _, name := range model.ChallengeCategories {
		ct := model.ChallengeType{Name: name}
		if err := db.Where(model.ChallengeType{Name: name}).FirstOrCreate(&ct).Error; err != nil {
			return fmt.Errorf("seed challenge type %s: %w", name, err)
		}
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
