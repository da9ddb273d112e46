package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seletivo_backend/internals/configs"
)

// Database owns the gorm handle. It is created once in main and passed down;
// nothing reads it from a package global.
type Database struct {
	db *gorm.DB
}

func Wrap(db *gorm.DB) *Database {
	return &Database{db: db}
}

func BuildDSN() string {
	// Behind PgBouncer point host/port at the bouncer and keep PreferSimpleProtocol=true
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=seletivo&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)
}

func ConnectDB() (*Database, error) {
	log.Info().Msg("🔌 Conectando ao PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  BuildDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	log.Info().Msg("✅ DB connected.")
	return &Database{db: db}, nil
}

func (d *Database) Gorm() *gorm.DB { return d.db }

func (d *Database) TunePool() {
	sqlDB, err := d.db.DB()
	if err != nil {
		log.Error().Err(err).Msg("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func (d *Database) WarmUp() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := d.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("warm-up ping err")
		}
	}()
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Refresh pings the pool and, when the ping fails, drops every idle
// connection so the next query dials fresh ones. Call it before reads that
// must not run on a connection the server already closed.
func (d *Database) Refresh(ctx context.Context) error {
	if err := d.Ping(ctx); err == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	idle := configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10)
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(idle)
	log.Warn().Msg("db refresh: idle connections dropped")
	return d.Ping(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
