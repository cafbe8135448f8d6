package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresOptions are the connection parameters of a server database.
type PostgresOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (options PostgresOptions) DSN() string {
	sslMode := strings.TrimSpace(options.SSLMode)
	if sslMode == "" {
		sslMode = "disable"
	}
	port := options.Port
	if port <= 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		quoteDSNValue(options.Host),
		quoteDSNValue(options.User),
		quoteDSNValue(options.Password),
		quoteDSNValue(options.Name),
		port,
		quoteDSNValue(sslMode),
	)
}

func OpenPostgres(options PostgresOptions) (*gorm.DB, error) {
	if strings.TrimSpace(options.Host) == "" || strings.TrimSpace(options.Name) == "" {
		return nil, errors.New("postgres host and database name are required")
	}

	database, err := gorm.Open(postgres.Open(options.DSN()), newGormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := ApplyMigrations(database); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

func quoteDSNValue(value string) string {
	if value == "" {
		return "''"
	}
	if !strings.ContainsAny(value, ` '\`) {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
