package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultConfigFile = "platelog.yaml"
)

// Config is the process configuration. Values come from an optional YAML file, then
// a .env file, then the process environment, each layer overriding the last.
type Config struct {
	Port     string `yaml:"port"`
	TimeZone string `yaml:"tz"`

	Database struct {
		Driver   string `yaml:"driver"`
		Path     string `yaml:"path"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Estimation struct {
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"estimation"`

	HTTP struct {
		CORSOrigins    string `yaml:"cors_origins"`
		MaxUploadBytes int    `yaml:"max_upload_bytes"`
	} `yaml:"http"`

	Photos struct {
		Bucket   string `yaml:"bucket"`
		Region   string `yaml:"region"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"photos"`
}

func Default() Config {
	cfg := Config{
		Port:     "8000",
		TimeZone: "UTC",
	}
	cfg.Database.Path = filepath.Join("data", "platelog.db")
	cfg.Database.Port = 5432
	cfg.Database.SSLMode = "disable"
	cfg.Estimation.Model = "gemini-2.5-flash"
	cfg.Estimation.Timeout = 20 * time.Second
	cfg.HTTP.CORSOrigins = "http://localhost:5173"
	cfg.HTTP.MaxUploadBytes = 10 << 20
	return cfg
}

// Load builds the configuration. path names the YAML file; empty means PLATELOG_CONFIG
// or ./platelog.yaml when present.
func Load(path string) (Config, error) {
	cfg := Default()

	configPath := resolveConfigPath(path)
	if configPath != "" {
		if err := loadYAML(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring unreadable .env file: %v", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
		if strings.TrimSpace(cfg.Database.Host) != "" {
			cfg.Database.Driver = DriverPostgres
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	switch cfg.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.Database.Path) == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Estimation.Timeout <= 0 {
		return errors.New("ESTIMATION_TIMEOUT must be positive")
	}
	if cfg.HTTP.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Location resolves TimeZone, falling back to UTC.
func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", cfg.TimeZone)
		return time.UTC
	}
	return location
}

func (cfg Config) CORSOrigins() []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(cfg.HTTP.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func resolveConfigPath(path string) string {
	if path = strings.TrimSpace(path); path != "" {
		return path
	}
	if fromEnv := strings.TrimSpace(os.Getenv("PLATELOG_CONFIG")); fromEnv != "" {
		return fromEnv
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.TimeZone = getEnv("TZ", cfg.TimeZone)

	cfg.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", cfg.Database.Driver))
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Estimation.APIKey = getEnv("GOOGLE_API_KEY", cfg.Estimation.APIKey)
	cfg.Estimation.Model = getEnv("GEMINI_MODEL", cfg.Estimation.Model)

	cfg.HTTP.CORSOrigins = getEnv("CORS_ORIGINS", cfg.HTTP.CORSOrigins)

	cfg.Photos.Bucket = getEnv("PHOTO_BUCKET", cfg.Photos.Bucket)
	cfg.Photos.Region = getEnv("PHOTO_REGION", cfg.Photos.Region)
	cfg.Photos.Endpoint = getEnv("PHOTO_ENDPOINT", cfg.Photos.Endpoint)

	var err error
	if cfg.Database.Port, err = getEnvInt("DB_PORT", cfg.Database.Port); err != nil {
		return err
	}
	if cfg.HTTP.MaxUploadBytes, err = getEnvInt("MAX_UPLOAD_BYTES", cfg.HTTP.MaxUploadBytes); err != nil {
		return err
	}
	if raw := getEnv("ESTIMATION_TIMEOUT", ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse ESTIMATION_TIMEOUT: %w", err)
		}
		cfg.Estimation.Timeout = timeout
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
