// Package config provides configuration management for sitecheck.
// Values live in the database and can be overridden per-process through
// SITECHECK_-prefixed environment variables.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemConfig represents a configuration entry stored in database
type SystemConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Key       string    `gorm:"uniqueIndex;not null;size:100"`
	Value     string    `gorm:"type:text"`
	Category  string    `gorm:"size:50;index"`
	IsSecret  bool      `gorm:"default:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SystemConfig
func (SystemConfig) TableName() string {
	return "system_config"
}

// Service manages configuration with an in-memory cache
type Service struct {
	db    *gorm.DB
	cache map[string]string
	mu    sync.RWMutex
}

// NewService creates a new config service
func NewService(db *gorm.DB) *Service {
	svc := &Service{
		db:    db,
		cache: make(map[string]string),
	}
	svc.loadCache()
	return svc
}

// loadCache loads all config values into memory
func (s *Service) loadCache() {
	var configs []SystemConfig
	if err := s.db.Find(&configs).Error; err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cfg := range configs {
		s.cache[cfg.Key] = cfg.Value
	}
}

// Get returns a config value by key
func (s *Service) Get(key string) string {
	// Environment variable override wins
	if envVal := os.Getenv("SITECHECK_" + key); envVal != "" {
		return envVal
	}

	s.mu.RLock()
	if val, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return val
	}
	s.mu.RUnlock()

	var cfg SystemConfig
	if err := s.db.Where("key = ?", key).First(&cfg).Error; err == nil {
		s.mu.Lock()
		s.cache[key] = cfg.Value
		s.mu.Unlock()
		return cfg.Value
	}

	return ""
}

// GetWithDefault returns a config value or default if not found
func (s *Service) GetWithDefault(key, defaultValue string) string {
	if val := s.Get(key); val != "" {
		return val
	}
	return defaultValue
}

// GetInt returns a config value as int
func (s *Service) GetInt(key string, defaultValue int) int {
	val := s.Get(key)
	if val == "" {
		return defaultValue
	}
	if i, err := strconv.Atoi(val); err == nil {
		return i
	}
	return defaultValue
}

// GetBool returns a config value as bool
func (s *Service) GetBool(key string, defaultValue bool) bool {
	val := s.Get(key)
	if val == "" {
		return defaultValue
	}
	return val == "true" || val == "1" || val == "yes"
}

// Set sets a config value
func (s *Service) Set(key, value, category string, isSecret bool) error {
	cfg := SystemConfig{
		ID:        uuid.New(),
		Key:       key,
		Value:     value,
		Category:  category,
		IsSecret:  isSecret,
		UpdatedAt: time.Now(),
	}

	// Upsert
	err := s.db.Where("key = ?", key).Assign(map[string]interface{}{
		"value":     value,
		"category":  category,
		"is_secret": isSecret,
	}).FirstOrCreate(&cfg).Error
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()

	return nil
}

// SetupDefaults seeds default configuration values for keys not yet set
func (s *Service) SetupDefaults() error {
	defaults := map[string]struct {
		value    string
		category string
		secret   bool
	}{
		"SERVER_PORT": {"8090", "server", false},
		"SERVER_MODE": {"debug", "server", false},

		"JWT_SECRET": {GenerateJWTSecret(), "auth", true},

		"CORS_ALLOWED_ORIGINS":   {"http://localhost:3000,http://localhost:8080", "cors", false},
		"CORS_ALLOW_CREDENTIALS": {"true", "cors", false},

		"SEED_SOURCE_PATH": {"seed/checklists.xlsx", "seed", false},
	}

	for key, cfg := range defaults {
		if s.Get(key) == "" {
			if err := s.Set(key, cfg.value, cfg.category, cfg.secret); err != nil {
				return err
			}
		}
	}

	return nil
}

// GenerateJWTSecret generates a secure random JWT secret
func GenerateJWTSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "sitecheck-fallback-secret-" + uuid.New().String()
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Config holds the runtime configuration
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	CORS   CORSConfig
	Seed   SeedConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
	Mode string
}

// AuthConfig holds identity settings
type AuthConfig struct {
	JWTSecret string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// SeedConfig holds seed import settings
type SeedConfig struct {
	SourcePath string
}

// LoadConfig loads configuration from database into a Config struct
func (s *Service) LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: s.GetWithDefault("SERVER_PORT", "8090"),
			Mode: s.GetWithDefault("SERVER_MODE", "debug"),
		},
		Auth: AuthConfig{
			JWTSecret: s.GetWithDefault("JWT_SECRET", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitString(s.GetWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			AllowCredentials: s.GetBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Seed: SeedConfig{
			SourcePath: s.GetWithDefault("SEED_SOURCE_PATH", "seed/checklists.xlsx"),
		},
	}
}

// splitString splits a comma-separated string into a slice
func splitString(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
