package testutils

import (
	"time"

	"backend_wrapshop/config"
)

// SetupTestConfig устанавливает конфигурацию для тестов без чтения
// переменных окружения
func SetupTestConfig() *config.Config {
	cfg := &config.Config{
		App: config.AppConfig{
			Env:         "test",
			Port:        "8080",
			Host:        "127.0.0.1",
			Debug:       false,
			DefaultLang: "en",
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   ":memory:",
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret",
			ExpiresIn: time.Hour,
			Issuer:    "wrapshop-test",
		},
		Storage: config.StorageConfig{
			UploadDir:         "uploads",
			AllowedExtensions: []string{"xlsx", "xls", "csv"},
			MaxUploadSize:     16 << 20,
		},
	}
	config.GlobalConfig = cfg
	return cfg
}
