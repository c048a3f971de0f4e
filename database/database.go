package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"backend_wrapshop/config"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists создает базу данных PostgreSQL, если она не
// существует. Для SQLite ничего не делает: файл создается при подключении.
func CreateDatabaseIfNotExists() error {
	cfg := config.GetConfig()
	if cfg.Database.Driver != "postgres" {
		return nil
	}

	// Подключаемся к PostgreSQL без указания конкретной БД (к postgres по умолчанию)
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.SSLMode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к PostgreSQL: %w", err)
	}
	defer db.Close()

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		return fmt.Errorf("не удалось проверить подключение к PostgreSQL: %w", err)
	}

	// Проверяем, существует ли база данных
	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	if err := db.QueryRow(query, cfg.Database.Name).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка при проверке существования базы данных: %w", err)
	}

	if exists {
		log.Printf("✅ База данных '%s' уже существует", cfg.Database.Name)
		return nil
	}

	// Создаем базу данных
	createQuery := fmt.Sprintf("CREATE DATABASE %s;", cfg.Database.Name)
	if _, err := db.Exec(createQuery); err != nil {
		return fmt.Errorf("не удалось создать базу данных '%s': %w", cfg.Database.Name, err)
	}

	log.Printf("✅ База данных '%s' успешно создана", cfg.Database.Name)
	return nil
}

// ConnectDatabase инициализирует подключение к базе данных согласно
// конфигурации (SQLite-файл по умолчанию, PostgreSQL по DB_DRIVER=postgres)
func ConnectDatabase() error {
	cfg := config.GetConfig()

	logLevel := logger.Warn
	if cfg.App.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var err error
	switch cfg.Database.Driver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.GetPostgresDSN()), gormConfig)
	default:
		// Каталог для файла базы должен существовать до подключения
		if dir := filepath.Dir(cfg.Database.Path); dir != "." && dir != "" {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return fmt.Errorf("не удалось создать каталог базы данных: %w", mkErr)
			}
		}
		DB, err = gorm.Open(sqlite.Open(cfg.Database.Path), gormConfig)
	}
	if err != nil {
		return fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить *sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log.Printf("✅ Успешно подключено к базе данных (%s)", cfg.Database.Driver)
	return nil
}

// GetDB возвращает экземпляр базы данных
func GetDB() *gorm.DB {
	return DB
}

// DatabaseFilePath возвращает путь к файлу базы данных, если текущий драйвер
// файловый. Используется эндпоинтом резервного копирования.
func DatabaseFilePath() (string, error) {
	cfg := config.GetConfig()
	if cfg.Database.Driver != "sqlite" {
		return "", fmt.Errorf("резервная копия файлом доступна только для драйвера sqlite, текущий: %s", cfg.Database.Driver)
	}
	return cfg.Database.Path, nil
}
