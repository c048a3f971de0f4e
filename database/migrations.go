package database

import (
	"fmt"
	"log"
	"time"

	"backend_wrapshop/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SchemaMigration представляет запись журнала примененных миграций. Журнал
// явный и версионированный: состояние схемы никогда не определяется
// заглядыванием в существующие колонки.
type SchemaMigration struct {
	ID        uint      `gorm:"primarykey"`
	Version   int       `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null;type:varchar(200)"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName задает имя таблицы журнала миграций
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

type migration struct {
	Version int
	Name    string
	Run     func(db *gorm.DB) error
}

// migrations — упорядоченный список всех миграций схемы. Новые шаги
// добавляются строго в конец со следующим номером версии.
var migrations = []migration{
	{
		Version: 1,
		Name:    "base schema",
		Run: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.Admin{},
				&models.Agent{},
				&models.Income{},
				&models.Task{},
				&models.Purchase{},
				&models.MonthlyTarget{},
				&models.AuditLog{},
				&models.APIToken{},
				&models.FileUpload{},
				&models.ServiceType{},
				&models.CarType{},
			)
		},
	},
}

// RunMigrations применяет все еще не примененные миграции в порядке версий.
// Вызывается один раз при старте процесса, до начала обслуживания запросов.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("не удалось создать журнал миграций: %w", err)
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", m.Version).Count(&applied).Error; err != nil {
			return fmt.Errorf("ошибка чтения журнала миграций: %w", err)
		}
		if applied > 0 {
			continue
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Run(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name}).Error
		}); err != nil {
			return fmt.Errorf("миграция %d (%s) не применилась: %w", m.Version, m.Name, err)
		}
		log.Printf("✅ Миграция %d применена: %s", m.Version, m.Name)
	}

	return nil
}

// SeedDefaultAdmin создает администратора по умолчанию, если ни одного
// администратора с таким именем еще нет. Идемпотентна.
func SeedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Admin{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("не удалось захешировать пароль администратора: %w", err)
	}

	if err := db.Create(&models.Admin{Username: "admin", PasswordHash: string(hash)}).Error; err != nil {
		return err
	}
	log.Println("✅ Создан администратор по умолчанию (admin)")
	return nil
}
