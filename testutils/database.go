package testutils

import (
	"time"

	"backend_wrapshop/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB создает и настраивает тестовую базу данных в памяти
// Эта функция должна использоваться во всех тестах для обеспечения консистентности
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
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
	if err != nil {
		return nil, err
	}

	return db, nil
}

// CreateTestAdmin создает администратора с паролем password
func CreateTestAdmin(db *gorm.DB, username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Username: username, PasswordHash: string(hash)}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// CreateTestAgent создает активного сотрудника с учетными данными
func CreateTestAgent(db *gorm.DB, name, username, password string) (*models.Agent, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	agent := &models.Agent{
		Name:         name,
		Username:     &username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// CreateTestPurchase создает расход на указанную дату
func CreateTestPurchase(db *gorm.DB, agentID *uint, amount string, date time.Time) (*models.Purchase, error) {
	purchase := &models.Purchase{
		AgentID: agentID,
		Amount:  decimal.RequireFromString(amount),
		Date:    date,
	}
	if err := db.Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

// CreateTestIncome создает доход с заданным номером счета на указанную дату
func CreateTestIncome(db *gorm.DB, agentID *uint, amount, invoiceNumber string, date time.Time) (*models.Income, error) {
	income := &models.Income{
		AgentID:       agentID,
		Amount:        decimal.RequireFromString(amount),
		Source:        "cash",
		Date:          date,
		InvoiceNumber: invoiceNumber,
	}
	if err := db.Create(income).Error; err != nil {
		return nil, err
	}
	return income, nil
}
