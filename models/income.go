package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income представляет оказанную услугу (продажу) с неизменяемым номером
// счета. Номер генерируется при создании из отметки времени и ID
// сотрудника и больше никогда не меняется.
type Income struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Сотрудник, оказавший услугу
	AgentID *uint `json:"agent_id" gorm:"index"`

	// Сумма услуги
	Amount decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`

	// Детали услуги
	Source       string `json:"source" gorm:"type:varchar(200)"`
	CustomerName string `json:"customer_name" gorm:"type:varchar(200)"`
	ServiceType  string `json:"service_type" gorm:"type:varchar(200)"`
	CarType      string `json:"car_type" gorm:"type:varchar(200)"`
	Note         string `json:"note" gorm:"type:text"`

	Date time.Time `json:"date" gorm:"type:date;not null;index"`

	// Уникальный номер счета, формат INV-<yyyymmddhhmmss>-<agentID>
	InvoiceNumber string `json:"invoice_number" gorm:"uniqueIndex;not null;type:varchar(50)"`
}

// TableName задает имя таблицы для модели Income
func (Income) TableName() string {
	return "incomes"
}
