package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase представляет расход (закупку материалов и т.п.)
type Purchase struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Сотрудник, на которого записан расход (может отсутствовать)
	AgentID *uint `json:"agent_id" gorm:"index"`

	// Сумма расхода
	Amount decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`

	Note string    `json:"note" gorm:"type:text"`
	Date time.Time `json:"date" gorm:"type:date;not null;index"`
}

// TableName задает имя таблицы для модели Purchase
func (Purchase) TableName() string {
	return "purchases"
}
