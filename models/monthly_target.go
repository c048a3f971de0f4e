package models

import (
	"time"
)

// MonthlyTarget представляет месячный план сотрудника по количеству
// оклеенных автомобилей. Запись уникальна по тройке (сотрудник, год,
// месяц); повторная установка обновляет существующую запись.
type MonthlyTarget struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AgentID uint `json:"agent_id" gorm:"not null;uniqueIndex:idx_target_agent_month"`
	Year    int  `json:"year" gorm:"not null;uniqueIndex:idx_target_agent_month"`
	Month   int  `json:"month" gorm:"not null;uniqueIndex:idx_target_agent_month"` // 1-12

	// План: количество оклеенных автомобилей
	TargetCars int `json:"target_cars" gorm:"default:0"`

	// Администратор, установивший план
	CreatedBy uint `json:"created_by"`

	Agent *Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

// TableName задает имя таблицы для модели MonthlyTarget
func (MonthlyTarget) TableName() string {
	return "monthly_targets"
}
