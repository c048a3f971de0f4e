package models

import (
	"time"
)

// Agent представляет сотрудника, выполняющего работы по оклейке автомобилей.
// Учетные данные создаются автоматически при создании сотрудника: имя
// пользователя выводится из email или имени, временный пароль показывается
// один раз.
type Agent struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Основные поля
	Name  string `json:"name" gorm:"not null;type:varchar(120)"`
	Phone string `json:"phone" gorm:"type:varchar(50)"`
	Email string `json:"email" gorm:"type:varchar(120)"`

	// Произвольные параметры (JSON-строка)
	Params string `json:"params" gorm:"type:text"`

	// Учетные данные для входа сотрудника. Username может быть NULL,
	// уникальность проверяется только для заполненных значений.
	Username     *string `json:"username" gorm:"uniqueIndex;type:varchar(80)"`
	PasswordHash string  `json:"-" gorm:"type:varchar(200)"`
	IsActive     bool    `json:"is_active" gorm:"default:true"`
}

// TableName задает имя таблицы для модели Agent
func (Agent) TableName() string {
	return "agents"
}
