package models

import (
	"time"
)

// Admin представляет администратора системы
type Admin struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Учетные данные
	Username     string `json:"username" gorm:"uniqueIndex;not null;type:varchar(80)"`
	PasswordHash string `json:"-" gorm:"not null;type:varchar(200)"` // Хеш пароля не возвращается в JSON
}

// TableName задает имя таблицы для модели Admin
func (Admin) TableName() string {
	return "admins"
}
