package models

import (
	"strings"
	"time"
)

// APIToken представляет именованный токен доступа к JSON API. Значение
// токена показывается полностью только один раз при создании, дальше
// возвращается в замаскированном виде.
type APIToken struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`

	Name      string `json:"name" gorm:"not null;type:varchar(120)"`
	Token     string `json:"-" gorm:"uniqueIndex;not null;type:varchar(128)"`
	CreatedBy uint   `json:"created_by"`
	Revoked   bool   `json:"revoked" gorm:"default:false"`
}

// TableName задает имя таблицы для модели APIToken
func (APIToken) TableName() string {
	return "api_tokens"
}

// Masked возвращает замаскированное значение токена для списков
func (t *APIToken) Masked() string {
	if len(t.Token) <= 8 {
		return strings.Repeat("*", len(t.Token))
	}
	return t.Token[:4] + strings.Repeat("*", len(t.Token)-8) + t.Token[len(t.Token)-4:]
}
