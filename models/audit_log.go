package models

import (
	"time"
)

// Виды принципалов, от имени которых выполняются действия
const (
	PrincipalAdmin = "admin"
	PrincipalAgent = "agent"
)

// AuditLog представляет запись журнала действий. Журнал только
// дописывается: записи никогда не изменяются, администратор может лишь
// удалить отдельную запись. CreatedBy хранит ID действующего принципала,
// CreatedByKind — его вид, поскольку разрешенные действия выполняют и
// администраторы, и сотрудники.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`

	Action        string `json:"action" gorm:"type:varchar(200);index"`
	Detail        string `json:"detail" gorm:"type:text"`
	CreatedBy     uint   `json:"created_by"`
	CreatedByKind string `json:"created_by_kind" gorm:"type:varchar(10);default:'admin'"`
}

// TableName задает имя таблицы для модели AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
