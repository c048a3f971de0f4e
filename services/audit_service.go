package services

import (
	"log"

	"backend_wrapshop/models"

	"gorm.io/gorm"
)

// AuditService пишет журнал действий. Журнал только дописывается; каждое
// изменяющее действие фиксируется с видом и ID действующего принципала.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService создает новый экземпляр AuditService
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record добавляет запись журнала. Ошибка записи журнала не прерывает
// основную операцию, а лишь логируется.
func (s *AuditService) Record(kind string, actorID uint, action, detail string) {
	entry := models.AuditLog{
		Action:        action,
		Detail:        detail,
		CreatedBy:     actorID,
		CreatedByKind: kind,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to write audit log (%s): %v", action, err)
	}
}

// RecordTx добавляет запись журнала внутри переданной транзакции: запись
// должна откатиться вместе с основной операцией.
func (s *AuditService) RecordTx(tx *gorm.DB, kind string, actorID uint, action, detail string) error {
	return tx.Create(&models.AuditLog{
		Action:        action,
		Detail:        detail,
		CreatedBy:     actorID,
		CreatedByKind: kind,
	}).Error
}
