package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backend_wrapshop/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrDuplicateInvoiceNumber возвращается при попытке сохранить доход с уже
// занятым номером счета
var ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

// IncomeService управляет доходами и связанными с ними счетами и заданиями.
// Каждый доход получает неизменяемый номер счета и задание-отметку об
// оклейке; доход, его счет и задание живут и умирают вместе, в одной
// транзакции.
type IncomeService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewIncomeService создает новый экземпляр IncomeService
func NewIncomeService(db *gorm.DB) *IncomeService {
	return &IncomeService{db: db, audit: NewAuditService(db)}
}

// IncomeInput — данные дохода от вызывающего кода
type IncomeInput struct {
	AgentID      *uint
	Amount       decimal.Decimal
	Source       string
	CustomerName string
	ServiceType  string
	CarType      string
	Note         string
	Date         time.Time
}

// GenerateInvoiceNumber возвращает номер счета вида
// INV-<yyyymmddhhmmss>-<agentID>. Для дохода без сотрудника используется
// нулевой ID.
func GenerateInvoiceNumber(now time.Time, agentID *uint) string {
	var id uint
	if agentID != nil {
		id = *agentID
	}
	return fmt.Sprintf("INV-%s-%d", now.Format("20060102150405"), id)
}

// isDuplicateKeyError распознает нарушение уникальности у разных драйверов
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Create сохраняет доход, выдает ему номер счета и создает связанное
// задание. Новые названия услуги и типа автомобиля пополняют справочники.
// Все изменения, включая запись журнала, атомарны.
func (s *IncomeService) Create(input IncomeInput, now time.Time, actorKind string, actorID uint) (*models.Income, error) {
	income := &models.Income{
		AgentID:       input.AgentID,
		Amount:        input.Amount,
		Source:        input.Source,
		CustomerName:  input.CustomerName,
		ServiceType:   input.ServiceType,
		CarType:       input.CarType,
		Note:          input.Note,
		Date:          input.Date,
		InvoiceNumber: GenerateInvoiceNumber(now, input.AgentID),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(income).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrDuplicateInvoiceNumber
			}
			return err
		}

		if err := s.ensureLookups(tx, input.ServiceType, input.CarType); err != nil {
			return err
		}

		task := buildLinkedTask(income)
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return s.audit.RecordTx(tx, actorKind, actorID, "add_income",
			fmt.Sprintf("Added income %s - Amount: %s MAD", income.InvoiceNumber, income.Amount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// Update изменяет доход и синхронизирует связанное задание. Номер счета не
// меняется никогда. Справочники при редактировании не пополняются.
func (s *IncomeService) Update(id uint, input IncomeInput) (*models.Income, error) {
	var income models.Income
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&income, id).Error; err != nil {
			return err
		}

		income.AgentID = input.AgentID
		income.Amount = input.Amount
		income.Source = input.Source
		income.CustomerName = input.CustomerName
		income.ServiceType = input.ServiceType
		income.CarType = input.CarType
		income.Note = input.Note
		income.Date = input.Date

		if err := tx.Save(&income).Error; err != nil {
			return err
		}

		// Односторонняя синхронизация: доход ведет, задание следует
		var task models.Task
		if err := tx.Where("income_id = ?", income.ID).First(&task).Error; err == nil {
			fillLinkedTask(&task, &income)
			if err := tx.Save(&task).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &income, nil
}

// Delete удаляет доход вместе со связанным заданием и записью журнала в
// одной транзакции
func (s *IncomeService) Delete(id uint, actorKind string, actorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var income models.Income
		if err := tx.First(&income, id).Error; err != nil {
			return err
		}
		if err := tx.Where("income_id = ?", income.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&income).Error; err != nil {
			return err
		}

		return s.audit.RecordTx(tx, actorKind, actorID, "delete_income",
			fmt.Sprintf("Deleted income %s - Amount: %s MAD", income.InvoiceNumber, income.Amount.StringFixed(2)))
	})
}

// ensureLookups добавляет новые значения в справочники услуг и типов
// автомобилей
func (s *IncomeService) ensureLookups(tx *gorm.DB, serviceType, carType string) error {
	if v := strings.TrimSpace(serviceType); v != "" {
		var st models.ServiceType
		if err := tx.Where(models.ServiceType{Name: v}).FirstOrCreate(&st).Error; err != nil {
			return err
		}
	}
	if v := strings.TrimSpace(carType); v != "" {
		var ct models.CarType
		if err := tx.Where(models.CarType{Name: v}).FirstOrCreate(&ct).Error; err != nil {
			return err
		}
	}
	return nil
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

// buildLinkedTask создает задание-отметку об оклейке для дохода. Счетчик
// автомобилей остается нулевым: оклейки в статистике засчитываются только
// заданиями, заведенными явно.
func buildLinkedTask(income *models.Income) *models.Task {
	task := &models.Task{
		AgentID:  income.AgentID,
		IncomeID: &income.ID,
	}
	fillLinkedTask(task, income)
	return task
}

// fillLinkedTask заполняет производные поля задания из дохода
func fillLinkedTask(task *models.Task, income *models.Income) {
	task.Title = fmt.Sprintf("Wrapping: %s - %s", orNA(income.ServiceType), orNA(income.CustomerName))
	task.Description = fmt.Sprintf(
		"Car type: %s\nAmount: %s\nSource: %s\nInvoice: %s",
		orNA(income.CarType),
		income.Amount.StringFixed(2),
		orNA(income.Source),
		income.InvoiceNumber,
	)
	task.AgentID = income.AgentID
	due := income.Date
	task.DueDate = &due
}
