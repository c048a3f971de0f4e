package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)
	agentID := uint(7)

	assert.Equal(t, "INV-20260102150405-7", GenerateInvoiceNumber(now, &agentID))
	assert.Equal(t, "INV-20260102150405-0", GenerateInvoiceNumber(now, nil))
}

func TestIncomeCreateLinksTask(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewIncomeService(db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	now := time.Now()
	income, err := service.Create(IncomeInput{
		AgentID:      &agent.ID,
		Amount:       decimal.RequireFromString("1500.00"),
		Source:       "cash",
		CustomerName: "Karim",
		ServiceType:  "Full wrap",
		CarType:      "SUV",
		Date:         time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local),
	}, now, models.PrincipalAdmin, 1)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(income.InvoiceNumber, "INV-"))
	assert.True(t, strings.HasSuffix(income.InvoiceNumber, fmt.Sprintf("-%d", agent.ID)))

	var task models.Task
	require.NoError(t, db.Where("income_id = ?", income.ID).First(&task).Error)
	assert.Equal(t, "Wrapping: Full wrap - Karim", task.Title)
	assert.Contains(t, task.Description, "Car type: SUV")
	assert.Contains(t, task.Description, income.InvoiceNumber)
	assert.Equal(t, agent.ID, *task.AgentID)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, income.Date.Format("2006-01-02"), task.DueDate.Format("2006-01-02"))

	// Связанное задание не засчитывает автомобилей: в статистику оклейки
	// попадают только явно заведенные задания
	assert.Equal(t, 0, task.CarCount)

	// Создание дохода зафиксировано в журнале
	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "add_income").First(&entry).Error)
	assert.Contains(t, entry.Detail, income.InvoiceNumber)

	// Справочники пополнены
	var serviceCount, carCount int64
	db.Model(&models.ServiceType{}).Where("name = ?", "Full wrap").Count(&serviceCount)
	db.Model(&models.CarType{}).Where("name = ?", "SUV").Count(&carCount)
	assert.Equal(t, int64(1), serviceCount)
	assert.Equal(t, int64(1), carCount)
}

func TestIncomeCreateEmptyFieldsUseNA(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewIncomeService(db)

	income, err := service.Create(IncomeInput{
		Amount: decimal.RequireFromString("200.00"),
		Date:   time.Now(),
	}, time.Now(), models.PrincipalAdmin, 1)
	require.NoError(t, err)

	var task models.Task
	require.NoError(t, db.Where("income_id = ?", income.ID).First(&task).Error)
	assert.Equal(t, "Wrapping: N/A - N/A", task.Title)

	// Пустые значения не попадают в справочники
	var count int64
	db.Model(&models.ServiceType{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestIncomeUpdateSyncsTaskAndKeepsInvoice(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewIncomeService(db)

	income, err := service.Create(IncomeInput{
		Amount:       decimal.RequireFromString("100.00"),
		CustomerName: "Karim",
		ServiceType:  "Full wrap",
		Date:         time.Now(),
	}, time.Now(), models.PrincipalAdmin, 1)
	require.NoError(t, err)
	originalInvoice := income.InvoiceNumber

	updated, err := service.Update(income.ID, IncomeInput{
		Amount:       decimal.RequireFromString("250.00"),
		CustomerName: "Omar",
		ServiceType:  "Partial wrap",
		CarType:      "Sedan",
		Date:         time.Now(),
	})
	require.NoError(t, err)

	// Номер счета неизменяем
	assert.Equal(t, originalInvoice, updated.InvoiceNumber)
	assert.Equal(t, "250.00", updated.Amount.StringFixed(2))

	var task models.Task
	require.NoError(t, db.Where("income_id = ?", income.ID).First(&task).Error)
	assert.Equal(t, "Wrapping: Partial wrap - Omar", task.Title)
	assert.Contains(t, task.Description, "Car type: Sedan")

	// Редактирование не пополняет справочники
	var count int64
	db.Model(&models.ServiceType{}).Where("name = ?", "Partial wrap").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestIncomeDeleteRemovesTask(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewIncomeService(db)

	income, err := service.Create(IncomeInput{
		Amount: decimal.RequireFromString("100.00"),
		Date:   time.Now(),
	}, time.Now(), models.PrincipalAdmin, 1)
	require.NoError(t, err)

	require.NoError(t, service.Delete(income.ID, models.PrincipalAdmin, 1))

	var incomes, tasks int64
	db.Model(&models.Income{}).Count(&incomes)
	db.Model(&models.Task{}).Count(&tasks)
	assert.Equal(t, int64(0), incomes)
	assert.Equal(t, int64(0), tasks)

	// Удаление зафиксировано в журнале той же транзакцией
	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "delete_income").First(&entry).Error)
	assert.Contains(t, entry.Detail, income.InvoiceNumber)
}

func TestIncomeCreateDuplicateInvoice(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewIncomeService(db)

	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)
	input := IncomeInput{
		Amount: decimal.RequireFromString("100.00"),
		Date:   now,
	}

	_, err = service.Create(input, now, models.PrincipalAdmin, 1)
	require.NoError(t, err)

	// Тот же момент времени и тот же сотрудник дают тот же номер
	_, err = service.Create(input, now, models.PrincipalAdmin, 1)
	assert.ErrorIs(t, err, ErrDuplicateInvoiceNumber)

	// Неудачная попытка не оставляет ни осиротевших заданий, ни записей
	// журнала
	var tasks, audits int64
	db.Model(&models.Task{}).Count(&tasks)
	db.Model(&models.AuditLog{}).Where("action = ?", "add_income").Count(&audits)
	assert.Equal(t, int64(1), tasks)
	assert.Equal(t, int64(1), audits)
}
