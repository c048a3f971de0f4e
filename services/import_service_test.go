package services

import (
	"path/filepath"
	"testing"

	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, file.SetSheetName(file.GetSheetName(0), name))
			first = false
		} else {
			_, err := file.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, file.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, file.SaveAs(path))
	return path
}

func TestImportAgents(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewImportService(db)

	path := writeTestWorkbook(t, map[string][][]interface{}{
		"Team": {
			{"Name", "Phone", "E-mail"},
			{"Ahmed Ben Ali", "0600000001", "ahmed@example.com"},
			{"", "0600000002", "ignored@example.com"},
			{"Omar", "", ""},
		},
	})

	summary, err := service.ImportWorkbook(path, "import.xlsx", models.PrincipalAdmin, 1)
	require.NoError(t, err)

	// Строка без имени пропущена
	assert.Equal(t, 2, summary.Agents)
	require.Len(t, summary.Credentials, 2)
	assert.Equal(t, "ahmed.example.com", summary.Credentials[0].Username)
	assert.NotEmpty(t, summary.Credentials[0].TempPassword)

	var agents []models.Agent
	require.NoError(t, db.Order("id").Find(&agents).Error)
	require.Len(t, agents, 2)
	assert.Equal(t, "Ahmed Ben Ali", agents[0].Name)
	assert.Equal(t, "0600000001", agents[0].Phone)
	assert.True(t, agents[0].IsActive)

	// Сводка импорта записана в журнал
	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "import_excel").First(&entry).Error)
	assert.Contains(t, entry.Detail, "Agents:2")
}

func TestImportAgentsBatchDedupe(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewImportService(db)

	// Имя занято еще до импорта: дедупликация внутри транзакции импорта
	// должна видеть и существующие строки, и строки текущего пакета
	_, err = testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	path := writeTestWorkbook(t, map[string][][]interface{}{
		"Sheet1": {
			{"name"},
			{"Ahmed"},
			{"Ahmed"},
			{"Ahmed"},
		},
	})

	summary, err := service.ImportWorkbook(path, "dupes.xlsx", models.PrincipalAdmin, 1)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Agents)

	usernames := make([]string, 0, 3)
	for _, cred := range summary.Credentials {
		usernames = append(usernames, cred.Username)
	}
	assert.ElementsMatch(t, []string{"ahmed.2", "ahmed.3", "ahmed.4"}, usernames)
}

func TestImportPurchasesAndIncome(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewImportService(db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	path := writeTestWorkbook(t, map[string][][]interface{}{
		"Money": {
			{"Amount", "Source", "Agent_id", "Date", "Note"},
			{"150.00", "cash", agent.ID, "2026-01-10", "materials"},
			{"not-a-number", "cash", "", "", ""},
			{"80.00", "card", "unknown", "bad-date", ""},
		},
	})

	summary, err := service.ImportWorkbook(path, "money.xlsx", models.PrincipalAdmin, 1)
	require.NoError(t, err)

	// Лист с amount и source подходит под оба импорта: и расходы, и доходы
	assert.Equal(t, 2, summary.Purchases)
	assert.Equal(t, 2, summary.Incomes)

	var purchases []models.Purchase
	require.NoError(t, db.Order("id").Find(&purchases).Error)
	require.Len(t, purchases, 2)
	assert.Equal(t, "150.00", purchases[0].Amount.StringFixed(2))
	require.NotNil(t, purchases[0].AgentID)
	assert.Equal(t, agent.ID, *purchases[0].AgentID)
	assert.Equal(t, "2026-01-10", purchases[0].Date.Format("2006-01-02"))

	// Нечисловая ссылка на сотрудника дает nil, нечитаемая дата — сегодня
	assert.Nil(t, purchases[1].AgentID)

	var incomes []models.Income
	require.NoError(t, db.Order("id").Find(&incomes).Error)
	require.Len(t, incomes, 2)
	assert.Equal(t, "cash", incomes[0].Source)
	assert.NotEmpty(t, incomes[0].InvoiceNumber)
	assert.NotEqual(t, incomes[0].InvoiceNumber, incomes[1].InvoiceNumber)

	// Импорт доходов не создает заданий
	var tasks int64
	db.Model(&models.Task{}).Count(&tasks)
	assert.Equal(t, int64(0), tasks)
}

func TestImportUnreadableFileLogsError(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewImportService(db)

	path := filepath.Join(t.TempDir(), "missing.xlsx")
	_, err = service.ImportWorkbook(path, "missing.xlsx", models.PrincipalAdmin, 1)
	require.Error(t, err)

	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "import_error").First(&entry).Error)
	assert.Contains(t, entry.Detail, "missing.xlsx")
}

func TestImportIgnoresIrrelevantSheets(t *testing.T) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	service := NewImportService(db)

	path := writeTestWorkbook(t, map[string][][]interface{}{
		"Notes": {
			{"Title", "Body"},
			{"hello", "world"},
		},
	})

	summary, err := service.ImportWorkbook(path, "notes.xlsx", models.PrincipalAdmin, 1)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{}, summary)

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
