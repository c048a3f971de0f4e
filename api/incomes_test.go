package api

import (
	"net/http"
	"testing"
	"time"

	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIncomeIssuesInvoiceAndTask(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	w := doJSON(router, "POST", "/incomes", token, IncomeRequest{
		AgentID:      &agent.ID,
		Amount:       decimal.RequireFromString("1200.00"),
		Source:       "cash",
		CustomerName: "Karim",
		ServiceType:  "Full wrap",
		CarType:      "SUV",
		Date:         "2026-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	response := parseBody(t, w)
	invoiceNumber, _ := response["invoice_number"].(string)
	assert.Contains(t, invoiceNumber, "INV-")

	var task models.Task
	require.NoError(t, db.Where("income_id IS NOT NULL").First(&task).Error)
	assert.Equal(t, "Wrapping: Full wrap - Karim", task.Title)
}

func TestCreateIncomeAgentForcedToSelf(t *testing.T) {
	db, router := setupTestRouter(t)

	owner, err := testutils.CreateTestAgent(db, "Owner", "owner", "pw")
	require.NoError(t, err)
	other, err := testutils.CreateTestAgent(db, "Other", "other", "pw")
	require.NoError(t, err)

	// Сотрудник присылает чужой agent_id, запись все равно на него
	w := doJSON(router, "POST", "/incomes", agentToken(t, owner), IncomeRequest{
		AgentID: &other.ID,
		Amount:  decimal.RequireFromString("100.00"),
		Source:  "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var income models.Income
	require.NoError(t, db.First(&income).Error)
	require.NotNil(t, income.AgentID)
	assert.Equal(t, owner.ID, *income.AgentID)
}

func TestGetIncomesAgentScoped(t *testing.T) {
	db, router := setupTestRouter(t)

	owner, err := testutils.CreateTestAgent(db, "Owner", "owner", "pw")
	require.NoError(t, err)
	other, err := testutils.CreateTestAgent(db, "Other", "other", "pw")
	require.NoError(t, err)

	now := time.Now()
	_, err = testutils.CreateTestIncome(db, &owner.ID, "100.00", "INV-1", now)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &other.ID, "200.00", "INV-2", now)
	require.NoError(t, err)

	w := doJSON(router, "GET", "/incomes", agentToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseBody(t, w)
	assert.Equal(t, float64(1), response["count"])
	assert.NotContains(t, w.Body.String(), "INV-2")
}

func TestGetIncomesDateAndSourceFilters(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	require.NoError(t, db.Create(&models.Income{
		Amount:        decimal.RequireFromString("100.00"),
		Source:        "cash",
		InvoiceNumber: "INV-jan",
		Date:          time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local),
	}).Error)
	require.NoError(t, db.Create(&models.Income{
		Amount:        decimal.RequireFromString("200.00"),
		Source:        "bank transfer",
		InvoiceNumber: "INV-feb",
		Date:          time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local),
	}).Error)

	// Диапазон дат включает обе границы
	w := doJSON(router, "GET", "/incomes?from=2026-01-01&to=2026-01-31", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := parseBody(t, w)
	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, "100", response["total"])

	// Источник ищется по подстроке
	w = doJSON(router, "GET", "/incomes?source=bank", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "INV-feb")
	assert.NotContains(t, w.Body.String(), "INV-jan")
}

func TestUpdateIncomeAdminOnlyKeepsInvoice(t *testing.T) {
	db, router := setupTestRouter(t)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &agent.ID, "100.00", "INV-keep", time.Now())
	require.NoError(t, err)

	payload := IncomeRequest{
		AgentID: &agent.ID,
		Amount:  decimal.RequireFromString("999.00"),
		Source:  "card",
	}

	w := doJSON(router, "PUT", "/incomes/1", agentToken(t, agent), payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "PUT", "/incomes/1", adminToken(t, db), payload)
	require.Equal(t, http.StatusOK, w.Code)

	var income models.Income
	require.NoError(t, db.First(&income, 1).Error)
	assert.Equal(t, "INV-keep", income.InvoiceNumber)
	assert.Equal(t, "999.00", income.Amount.StringFixed(2))
}

func TestInvoicePDFOwnershipCheck(t *testing.T) {
	db, router := setupTestRouter(t)

	owner, err := testutils.CreateTestAgent(db, "Owner", "owner", "pw")
	require.NoError(t, err)
	intruder, err := testutils.CreateTestAgent(db, "Intruder", "intruder", "pw")
	require.NoError(t, err)

	_, err = testutils.CreateTestIncome(db, &owner.ID, "100.00", "INV-pdf", time.Now())
	require.NoError(t, err)

	// Чужой счет недоступен сотруднику
	w := doJSON(router, "GET", "/incomes/1/invoice", agentToken(t, intruder), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Свой счет отдается как PDF
	w = doJSON(router, "GET", "/incomes/1/invoice", agentToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String()[:8], "%PDF")

	// Администратору доступен любой счет
	w = doJSON(router, "GET", "/incomes/1/invoice", adminToken(t, db), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteIncomeRemovesLinkedTask(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	w := doJSON(router, "POST", "/incomes", token, IncomeRequest{
		Amount: decimal.RequireFromString("100.00"),
		Source: "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "DELETE", "/incomes/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var incomes, tasks int64
	db.Model(&models.Income{}).Count(&incomes)
	db.Model(&models.Task{}).Count(&tasks)
	assert.Equal(t, int64(0), incomes)
	assert.Equal(t, int64(0), tasks)
}
