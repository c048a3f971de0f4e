package api

import (
	"net/http"
	"testing"
	"time"

	"backend_wrapshop/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDashboardStats(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	now := time.Now()
	_, err = testutils.CreateTestIncome(db, &agent.ID, "500.00", "INV-1", now)
	require.NoError(t, err)
	_, err = testutils.CreateTestPurchase(db, &agent.ID, "200.00", now)
	require.NoError(t, err)

	w := doJSON(router, "GET", "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseBody(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "500", data["total_income"])
	assert.Equal(t, "200", data["total_purchases"])
	assert.Equal(t, "300", data["profit"])
	assert.Equal(t, float64(1), data["agents_count"])

	// Лучший сотрудник месяца определен по расходам
	topAgent, ok := data["top_agent"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ahmed", topAgent["name"])
}

func TestAdminDashboardDeniedForAgent(t *testing.T) {
	db, router := setupTestRouter(t)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	w := doJSON(router, "GET", "/dashboard", agentToken(t, agent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAgentDashboardEndpoint(t *testing.T) {
	db, router := setupTestRouter(t)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &agent.ID, "120.00", "INV-1", time.Now())
	require.NoError(t, err)

	// Сотрудник получает свою сводку без параметров
	w := doJSON(router, "GET", "/dashboard/agent", agentToken(t, agent), nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseBody(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "120", data["total_income_this_month"])
	assert.Equal(t, float64(1), data["ranking"])

	// Администратору нужен явный agent_id
	admin := adminToken(t, db)
	w = doJSON(router, "GET", "/dashboard/agent", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "GET", "/dashboard/agent?agent_id=1", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPerformanceReportEndpoint(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	_, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	w := doJSON(router, "GET", "/reports/performance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseBody(t, w)
	assert.Equal(t, float64(1), response["count"])
}
