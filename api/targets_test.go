package api

import (
	"net/http"
	"testing"
	"time"

	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertTarget(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	w := doJSON(router, "POST", "/targets", token, TargetRequest{
		AgentID: agent.ID, Year: 2026, Month: 7, TargetCars: 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Повторная установка обновляет план, а не создает второй
	w = doJSON(router, "POST", "/targets", token, TargetRequest{
		AgentID: agent.ID, Year: 2026, Month: 7, TargetCars: 15,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var targets []models.MonthlyTarget
	require.NoError(t, db.Find(&targets).Error)
	require.Len(t, targets, 1)
	assert.Equal(t, 15, targets[0].TargetCars)
}

func TestUpsertTargetUnknownAgent(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	w := doJSON(router, "POST", "/targets", token, TargetRequest{
		AgentID: 999, Year: 2026, Month: 7, TargetCars: 10,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTargetsWithProgress(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.MonthlyTarget{
		AgentID: agent.ID, Year: 2026, Month: 8, TargetCars: 4,
	}).Error)

	task := models.Task{Title: "wrap", AgentID: &agent.ID, CarCount: 2}
	task.MarkCompleted(time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local))
	require.NoError(t, db.Create(&task).Error)

	w := doJSON(router, "GET", "/targets?year=2026&month=8", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseBody(t, w)
	data, ok := response["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)

	row := data[0].(map[string]interface{})
	assert.Equal(t, float64(4), row["target_cars"])
	assert.Equal(t, float64(2), row["achieved"])
	assert.Equal(t, float64(50), row["percentage"])
}

func TestDeleteTarget(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.MonthlyTarget{
		AgentID: agent.ID, Year: 2026, Month: 9, TargetCars: 5,
	}).Error)

	w := doJSON(router, "DELETE", "/targets/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.MonthlyTarget{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
