package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"backend_wrapshop/config"
	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	_, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	w := doJSON(router, "GET", "/settings/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseBody(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["agents"])
	assert.Equal(t, float64(0), data["tasks"])
}

func TestDownloadBackup(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	path := filepath.Join(t.TempDir(), "app.db")
	require.NoError(t, os.WriteFile(path, []byte("sqlite-bytes"), 0o644))
	config.GetConfig().Database.Driver = "sqlite"
	config.GetConfig().Database.Path = path

	w := doJSON(router, "GET", "/settings/backup", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sqlite-bytes", w.Body.String())

	// Скачивание резервной копии фиксируется в журнале
	var entry models.AuditLog
	require.NoError(t, db.Where("action = ?", "download_backup").First(&entry).Error)

	// Для нефайлового драйвера копия недоступна и в журнал не попадает
	config.GetConfig().Database.Driver = "postgres"
	w = doJSON(router, "GET", "/settings/backup", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.AuditLog{}).Where("action = ?", "download_backup").Count(&count)
	assert.Equal(t, int64(1), count)
}
