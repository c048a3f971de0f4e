package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestRouter собирает полный роутер приложения поверх тестовой базы в
// памяти. База подкладывается в контекст каждого запроса, как это делает
// продакшен-код через GetContextDB.
func setupTestRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	testutils.SetupTestConfig()
	gin.SetMode(gin.TestMode)

	db, err := testutils.SetupTestDB()
	require.NoError(t, err)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	})
	router.Use(middleware.Language())
	RegisterRoutes(router)

	return db, router
}

// adminToken выпускает JWT для тестового администратора
func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	admin, err := testutils.CreateTestAdmin(db, "admin", "admin123")
	require.NoError(t, err)
	token, err := middleware.IssueToken(middleware.Principal{Kind: models.PrincipalAdmin, ID: admin.ID})
	require.NoError(t, err)
	return token
}

// agentToken выпускает JWT для переданного сотрудника
func agentToken(t *testing.T, agent *models.Agent) string {
	t.Helper()
	token, err := middleware.IssueToken(middleware.Principal{Kind: models.PrincipalAgent, ID: agent.ID})
	require.NoError(t, err)
	return token
}

// doJSON выполняет JSON-запрос к тестовому роутеру
func doJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseBody разбирает JSON-ответ в map
func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
