package api

import (
	"net/http"
	"testing"

	"backend_wrapshop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTokenShowsValueOnce(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	w := doJSON(router, "POST", "/tokens", token, map[string]string{"name": "integration"})
	require.Equal(t, http.StatusCreated, w.Code)

	response := parseBody(t, w)
	data := response["data"].(map[string]interface{})
	value, _ := data["token"].(string)
	require.NotEmpty(t, value)

	// В списке значение замаскировано
	w = doJSON(router, "GET", "/tokens", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), value)
	assert.Contains(t, w.Body.String(), value[:4])
}

func TestRevokeToken(t *testing.T) {
	db, router := setupTestRouter(t)
	token := adminToken(t, db)

	require.NoError(t, db.Create(&models.APIToken{
		Name: "old", Token: "revoke-me-token", CreatedBy: 1,
	}).Error)

	w := doJSON(router, "POST", "/tokens/1/revoke", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var apiToken models.APIToken
	require.NoError(t, db.First(&apiToken, 1).Error)
	assert.True(t, apiToken.Revoked)
}
