package api

import (
	"net/http"
	"time"

	"backend_wrapshop/middleware"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
)

// DashboardAPI представляет API сводок для панелей управления
type DashboardAPI struct{}

// NewDashboardAPI создает новый экземпляр DashboardAPI
func NewDashboardAPI() *DashboardAPI {
	return &DashboardAPI{}
}

// GetAdminDashboard возвращает сводку текущего месяца для администратора
func (api *DashboardAPI) GetAdminDashboard(c *gin.Context) {
	db := middleware.GetContextDB(c)

	stats, err := services.NewAggregationService(db).AdminDashboard(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчете сводки"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetAgentDashboard возвращает личную сводку сотрудника. Администратор
// может запросить сводку любого сотрудника через agent_id.
func (api *DashboardAPI) GetAgentDashboard(c *gin.Context) {
	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	agentID := principal.ID
	if principal.IsAdmin() {
		requested := QueryUint(c, "agent_id")
		if requested == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр 'agent_id' обязателен"})
			return
		}
		agentID = *requested
	}

	stats, err := services.NewAggregationService(db).AgentDashboard(agentID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчете сводки"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
