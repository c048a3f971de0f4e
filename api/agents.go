package api

import (
	"fmt"
	"net/http"

	"backend_wrapshop/i18n"
	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AgentAPI представляет API для работы с сотрудниками
type AgentAPI struct{}

// NewAgentAPI создает новый экземпляр AgentAPI
func NewAgentAPI() *AgentAPI {
	return &AgentAPI{}
}

// CreateAgentRequest представляет запрос на создание сотрудника
type CreateAgentRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Params string `json:"params"`
}

// UpdateAgentRequest представляет запрос на изменение сотрудника
type UpdateAgentRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Params   *string `json:"params"`
	IsActive *bool   `json:"is_active"`
}

// GetAgents возвращает список сотрудников с фильтрацией
func (api *AgentAPI) GetAgents(c *gin.Context) {
	db := middleware.GetContextDB(c)

	var agents []models.Agent
	query := db.Model(&models.Agent{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	if isActive := c.Query("is_active"); isActive == "true" {
		query = query.Where("is_active = ?", true)
	} else if isActive == "false" {
		query = query.Where("is_active = ?", false)
	}

	if err := query.Order("name").Find(&agents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка сотрудников"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agents, "count": len(agents)})
}

// GetAgent возвращает информацию о конкретном сотруднике
func (api *AgentAPI) GetAgent(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var agent models.Agent
	if err := db.First(&agent, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сотрудник не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении сотрудника"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agent})
}

// CreateAgent создает сотрудника и автоматические учетные данные для входа.
// Временный пароль возвращается один раз и нигде больше не хранится в
// открытом виде.
func (api *AgentAPI) CreateAgent(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	credentials := services.NewCredentialService(db)

	base := req.Name
	if req.Email != "" {
		base = req.Email
	}
	username, err := credentials.DeriveUsername(base, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании имени пользователя"})
		return
	}
	tempPassword, err := services.GenerateTempPassword()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при генерации пароля"})
		return
	}
	hash, err := services.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при хешировании пароля"})
		return
	}

	agent := models.Agent{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Params:       req.Params,
		Username:     &username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.Create(&agent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании сотрудника: " + err.Error()})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "create_agent",
		fmt.Sprintf("Created agent %s (username %s)", agent.Name, username))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Сотрудник успешно создан",
		"data":    agent,
		"credentials": gin.H{
			"username":      username,
			"temp_password": tempPassword,
		},
	})
}

// UpdateAgent обновляет информацию о сотруднике
func (api *AgentAPI) UpdateAgent(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var agent models.Agent
	if err := db.First(&agent, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сотрудник не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске сотрудника"})
		}
		return
	}

	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	if req.Name != "" {
		agent.Name = req.Name
	}
	if req.Phone != nil {
		agent.Phone = *req.Phone
	}
	if req.Email != nil {
		agent.Email = *req.Email
	}
	if req.Params != nil {
		agent.Params = *req.Params
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}

	if err := db.Save(&agent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении сотрудника"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "edit_agent",
		fmt.Sprintf("Edited agent %d (%s)", agent.ID, agent.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Сотрудник успешно обновлен", "data": agent})
}

// DeleteAgent удаляет сотрудника. Удаление блокируется, пока на сотрудника
// ссылаются задания, расходы, доходы или месячные планы.
func (api *AgentAPI) DeleteAgent(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)

	var agent models.Agent
	if err := db.First(&agent, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сотрудник не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске сотрудника"})
		}
		return
	}

	dependents := map[string]interface{}{}
	var count int64
	db.Model(&models.Task{}).Where("agent_id = ?", agent.ID).Count(&count)
	if count > 0 {
		dependents["tasks"] = count
	}
	db.Model(&models.Purchase{}).Where("agent_id = ?", agent.ID).Count(&count)
	if count > 0 {
		dependents["purchases"] = count
	}
	db.Model(&models.Income{}).Where("agent_id = ?", agent.ID).Count(&count)
	if count > 0 {
		dependents["incomes"] = count
	}
	db.Model(&models.MonthlyTarget{}).Where("agent_id = ?", agent.ID).Count(&count)
	if count > 0 {
		dependents["targets"] = count
	}

	if len(dependents) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":      i18n.T(lang, "Agent has dependent records"),
			"dependents": dependents,
		})
		return
	}

	if err := db.Delete(&agent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении сотрудника"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "delete_agent",
		fmt.Sprintf("Deleted agent %d (%s)", agent.ID, agent.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Сотрудник успешно удален"})
}

// ResetAgentPassword выдает сотруднику новый временный пароль. Пароль
// показывается один раз в ответе.
func (api *AgentAPI) ResetAgentPassword(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var agent models.Agent
	if err := db.First(&agent, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сотрудник не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске сотрудника"})
		}
		return
	}

	tempPassword, err := services.GenerateTempPassword()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при генерации пароля"})
		return
	}
	hash, err := services.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при хешировании пароля"})
		return
	}

	agent.PasswordHash = hash
	if err := db.Save(&agent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сбросе пароля"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "reset_agent_password",
		fmt.Sprintf("Reset password for agent %d (%s)", agent.ID, agent.Name))

	c.JSON(http.StatusOK, gin.H{
		"message": "Пароль сброшен",
		"credentials": gin.H{
			"username":      agent.Username,
			"temp_password": tempPassword,
		},
	})
}
