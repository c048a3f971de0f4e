package api

import (
	"net/http"

	"backend_wrapshop/i18n"
	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
)

// AuthAPI представляет API аутентификации администраторов и сотрудников
type AuthAPI struct{}

// NewAuthAPI создает новый экземпляр AuthAPI
func NewAuthAPI() *AuthAPI {
	return &AuthAPI{}
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest представляет запрос на смену пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// AdminLogin выполняет вход администратора
func (api *AuthAPI) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)

	var admin models.Admin
	if err := db.Where("username = ?", req.Username).First(&admin).Error; err != nil ||
		!services.CheckPassword(admin.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, "Invalid credentials")})
		return
	}

	token, err := middleware.IssueToken(middleware.Principal{Kind: models.PrincipalAdmin, ID: admin.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при выпуске токена"})
		return
	}

	services.NewAuditService(db).Record(models.PrincipalAdmin, admin.ID, "login", "Admin logged in")

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(lang, "Logged in"),
		"token":   token,
		"data": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"kind":     models.PrincipalAdmin,
		},
	})
}

// AgentLogin выполняет вход сотрудника. Деактивированные сотрудники войти
// не могут.
func (api *AuthAPI) AgentLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)

	var agent models.Agent
	err := db.Where("username = ? AND is_active = ?", req.Username, true).First(&agent).Error
	if err != nil || !services.CheckPassword(agent.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, "Invalid credentials")})
		return
	}

	token, err := middleware.IssueToken(middleware.Principal{Kind: models.PrincipalAgent, ID: agent.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при выпуске токена"})
		return
	}

	services.NewAuditService(db).Record(models.PrincipalAgent, agent.ID, "login", "Agent logged in")

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(lang, "Logged in"),
		"token":   token,
		"data": gin.H{
			"id":       agent.ID,
			"name":     agent.Name,
			"username": agent.Username,
			"kind":     models.PrincipalAgent,
		},
	})
}

// ChangePassword меняет пароль текущего принципала
func (api *AuthAPI) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	hash, err := services.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при хешировании пароля"})
		return
	}

	switch principal.Kind {
	case models.PrincipalAdmin:
		var admin models.Admin
		if err := db.First(&admin, principal.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Администратор не найден"})
			return
		}
		if !services.CheckPassword(admin.PasswordHash, req.OldPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, "Invalid credentials")})
			return
		}
		admin.PasswordHash = hash
		if err := db.Save(&admin).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при смене пароля"})
			return
		}
	case models.PrincipalAgent:
		var agent models.Agent
		if err := db.First(&agent, principal.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сотрудник не найден"})
			return
		}
		if !services.CheckPassword(agent.PasswordHash, req.OldPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, "Invalid credentials")})
			return
		}
		agent.PasswordHash = hash
		if err := db.Save(&agent).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при смене пароля"})
			return
		}
	}

	services.NewAuditService(db).Record(principal.Kind, principal.ID, "change_password", "Password changed")

	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "Success")})
}

// SetLanguage переключает локаль интерфейса (cookie на год)
func (api *AuthAPI) SetLanguage(c *gin.Context) {
	var req struct {
		Lang string `json:"lang" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}
	if !i18n.IsSupported(req.Lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
		return
	}

	middleware.SetLangCookie(c, req.Lang)
	c.JSON(http.StatusOK, gin.H{"message": "OK", "lang": req.Lang})
}
