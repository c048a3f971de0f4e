package api

import (
	"fmt"
	"net/http"

	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenAPI представляет API именованных токенов для JSON API
type TokenAPI struct{}

// NewTokenAPI создает новый экземпляр TokenAPI
func NewTokenAPI() *TokenAPI {
	return &TokenAPI{}
}

// maskedToken — представление токена без открытого значения
type maskedToken struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	CreatedBy uint   `json:"created_by"`
	Revoked   bool   `json:"revoked"`
	CreatedAt string `json:"created_at"`
}

// CreateToken создает именованный API-токен. Значение токена показывается
// один раз, дальше везде отображается маска.
func (api *TokenAPI) CreateToken(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	value := uuid.New().String()
	token := models.APIToken{
		Name:      req.Name,
		Token:     value,
		CreatedBy: principal.ID,
	}
	if err := db.Create(&token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании токена"})
		return
	}

	services.NewAuditService(db).Record(principal.Kind, principal.ID, "create_api_token",
		fmt.Sprintf("Created API token %s", token.Name))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Токен создан. Сохраните значение: оно больше не будет показано.",
		"data": gin.H{
			"id":    token.ID,
			"name":  token.Name,
			"token": value,
		},
	})
}

// GetTokens возвращает список токенов с маскированными значениями
func (api *TokenAPI) GetTokens(c *gin.Context) {
	db := middleware.GetContextDB(c)

	var tokens []models.APIToken
	if err := db.Order("created_at DESC").Find(&tokens).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка токенов"})
		return
	}

	masked := make([]maskedToken, 0, len(tokens))
	for _, t := range tokens {
		masked = append(masked, maskedToken{
			ID:        t.ID,
			Name:      t.Name,
			Token:     t.Masked(),
			CreatedBy: t.CreatedBy,
			Revoked:   t.Revoked,
			CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": masked, "count": len(masked)})
}

// RevokeToken отзывает токен. Отозванный токен перестает приниматься
// JSON API немедленно.
func (api *TokenAPI) RevokeToken(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var token models.APIToken
	if err := db.First(&token, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Токен не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске токена"})
		}
		return
	}

	token.Revoked = true
	if err := db.Save(&token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при отзыве токена"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "revoke_api_token",
		fmt.Sprintf("Revoked API token %s", token.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Токен отозван", "data": gin.H{"id": token.ID, "revoked": true}})
}
