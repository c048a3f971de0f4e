package api

import (
	"net/http"
	"strconv"

	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogAPI представляет API журнала действий
type LogAPI struct{}

// NewLogAPI создает новый экземпляр LogAPI
func NewLogAPI() *LogAPI {
	return &LogAPI{}
}

// GetLogs возвращает журнал действий (новые записи первыми)
func (api *LogAPI) GetLogs(c *gin.Context) {
	db := middleware.GetContextDB(c)

	query := db.Model(&models.AuditLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var total int64
	query.Count(&total)

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении журнала"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": logs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateLog добавляет ручную заметку в журнал
func (api *LogAPI) CreateLog(c *gin.Context) {
	var req struct {
		Detail string `json:"detail" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	entry := models.AuditLog{
		Action:        "note",
		Detail:        req.Detail,
		CreatedBy:     principal.ID,
		CreatedByKind: principal.Kind,
	}
	if err := db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при добавлении записи"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Запись добавлена", "data": entry})
}

// DeleteLog удаляет одну запись журнала
func (api *LogAPI) DeleteLog(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var entry models.AuditLog
	if err := db.First(&entry, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске записи"})
		}
		return
	}

	if err := db.Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении записи"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "delete_log",
		"Deleted log entry "+strconv.FormatUint(uint64(entry.ID), 10))

	c.JSON(http.StatusOK, gin.H{"message": "Запись удалена"})
}
