package api

import (
	"fmt"
	"net/http"
	"time"

	"backend_wrapshop/database"
	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
)

// SettingsAPI представляет API служебных операций администратора
type SettingsAPI struct{}

// NewSettingsAPI создает новый экземпляр SettingsAPI
func NewSettingsAPI() *SettingsAPI {
	return &SettingsAPI{}
}

// GetStats возвращает количество записей по всем таблицам
func (api *SettingsAPI) GetStats(c *gin.Context) {
	db := middleware.GetContextDB(c)

	stats := gin.H{}
	tables := map[string]interface{}{
		"agents":          &models.Agent{},
		"tasks":           &models.Task{},
		"purchases":       &models.Purchase{},
		"incomes":         &models.Income{},
		"monthly_targets": &models.MonthlyTarget{},
		"logs":            &models.AuditLog{},
		"api_tokens":      &models.APIToken{},
		"file_uploads":    &models.FileUpload{},
		"service_types":   &models.ServiceType{},
		"car_types":       &models.CarType{},
	}
	for name, model := range tables {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при подсчете записей"})
			return
		}
		stats[name] = count
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// DownloadBackup отдает файл базы данных SQLite. Для PostgreSQL резервное
// копирование выполняется штатными средствами сервера.
func (api *SettingsAPI) DownloadBackup(c *gin.Context) {
	path, err := database.DatabaseFilePath()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "download_backup",
		"Downloaded database backup")

	filename := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	c.FileAttachment(path, filename)
}
