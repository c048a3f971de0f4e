package api

import (
	"fmt"
	"net/http"
	"time"

	"backend_wrapshop/i18n"
	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TargetAPI представляет API месячных планов по оклейке
type TargetAPI struct{}

// NewTargetAPI создает новый экземпляр TargetAPI
func NewTargetAPI() *TargetAPI {
	return &TargetAPI{}
}

// TargetRequest представляет запрос на установку месячного плана
type TargetRequest struct {
	AgentID    uint `json:"agent_id" binding:"required"`
	Year       int  `json:"year" binding:"required"`
	Month      int  `json:"month" binding:"required,min=1,max=12"`
	TargetCars int  `json:"target_cars" binding:"min=0"`
}

// TargetWithProgress — план вместе с текущим выполнением
type TargetWithProgress struct {
	models.MonthlyTarget
	Achieved   int     `json:"achieved"`
	Percentage float64 `json:"percentage"`
}

// UpsertTarget устанавливает месячный план сотрудника. Повторная установка
// на ту же тройку (сотрудник, год, месяц) обновляет существующий план.
func (api *TargetAPI) UpsertTarget(c *gin.Context) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	var count int64
	if err := db.Model(&models.Agent{}).Where("id = ?", req.AgentID).Count(&count).Error; err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Сотрудник не найден"})
		return
	}

	var target models.MonthlyTarget
	err := db.Where("agent_id = ? AND year = ? AND month = ?", req.AgentID, req.Year, req.Month).
		First(&target).Error
	switch {
	case err == nil:
		target.TargetCars = req.TargetCars
		target.CreatedBy = principal.ID
		if err := db.Save(&target).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении плана"})
			return
		}
	case err == gorm.ErrRecordNotFound:
		target = models.MonthlyTarget{
			AgentID:    req.AgentID,
			Year:       req.Year,
			Month:      req.Month,
			TargetCars: req.TargetCars,
			CreatedBy:  principal.ID,
		}
		if err := db.Create(&target).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании плана"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске плана"})
		return
	}

	services.NewAuditService(db).Record(principal.Kind, principal.ID, "set_monthly_target",
		fmt.Sprintf("Target for agent %d: %d cars (%d-%02d)", req.AgentID, req.TargetCars, req.Year, req.Month))

	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "Monthly target saved"), "data": target})
}

// GetTargets возвращает планы с текущим выполнением. Без параметров
// возвращаются планы текущего месяца.
func (api *TargetAPI) GetTargets(c *gin.Context) {
	db := middleware.GetContextDB(c)
	now := time.Now()

	year := now.Year()
	month := int(now.Month())
	if v := QueryUint(c, "year"); v != nil {
		year = int(*v)
	}
	if v := QueryUint(c, "month"); v != nil && *v >= 1 && *v <= 12 {
		month = int(*v)
	}

	query := db.Preload("Agent").Where("year = ? AND month = ?", year, month)
	if agentID := QueryUint(c, "agent_id"); agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}

	var targets []models.MonthlyTarget
	if err := query.Order("agent_id").Find(&targets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении планов"})
		return
	}

	aggregation := services.NewAggregationService(db)
	result := make([]TargetWithProgress, 0, len(targets))
	for _, target := range targets {
		progress, err := aggregation.MonthlyTargetProgress(target.AgentID, target.Year, time.Month(target.Month))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчете выполнения планов"})
			return
		}
		result = append(result, TargetWithProgress{
			MonthlyTarget: target,
			Achieved:      progress.Achieved,
			Percentage:    progress.Percentage,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result, "year": year, "month": month})
}

// DeleteTarget удаляет месячный план
func (api *TargetAPI) DeleteTarget(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)

	var target models.MonthlyTarget
	if err := db.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "План не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске плана"})
		}
		return
	}

	if err := db.Delete(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении плана"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "delete_monthly_target",
		fmt.Sprintf("Deleted target %d (agent %d, %d-%02d)", target.ID, target.AgentID, target.Year, target.Month))

	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "Monthly target deleted")})
}
