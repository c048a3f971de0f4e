package api

import (
	"fmt"
	"net/http"
	"time"

	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseAPI представляет API для работы с расходами
type PurchaseAPI struct{}

// NewPurchaseAPI создает новый экземпляр PurchaseAPI
func NewPurchaseAPI() *PurchaseAPI {
	return &PurchaseAPI{}
}

// PurchaseRequest представляет запрос на создание или изменение расхода
type PurchaseRequest struct {
	AgentID *uint           `json:"agent_id"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Note    string          `json:"note"`
	Date    string          `json:"date"` // YYYY-MM-DD, по умолчанию сегодня
}

func parseRecordDate(v string) (time.Time, error) {
	if v == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q, ожидается YYYY-MM-DD", v)
	}
	return t, nil
}

// GetPurchases возвращает список расходов с фильтрами по месяцу, диапазону
// дат и сотруднику. Сотрудник видит только свои расходы.
func (api *PurchaseAPI) GetPurchases(c *gin.Context) {
	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	query := db.Model(&models.Purchase{})
	if principal.IsAgent() {
		query = query.Where("agent_id = ?", principal.ID)
	} else if agentID := QueryUint(c, "agent_id"); agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}

	if month := c.Query("month"); month != "" {
		w, err := services.ParseMonth(month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("date >= ? AND date < ?", w.From, w.To)
	}
	if from := c.Query("from"); from != "" {
		date, err := parseRecordDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("date >= ?", date)
	}
	if to := c.Query("to"); to != "" {
		date, err := parseRecordDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Граница включается целиком, по конец дня
		query = query.Where("date < ?", date.AddDate(0, 0, 1))
	}

	var purchases []models.Purchase
	if err := query.Order("date DESC").Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка расходов"})
		return
	}

	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Amount)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  purchases,
		"count": len(purchases),
		"total": total,
	})
}

// GetPurchaseMonths возвращает помесячные суммы расходов
func (api *PurchaseAPI) GetPurchaseMonths(c *gin.Context) {
	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	var agentID *uint
	if principal.IsAgent() {
		id := principal.ID
		agentID = &id
	} else {
		agentID = QueryUint(c, "agent_id")
	}

	series, err := services.NewAggregationService(db).MonthlyPurchaseSeries(agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении статистики"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": series})
}

// CreatePurchase создает расход. Сотрудник может записывать расходы только
// на себя, какой бы agent_id он ни прислал.
func (api *PurchaseAPI) CreatePurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	date, err := parseRecordDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	agentID := req.AgentID
	if principal.IsAgent() {
		id := principal.ID
		agentID = &id
	}

	purchase := models.Purchase{
		AgentID: agentID,
		Amount:  req.Amount,
		Note:    req.Note,
		Date:    date,
	}
	if err := db.Create(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании расхода"})
		return
	}

	services.NewAuditService(db).Record(principal.Kind, principal.ID, "add_purchase",
		fmt.Sprintf("Added purchase %s MAD", purchase.Amount.StringFixed(2)))

	c.JSON(http.StatusCreated, gin.H{"message": "Расход успешно создан", "data": purchase})
}

// UpdatePurchase обновляет расход (только администратор)
func (api *PurchaseAPI) UpdatePurchase(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var purchase models.Purchase
	if err := db.First(&purchase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Расход не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске расхода"})
		}
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}
	date, err := parseRecordDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase.AgentID = req.AgentID
	purchase.Amount = req.Amount
	purchase.Note = req.Note
	purchase.Date = date

	if err := db.Save(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении расхода"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "edit_purchase",
		fmt.Sprintf("Edited purchase %d", purchase.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Расход успешно обновлен", "data": purchase})
}

// DeletePurchase удаляет расход (только администратор)
func (api *PurchaseAPI) DeletePurchase(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var purchase models.Purchase
	if err := db.First(&purchase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Расход не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске расхода"})
		}
		return
	}

	if err := db.Delete(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении расхода"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "delete_purchase",
		fmt.Sprintf("Deleted purchase %d - Amount: %s MAD", purchase.ID, purchase.Amount.StringFixed(2)))

	c.JSON(http.StatusOK, gin.H{"message": "Расход успешно удален"})
}

// ExportPurchases выгружает расходы месяца в файл Excel
func (api *PurchaseAPI) ExportPurchases(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр 'month' обязателен (YYYY-MM)"})
		return
	}

	db := middleware.GetContextDB(c)
	buf, err := services.NewExportService(db).ExportPurchases(month)
	if err != nil {
		if err == services.ErrNothingToExport {
			c.JSON(http.StatusNotFound, gin.H{"error": "Нет записей за указанный месяц"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	filename := fmt.Sprintf("purchases_%s.xlsx", month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
