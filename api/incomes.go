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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncomeAPI представляет API для работы с доходами и счетами
type IncomeAPI struct{}

// NewIncomeAPI создает новый экземпляр IncomeAPI
func NewIncomeAPI() *IncomeAPI {
	return &IncomeAPI{}
}

// IncomeRequest представляет запрос на создание или изменение дохода
type IncomeRequest struct {
	AgentID      *uint           `json:"agent_id"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Source       string          `json:"source"`
	CustomerName string          `json:"customer_name"`
	ServiceType  string          `json:"service_type"`
	CarType      string          `json:"car_type"`
	Note         string          `json:"note"`
	Date         string          `json:"date"` // YYYY-MM-DD, по умолчанию сегодня
}

func (req IncomeRequest) toInput(agentID *uint) (services.IncomeInput, error) {
	date, err := parseRecordDate(req.Date)
	if err != nil {
		return services.IncomeInput{}, err
	}
	return services.IncomeInput{
		AgentID:      agentID,
		Amount:       req.Amount,
		Source:       req.Source,
		CustomerName: req.CustomerName,
		ServiceType:  req.ServiceType,
		CarType:      req.CarType,
		Note:         req.Note,
		Date:         date,
	}, nil
}

// GetIncomes возвращает список доходов с фильтрами по месяцу, диапазону
// дат, источнику и сотруднику. Сотрудник видит только свои доходы.
func (api *IncomeAPI) GetIncomes(c *gin.Context) {
	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	query := db.Model(&models.Income{})
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
	if source := c.Query("source"); source != "" {
		query = query.Where("source LIKE ?", "%"+source+"%")
	}

	var incomes []models.Income
	if err := query.Order("date DESC").Find(&incomes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка доходов"})
		return
	}

	total := decimal.Zero
	for _, inc := range incomes {
		total = total.Add(inc.Amount)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  incomes,
		"count": len(incomes),
		"total": total,
	})
}

// CreateIncome создает доход с номером счета и связанным заданием.
// Сотрудник может записывать доходы только на себя.
func (api *IncomeAPI) CreateIncome(c *gin.Context) {
	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	agentID := req.AgentID
	if principal.IsAgent() {
		id := principal.ID
		agentID = &id
	}

	input, err := req.toInput(agentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	income, err := services.NewIncomeService(db).Create(input, time.Now(), principal.Kind, principal.ID)
	if err != nil {
		if err == services.ErrDuplicateInvoiceNumber {
			c.JSON(http.StatusConflict, gin.H{"error": "Номер счета уже существует, повторите попытку"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании дохода"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        i18n.T(lang, "Income added successfully"),
		"data":           income,
		"invoice_number": income.InvoiceNumber,
	})
}

// UpdateIncome обновляет доход и синхронизирует связанное задание (только
// администратор). Номер счета остается прежним.
func (api *IncomeAPI) UpdateIncome(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)

	input, err := req.toInput(req.AgentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	income, err := services.NewIncomeService(db).Update(id, input)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Доход не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении дохода"})
		}
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "edit_income",
		fmt.Sprintf("Edited income %s", income.InvoiceNumber))

	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "Income updated successfully"), "data": income})
}

// DeleteIncome удаляет доход вместе со связанным заданием (только
// администратор)
func (api *IncomeAPI) DeleteIncome(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	if err := services.NewIncomeService(db).Delete(id, principal.Kind, principal.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Доход не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении дохода"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "Income deleted successfully")})
}

// GetInvoicePDF возвращает печатный счет дохода. Сотрудник может получать
// счета только по своим доходам.
func (api *IncomeAPI) GetInvoicePDF(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	var income models.Income
	if err := db.First(&income, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Доход не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске дохода"})
		}
		return
	}

	if principal.IsAgent() && (income.AgentID == nil || *income.AgentID != principal.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, "Access denied")})
		return
	}

	buf, err := services.NewInvoiceService(db).RenderInvoice(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при формировании счета"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", income.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportIncomes выгружает доходы месяца в файл Excel
func (api *IncomeAPI) ExportIncomes(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр 'month' обязателен (YYYY-MM)"})
		return
	}

	db := middleware.GetContextDB(c)
	buf, err := services.NewExportService(db).ExportIncomes(month)
	if err != nil {
		if err == services.ErrNothingToExport {
			c.JSON(http.StatusNotFound, gin.H{"error": "Нет записей за указанный месяц"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	filename := fmt.Sprintf("income_%s.xlsx", month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetServiceTypes возвращает справочник услуг
func (api *IncomeAPI) GetServiceTypes(c *gin.Context) {
	db := middleware.GetContextDB(c)
	var types []models.ServiceType
	if err := db.Order("name").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении справочника услуг"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

// GetCarTypes возвращает справочник типов автомобилей
func (api *IncomeAPI) GetCarTypes(c *gin.Context) {
	db := middleware.GetContextDB(c)
	var types []models.CarType
	if err := db.Order("name").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении справочника типов автомобилей"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}
