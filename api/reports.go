package api

import (
	"net/http"
	"time"

	"backend_wrapshop/middleware"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
)

// ReportAPI представляет API отчетов
type ReportAPI struct{}

// NewReportAPI создает новый экземпляр ReportAPI
func NewReportAPI() *ReportAPI {
	return &ReportAPI{}
}

// GetPerformanceReport возвращает отчет о результативности всех сотрудников
// за текущий месяц, отсортированный по месячному доходу
func (api *ReportAPI) GetPerformanceReport(c *gin.Context) {
	db := middleware.GetContextDB(c)

	report, err := services.NewAggregationService(db).PerformanceReport(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при формировании отчета"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report, "count": len(report)})
}

// GetIncomeRanking возвращает рейтинг сотрудников по доходу текущего месяца
func (api *ReportAPI) GetIncomeRanking(c *gin.Context) {
	db := middleware.GetContextDB(c)

	ranking, err := services.NewAggregationService(db).
		IncomeRanking(services.CurrentMonthWindow(time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчете рейтинга"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ranking})
}
