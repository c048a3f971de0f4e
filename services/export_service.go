package services

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"backend_wrapshop/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrNothingToExport возвращается при экспорте месяца без записей
var ErrNothingToExport = errors.New("no records for the requested month")

// ExportService выгружает расходы и доходы месяца в книги Excel
type ExportService struct {
	db *gorm.DB
}

// NewExportService создает новый экземпляр ExportService
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// ParseMonth разбирает ключ месяца YYYY-MM в отчетное окно
func ParseMonth(key string) (Window, error) {
	t, err := time.ParseInLocation("2006-01", key, time.Local)
	if err != nil {
		return Window{}, fmt.Errorf("invalid month %q: expected YYYY-MM", key)
	}
	return MonthWindow(t.Year(), t.Month()), nil
}

// ExportPurchases выгружает расходы месяца в книгу с листом
// Purchases_<YYYY-MM> и колонками Date, Agent, Amount, Note
func (s *ExportService) ExportPurchases(month string) (*bytes.Buffer, error) {
	w, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	var purchases []models.Purchase
	if err := s.db.Where("date >= ? AND date < ?", w.From, w.To).
		Order("date").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, ErrNothingToExport
	}

	agentNames, err := s.agentNames(purchases)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := fmt.Sprintf("Purchases_%s", month)
	file.SetSheetName(file.GetSheetName(0), sheet)

	headers := []string{"Date", "Agent", "Amount", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}
	for row, p := range purchases {
		agentName := ""
		if p.AgentID != nil {
			agentName = agentNames[*p.AgentID]
		}
		values := []interface{}{
			p.Date.Format("2006-01-02"),
			agentName,
			p.Amount.StringFixed(2),
			p.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	return file.WriteToBuffer()
}

// agentNames возвращает имена сотрудников, упомянутых в расходах
func (s *ExportService) agentNames(purchases []models.Purchase) (map[uint]string, error) {
	ids := make([]uint, 0, len(purchases))
	seen := make(map[uint]bool)
	for _, p := range purchases {
		if p.AgentID != nil && !seen[*p.AgentID] {
			seen[*p.AgentID] = true
			ids = append(ids, *p.AgentID)
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var agents []models.Agent
	if err := s.db.Where("id IN ?", ids).Find(&agents).Error; err != nil {
		return nil, err
	}
	for _, a := range agents {
		names[a.ID] = a.Name
	}
	return names, nil
}

// ExportIncomes выгружает доходы месяца в книгу с листом Income_<YYYY-MM>
// и колонками Date, Amount, Source, Note
func (s *ExportService) ExportIncomes(month string) (*bytes.Buffer, error) {
	w, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	var incomes []models.Income
	if err := s.db.Where("date >= ? AND date < ?", w.From, w.To).
		Order("date").
		Find(&incomes).Error; err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		return nil, ErrNothingToExport
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := fmt.Sprintf("Income_%s", month)
	file.SetSheetName(file.GetSheetName(0), sheet)

	headers := []string{"Date", "Amount", "Source", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}
	for row, inc := range incomes {
		values := []interface{}{
			inc.Date.Format("2006-01-02"),
			inc.Amount.StringFixed(2),
			inc.Source,
			inc.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	return file.WriteToBuffer()
}
