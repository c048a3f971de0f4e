package services

import (
	"bytes"
	"fmt"

	"backend_wrapshop/models"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// InvoiceService строит печатный счет (PDF) по записи дохода
type InvoiceService struct {
	db *gorm.DB
}

// NewInvoiceService создает новый экземпляр InvoiceService
func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// RenderInvoice возвращает PDF счета для дохода
func (s *InvoiceService) RenderInvoice(incomeID uint) (*bytes.Buffer, error) {
	var income models.Income
	if err := s.db.First(&income, incomeID).Error; err != nil {
		return nil, err
	}

	var agentName string
	if income.AgentID != nil {
		var agent models.Agent
		if err := s.db.First(&agent, *income.AgentID).Error; err == nil {
			agentName = agent.Name
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Invoice number: %s", income.InvoiceNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", income.Date.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Customer", orNA(income.CustomerName)},
		{"Agent", orNA(agentName)},
		{"Service", orNA(income.ServiceType)},
		{"Car type", orNA(income.CarType)},
		{"Source", orNA(income.Source)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Total: %s MAD", income.Amount.StringFixed(2)), "", 1, "R", false, 0, "")

	if income.Note != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("Note: %s", income.Note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
