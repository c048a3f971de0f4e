package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend_wrapshop/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportService разбирает загруженные таблицы и заводит сотрудников,
// расходы и доходы. Три импортера независимы и не исключают друг друга:
// один лист может дать и сотрудников, и расходы. Ошибка разбора прерывает
// текущий импорт и пишется в журнал как import_error, но загрузка файла
// при этом считается успешной.
type ImportService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewImportService создает новый экземпляр ImportService
func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{
		db:    db,
		audit: NewAuditService(db),
	}
}

// ImportedCredentials — учетные данные созданного при импорте сотрудника;
// временный пароль виден только в ответе на загрузку
type ImportedCredentials struct {
	AgentName    string `json:"agent_name"`
	Username     string `json:"username"`
	TempPassword string `json:"temp_password"`
}

// ImportSummary — итог импорта таблицы
type ImportSummary struct {
	Agents      int                   `json:"agents"`
	Purchases   int                   `json:"purchases"`
	Incomes     int                   `json:"incomes"`
	Credentials []ImportedCredentials `json:"credentials,omitempty"`
}

// Parts возвращает текстовые части итога для журнала (Agents:3;Income:5)
func (s ImportSummary) Parts() []string {
	var parts []string
	if s.Agents > 0 {
		parts = append(parts, fmt.Sprintf("Agents:%d", s.Agents))
	}
	if s.Purchases > 0 {
		parts = append(parts, fmt.Sprintf("Purchases:%d", s.Purchases))
	}
	if s.Incomes > 0 {
		parts = append(parts, fmt.Sprintf("Income:%d", s.Incomes))
	}
	return parts
}

// sheetTable — лист таблицы с заголовком, приведенным к нижнему регистру
type sheetTable struct {
	columns map[string]int // заголовок → индекс колонки
	rows    [][]string     // строки данных без заголовка
}

func (t sheetTable) col(names ...string) (int, bool) {
	for _, name := range names {
		if idx, ok := t.columns[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (t sheetTable) cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// ImportWorkbook читает книгу Excel и импортирует известные данные со всех
// листов. Сводка импорта пишется в журнал от имени загрузившего файл.
func (s *ImportService) ImportWorkbook(path, filename, actorKind string, actorID uint) (ImportSummary, error) {
	var summary ImportSummary

	file, err := excelize.OpenFile(path)
	if err != nil {
		s.audit.Record(actorKind, actorID, "import_error",
			fmt.Sprintf("Error importing %s: %v", filename, err))
		return summary, err
	}
	defer file.Close()

	now := time.Now()
	taken := make(map[string]bool)

	for _, sheet := range file.GetSheetList() {
		raw, err := file.GetRows(sheet)
		if err != nil {
			s.audit.Record(actorKind, actorID, "import_error",
				fmt.Sprintf("Error importing %s: %v", filename, err))
			return summary, err
		}
		if len(raw) < 2 {
			continue
		}

		table := sheetTable{columns: make(map[string]int), rows: raw[1:]}
		for idx, header := range raw[0] {
			key := strings.ToLower(strings.TrimSpace(header))
			if key != "" {
				table.columns[key] = idx
			}
		}

		if err := s.importAgents(table, taken, &summary); err != nil {
			s.audit.Record(actorKind, actorID, "import_error",
				fmt.Sprintf("Error importing %s: %v", filename, err))
			return summary, err
		}
		if err := s.importPurchases(table, now, &summary); err != nil {
			s.audit.Record(actorKind, actorID, "import_error",
				fmt.Sprintf("Error importing %s: %v", filename, err))
			return summary, err
		}
		if err := s.importIncomes(table, now, &summary); err != nil {
			s.audit.Record(actorKind, actorID, "import_error",
				fmt.Sprintf("Error importing %s: %v", filename, err))
			return summary, err
		}
	}

	if parts := summary.Parts(); len(parts) > 0 {
		s.audit.Record(actorKind, actorID, "import_excel",
			fmt.Sprintf("Imported: %s from %s", strings.Join(parts, ";"), filename))
	}
	return summary, nil
}

// importAgents заводит сотрудников с листа, если на нем есть колонка имени.
// Каждый получает автоматические учетные данные; дедупликация имен
// пользователей учитывает весь текущий импорт, а не только базу.
func (s *ImportService) importAgents(table sheetTable, taken map[string]bool, summary *ImportSummary) error {
	nameIdx, ok := table.col("name", "nome", "agent", "agent_name")
	if !ok {
		return nil
	}
	phoneIdx, hasPhone := table.col("phone", "telefone")
	emailIdx, hasEmail := table.col("email", "e-mail")

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Дедупликация имен должна видеть строки, вставленные этой же
		// незакоммиченной транзакцией, поэтому запросы идут через tx
		credentials := NewCredentialService(tx)
		for _, row := range table.rows {
			name := table.cell(row, nameIdx)
			if name == "" {
				continue
			}
			var phone, email string
			if hasPhone {
				phone = table.cell(row, phoneIdx)
			}
			if hasEmail {
				email = table.cell(row, emailIdx)
			}

			base := name
			if email != "" {
				base = email
			}
			username, err := credentials.DeriveUsername(base, taken)
			if err != nil {
				return err
			}
			tempPassword, err := GenerateTempPassword()
			if err != nil {
				return err
			}
			hash, err := HashPassword(tempPassword)
			if err != nil {
				return err
			}

			agent := models.Agent{
				Name:         name,
				Phone:        phone,
				Email:        email,
				Username:     &username,
				PasswordHash: hash,
				IsActive:     true,
			}
			if err := tx.Create(&agent).Error; err != nil {
				return err
			}
			summary.Agents++
			summary.Credentials = append(summary.Credentials, ImportedCredentials{
				AgentName:    name,
				Username:     username,
				TempPassword: tempPassword,
			})
		}
		return nil
	})
}

// importPurchases заводит расходы с листа, если на нем есть колонка суммы
func (s *ImportService) importPurchases(table sheetTable, now time.Time, summary *ImportSummary) error {
	amountIdx, ok := table.col("amount", "valor")
	if !ok {
		return nil
	}
	agentIdx, hasAgent := table.col("agent_id", "agent")
	dateIdx, hasDate := table.col("date")
	noteIdx, hasNote := table.col("note")

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range table.rows {
			amount, ok := parseAmount(table.cell(row, amountIdx))
			if !ok {
				continue
			}

			var agentID *uint
			if hasAgent {
				agentID = parseAgentID(table.cell(row, agentIdx))
			}
			date := now
			if hasDate {
				if parsed, ok := parseDate(table.cell(row, dateIdx)); ok {
					date = parsed
				}
			}
			var note string
			if hasNote {
				note = table.cell(row, noteIdx)
			}

			purchase := models.Purchase{
				AgentID: agentID,
				Amount:  amount,
				Note:    note,
				Date:    date,
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return err
			}
			summary.Purchases++
		}
		return nil
	})
}

// importIncomes заводит доходы с листа, если на нем есть колонки суммы и
// источника. Импортированные доходы получают номер счета, но не создают
// заданий об оклейке — факт работы фиксируется вручную.
func (s *ImportService) importIncomes(table sheetTable, now time.Time, summary *ImportSummary) error {
	amountIdx, hasAmount := table.col("amount")
	sourceIdx, hasSource := table.col("source")
	if !hasAmount || !hasSource {
		return nil
	}
	dateIdx, hasDate := table.col("date")
	noteIdx, hasNote := table.col("note")

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range table.rows {
			amount, ok := parseAmount(table.cell(row, amountIdx))
			if !ok {
				continue
			}
			date := now
			if hasDate {
				if parsed, ok := parseDate(table.cell(row, dateIdx)); ok {
					date = parsed
				}
			}
			var note string
			if hasNote {
				note = table.cell(row, noteIdx)
			}

			income := models.Income{
				Amount: amount,
				Source: table.cell(row, sourceIdx),
				Note:   note,
				Date:   date,
				// Смещение по строкам сохраняет уникальность номера при
				// пакетной вставке в пределах одной секунды
				InvoiceNumber: GenerateInvoiceNumber(now.Add(time.Duration(i)*time.Second), nil),
			}
			if err := tx.Create(&income).Error; err != nil {
				return err
			}
			summary.Incomes++
		}
		return nil
	})
}

// parseAmount разбирает денежную сумму; пустые и нечисловые значения
// означают пропуск строки
func parseAmount(v string) (decimal.Decimal, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// parseAgentID разбирает ссылку на сотрудника; нечисловое значение дает nil
func parseAgentID(v string) *uint {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil || id == 0 {
		return nil
	}
	result := uint(id)
	return &result
}

var importDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"02.01.2006",
	time.RFC3339,
}

// parseDate разбирает дату в распространенных форматах таблиц; неразобранные
// значения игнорируются и строка получает сегодняшнюю дату
func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
