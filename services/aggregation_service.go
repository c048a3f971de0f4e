package services

import (
	"sort"
	"time"

	"backend_wrapshop/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AggregationService вычисляет сводки по расходам, доходам и заданиям:
// суммы за отчетное окно, рейтинг сотрудников, выполнение месячных планов.
// Сервис только читает; побочных эффектов нет.
type AggregationService struct {
	db *gorm.DB
}

// NewAggregationService создает новый экземпляр AggregationService
func NewAggregationService(db *gorm.DB) *AggregationService {
	return &AggregationService{db: db}
}

// Window — отчетное окно, полуоткрытый интервал [From, To). Сравнения по
// датам всегда интервалами, а не сравнением форматированных строк месяца.
type Window struct {
	From time.Time
	To   time.Time
}

// MonthWindow возвращает окно календарного месяца
func MonthWindow(year int, month time.Month) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

// CurrentMonthWindow возвращает окно текущего календарного месяца
func CurrentMonthWindow(now time.Time) Window {
	return MonthWindow(now.Year(), now.Month())
}

// Contains проверяет попадание даты в окно
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Key возвращает ключ месяца окна в формате YYYY-MM
func (w Window) Key() string {
	return w.From.Format("2006-01")
}

// WindowSummary — суммы за отчетное окно
type WindowSummary struct {
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	Profit         decimal.Decimal `json:"profit"`
}

// Summarize считает суммы расходов и доходов за окно, с необязательным
// фильтром по сотруднику
func (s *AggregationService) Summarize(w Window, agentID *uint) (WindowSummary, error) {
	purchases, err := s.sumPurchases(w, agentID)
	if err != nil {
		return WindowSummary{}, err
	}
	income, err := s.sumIncome(w, agentID)
	if err != nil {
		return WindowSummary{}, err
	}
	return WindowSummary{
		TotalPurchases: purchases,
		TotalIncome:    income,
		Profit:         income.Sub(purchases),
	}, nil
}

func (s *AggregationService) sumPurchases(w Window, agentID *uint) (decimal.Decimal, error) {
	var rows []models.Purchase
	query := s.db.Where("date >= ? AND date < ?", w.From, w.To)
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (s *AggregationService) sumIncome(w Window, agentID *uint) (decimal.Decimal, error) {
	var rows []models.Income
	query := s.db.Where("date >= ? AND date < ?", w.From, w.To)
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, i := range rows {
		total = total.Add(i.Amount)
	}
	return total, nil
}

// TaskCounts — открытые и просроченные задания
type TaskCounts struct {
	Open    int64 `json:"open_tasks"`
	Overdue int64 `json:"overdue_tasks"`
}

// CountTasks считает открытые (срок сегодня или позже) и просроченные
// (срок раньше сегодняшней даты) задания. Сравнение идет с локальной датой
// на момент вызова; задания без срока не учитываются.
func (s *AggregationService) CountTasks(agentID *uint, now time.Time) (TaskCounts, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var counts TaskCounts
	open := s.db.Model(&models.Task{}).Where("due_date >= ?", today)
	overdue := s.db.Model(&models.Task{}).Where("due_date < ?", today)
	if agentID != nil {
		open = open.Where("agent_id = ?", *agentID)
		overdue = overdue.Where("agent_id = ?", *agentID)
	}
	if err := open.Count(&counts.Open).Error; err != nil {
		return counts, err
	}
	if err := overdue.Count(&counts.Overdue).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// CompletedCars считает оклеенные автомобили по завершенным заданиям
// сотрудника за окно (по времени завершения)
func (s *AggregationService) CompletedCars(agentID uint, w Window) (int, error) {
	var total *int
	err := s.db.Model(&models.Task{}).
		Select("SUM(car_count)").
		Where("agent_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?",
			agentID, true, w.From, w.To).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// TotalCompletedCars считает оклеенные автомобили по всем завершенным
// заданиям сотрудника
func (s *AggregationService) TotalCompletedCars(agentID uint) (int, error) {
	var total *int
	err := s.db.Model(&models.Task{}).
		Select("SUM(car_count)").
		Where("agent_id = ? AND completed = ?", agentID, true).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// TargetProgress — выполнение месячного плана сотрудника
type TargetProgress struct {
	Target     int     `json:"target"`
	Achieved   int     `json:"achieved"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTargetProgress возвращает план, факт и процент выполнения за
// месяц. Если план не установлен или равен нулю, процент равен нулю —
// деления на ноль не происходит, ошибкой это не считается.
func (s *AggregationService) MonthlyTargetProgress(agentID uint, year int, month time.Month) (TargetProgress, error) {
	var progress TargetProgress

	var target models.MonthlyTarget
	err := s.db.Where("agent_id = ? AND year = ? AND month = ?", agentID, year, int(month)).
		First(&target).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return progress, err
	}
	if err == nil {
		progress.Target = target.TargetCars
	}

	achieved, err := s.CompletedCars(agentID, MonthWindow(year, month))
	if err != nil {
		return progress, err
	}
	progress.Achieved = achieved

	if progress.Target > 0 {
		progress.Percentage = float64(progress.Achieved) / float64(progress.Target) * 100
	}
	return progress, nil
}

// AgentIncome — элемент рейтинга сотрудников по доходу
type AgentIncome struct {
	AgentID uint            `json:"agent_id"`
	Total   decimal.Decimal `json:"total"`
}

// IncomeRanking возвращает рейтинг сотрудников по доходу за окно, по
// убыванию суммы. Ничья разрешается по возрастанию ID сотрудника, чтобы
// порядок был детерминированным. Доходы без сотрудника не участвуют.
func (s *AggregationService) IncomeRanking(w Window) ([]AgentIncome, error) {
	var rows []models.Income
	if err := s.db.Where("date >= ? AND date < ? AND agent_id IS NOT NULL", w.From, w.To).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[uint]decimal.Decimal)
	for _, inc := range rows {
		if inc.AgentID == nil {
			continue
		}
		totals[*inc.AgentID] = totals[*inc.AgentID].Add(inc.Amount)
	}

	ranking := make([]AgentIncome, 0, len(totals))
	for id, total := range totals {
		ranking = append(ranking, AgentIncome{AgentID: id, Total: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		cmp := ranking[i].Total.Cmp(ranking[j].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return ranking[i].AgentID < ranking[j].AgentID
	})
	return ranking, nil
}

// RankOf возвращает позицию сотрудника в рейтинге за окно (1 — лучший) и
// общее число участников. Если у сотрудника нет доходов за окно, позиция
// равна нулю.
func (s *AggregationService) RankOf(agentID uint, w Window) (rank, total int, err error) {
	ranking, err := s.IncomeRanking(w)
	if err != nil {
		return 0, 0, err
	}
	for i, entry := range ranking {
		if entry.AgentID == agentID {
			return i + 1, len(ranking), nil
		}
	}
	return 0, len(ranking), nil
}

// MonthTotal — сумма за календарный месяц
type MonthTotal struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}

// MonthlyPurchaseSeries возвращает помесячные суммы расходов (новые месяцы
// первыми), с необязательным фильтром по сотруднику
func (s *AggregationService) MonthlyPurchaseSeries(agentID *uint) ([]MonthTotal, error) {
	var rows []models.Purchase
	query := s.db.Order("date DESC")
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, p := range rows {
		key := p.Date.Format("2006-01")
		totals[key] = totals[key].Add(p.Amount)
	}
	return sortedMonthTotals(totals), nil
}

// MonthlyIncomeSeries возвращает помесячные суммы доходов (новые месяцы
// первыми), с необязательным фильтром по сотруднику
func (s *AggregationService) MonthlyIncomeSeries(agentID *uint) ([]MonthTotal, error) {
	var rows []models.Income
	query := s.db.Order("date DESC")
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, i := range rows {
		key := i.Date.Format("2006-01")
		totals[key] = totals[key].Add(i.Amount)
	}
	return sortedMonthTotals(totals), nil
}

func sortedMonthTotals(totals map[string]decimal.Decimal) []MonthTotal {
	series := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		series = append(series, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month > series[j].Month })
	return series
}

// AgentPerformance — строка отчета о результативности сотрудника
type AgentPerformance struct {
	Agent          models.Agent    `json:"agent"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	MonthIncome    decimal.Decimal `json:"month_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	MonthExpenses  decimal.Decimal `json:"month_expenses"`
	NetProfitTotal decimal.Decimal `json:"net_profit_total"`
	NetProfitMonth decimal.Decimal `json:"net_profit_month"`
	TasksAssigned  int64           `json:"tasks_assigned"`
	TasksCompleted int64           `json:"tasks_completed"`
	CarsThisMonth  int             `json:"cars_this_month"`
	TotalCars      int             `json:"total_cars"`
}

// PerformanceReport строит отчет по всем сотрудникам за текущий месяц.
// Строки отсортированы по месячному доходу по убыванию, ничья — по
// возрастанию ID сотрудника.
func (s *AggregationService) PerformanceReport(now time.Time) ([]AgentPerformance, error) {
	var agents []models.Agent
	if err := s.db.Order("id").Find(&agents).Error; err != nil {
		return nil, err
	}

	month := CurrentMonthWindow(now)
	allTime := Window{From: time.Time{}, To: now.AddDate(100, 0, 0)}

	report := make([]AgentPerformance, 0, len(agents))
	for _, agent := range agents {
		agentID := agent.ID

		totalIncome, err := s.sumIncome(allTime, &agentID)
		if err != nil {
			return nil, err
		}
		monthIncome, err := s.sumIncome(month, &agentID)
		if err != nil {
			return nil, err
		}
		totalExpenses, err := s.sumPurchases(allTime, &agentID)
		if err != nil {
			return nil, err
		}
		monthExpenses, err := s.sumPurchases(month, &agentID)
		if err != nil {
			return nil, err
		}

		var assigned, completed int64
		if err := s.db.Model(&models.Task{}).Where("agent_id = ?", agentID).Count(&assigned).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.Task{}).Where("agent_id = ? AND completed = ?", agentID, true).Count(&completed).Error; err != nil {
			return nil, err
		}

		carsThisMonth, err := s.CompletedCars(agentID, month)
		if err != nil {
			return nil, err
		}
		totalCars, err := s.TotalCompletedCars(agentID)
		if err != nil {
			return nil, err
		}

		report = append(report, AgentPerformance{
			Agent:          agent,
			TotalIncome:    totalIncome,
			MonthIncome:    monthIncome,
			TotalExpenses:  totalExpenses,
			MonthExpenses:  monthExpenses,
			NetProfitTotal: totalIncome.Sub(totalExpenses),
			NetProfitMonth: monthIncome.Sub(monthExpenses),
			TasksAssigned:  assigned,
			TasksCompleted: completed,
			CarsThisMonth:  carsThisMonth,
			TotalCars:      totalCars,
		})
	}

	sort.SliceStable(report, func(i, j int) bool {
		cmp := report[i].MonthIncome.Cmp(report[j].MonthIncome)
		if cmp != 0 {
			return cmp > 0
		}
		return report[i].Agent.ID < report[j].Agent.ID
	})
	return report, nil
}

// DashboardStats — сводка для панели администратора
type DashboardStats struct {
	WindowSummary
	TaskCounts
	AgentsCount int64         `json:"agents_count"`
	TopAgent    *models.Agent `json:"top_agent,omitempty"`
}

// AdminDashboard собирает сводку текущего месяца для панели
// администратора. Лучший сотрудник определяется по расходам месяца (кто
// больше закупил материалов — тот больше работал).
func (s *AggregationService) AdminDashboard(now time.Time) (DashboardStats, error) {
	var stats DashboardStats
	month := CurrentMonthWindow(now)

	summary, err := s.Summarize(month, nil)
	if err != nil {
		return stats, err
	}
	stats.WindowSummary = summary

	counts, err := s.CountTasks(nil, now)
	if err != nil {
		return stats, err
	}
	stats.TaskCounts = counts

	if err := s.db.Model(&models.Agent{}).Count(&stats.AgentsCount).Error; err != nil {
		return stats, err
	}

	// Лучший сотрудник месяца по сумме расходов
	var purchases []models.Purchase
	if err := s.db.Where("date >= ? AND date < ? AND agent_id IS NOT NULL", month.From, month.To).
		Find(&purchases).Error; err != nil {
		return stats, err
	}
	totals := make(map[uint]decimal.Decimal)
	for _, p := range purchases {
		if p.AgentID != nil {
			totals[*p.AgentID] = totals[*p.AgentID].Add(p.Amount)
		}
	}
	var topID uint
	best := decimal.Zero
	for id, total := range totals {
		if total.GreaterThan(best) || (total.Equal(best) && topID != 0 && id < topID) {
			topID = id
			best = total
		}
	}
	if topID != 0 {
		var top models.Agent
		if err := s.db.First(&top, topID).Error; err == nil {
			stats.TopAgent = &top
		}
	}

	return stats, nil
}

// AgentDashboardStats — личная сводка сотрудника
type AgentDashboardStats struct {
	TotalIncomeAllTime    decimal.Decimal `json:"total_income_all_time"`
	TotalIncomeThisMonth  decimal.Decimal `json:"total_income_this_month"`
	TotalPurchasesAllTime decimal.Decimal `json:"total_purchases_all_time"`
	TotalPurchasesMonth   decimal.Decimal `json:"total_purchases_this_month"`
	TaskCounts
	Ranking     int `json:"ranking"` // 0 — нет доходов за месяц
	TotalAgents int `json:"total_agents"`
}

// AgentDashboard собирает личную сводку сотрудника: суммы за все время и
// за текущий месяц, задания и позицию в месячном рейтинге
func (s *AggregationService) AgentDashboard(agentID uint, now time.Time) (AgentDashboardStats, error) {
	var stats AgentDashboardStats
	month := CurrentMonthWindow(now)
	allTime := Window{From: time.Time{}, To: now.AddDate(100, 0, 0)}

	var err error
	if stats.TotalIncomeAllTime, err = s.sumIncome(allTime, &agentID); err != nil {
		return stats, err
	}
	if stats.TotalIncomeThisMonth, err = s.sumIncome(month, &agentID); err != nil {
		return stats, err
	}
	if stats.TotalPurchasesAllTime, err = s.sumPurchases(allTime, &agentID); err != nil {
		return stats, err
	}
	if stats.TotalPurchasesMonth, err = s.sumPurchases(month, &agentID); err != nil {
		return stats, err
	}

	counts, err := s.CountTasks(&agentID, now)
	if err != nil {
		return stats, err
	}
	stats.TaskCounts = counts

	rank, total, err := s.RankOf(agentID, month)
	if err != nil {
		return stats, err
	}
	stats.Ranking = rank
	stats.TotalAgents = total

	return stats, nil
}
