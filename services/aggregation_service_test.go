package services

import (
	"testing"
	"time"

	"backend_wrapshop/models"
	"backend_wrapshop/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAggregationTest(t *testing.T) (*gorm.DB, *AggregationService) {
	db, err := testutils.SetupTestDB()
	require.NoError(t, err)
	return db, NewAggregationService(db)
}

func TestMonthWindowHalfOpen(t *testing.T) {
	w := MonthWindow(2026, time.January)

	assert.True(t, w.Contains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, w.Contains(time.Date(2026, 1, 31, 23, 59, 0, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2026-01", w.Key())
}

func TestSummarize(t *testing.T) {
	db, service := setupAggregationTest(t)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local)

	_, err = testutils.CreateTestPurchase(db, &agent.ID, "100.50", jan)
	require.NoError(t, err)
	_, err = testutils.CreateTestPurchase(db, nil, "50.00", jan)
	require.NoError(t, err)
	_, err = testutils.CreateTestPurchase(db, &agent.ID, "999.99", feb)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &agent.ID, "400.00", "INV-1", jan)
	require.NoError(t, err)

	summary, err := service.Summarize(MonthWindow(2026, time.January), nil)
	require.NoError(t, err)
	assert.Equal(t, "150.50", summary.TotalPurchases.StringFixed(2))
	assert.Equal(t, "400.00", summary.TotalIncome.StringFixed(2))
	assert.Equal(t, "249.50", summary.Profit.StringFixed(2))

	// Фильтр по сотруднику исключает расходы без сотрудника
	summary, err = service.Summarize(MonthWindow(2026, time.January), &agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.50", summary.TotalPurchases.StringFixed(2))
}

func TestCountTasks(t *testing.T) {
	db, service := setupAggregationTest(t)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	require.NoError(t, db.Create(&models.Task{Title: "overdue", DueDate: &yesterday}).Error)
	require.NoError(t, db.Create(&models.Task{Title: "due today", DueDate: &today}).Error)
	require.NoError(t, db.Create(&models.Task{Title: "upcoming", DueDate: &tomorrow}).Error)
	require.NoError(t, db.Create(&models.Task{Title: "no due date"}).Error)

	counts, err := service.CountTasks(nil, now)
	require.NoError(t, err)

	// Срок сегодня — задание еще открыто, не просрочено
	assert.Equal(t, int64(2), counts.Open)
	assert.Equal(t, int64(1), counts.Overdue)
}

func TestMonthlyTargetProgress(t *testing.T) {
	db, service := setupAggregationTest(t)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)

	// План не установлен: нулевой процент, не ошибка
	progress, err := service.MonthlyTargetProgress(agent.ID, 2026, time.April)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Target)
	assert.Equal(t, float64(0), progress.Percentage)

	require.NoError(t, db.Create(&models.MonthlyTarget{
		AgentID: agent.ID, Year: 2026, Month: 4, TargetCars: 10,
	}).Error)

	completedAt := time.Date(2026, 4, 5, 10, 0, 0, 0, time.Local)
	task := models.Task{Title: "wrap", AgentID: &agent.ID, CarCount: 4}
	task.MarkCompleted(completedAt)
	require.NoError(t, db.Create(&task).Error)

	// Завершение в другом месяце не учитывается
	other := models.Task{Title: "old wrap", AgentID: &agent.ID, CarCount: 7}
	other.MarkCompleted(completedAt.AddDate(0, -1, 0))
	require.NoError(t, db.Create(&other).Error)

	progress, err = service.MonthlyTargetProgress(agent.ID, 2026, time.April)
	require.NoError(t, err)
	assert.Equal(t, 10, progress.Target)
	assert.Equal(t, 4, progress.Achieved)
	assert.InDelta(t, 40.0, progress.Percentage, 0.001)
}

func TestIncomeRankingTieBreak(t *testing.T) {
	db, service := setupAggregationTest(t)

	first, err := testutils.CreateTestAgent(db, "First", "first", "pw")
	require.NoError(t, err)
	second, err := testutils.CreateTestAgent(db, "Second", "second", "pw")
	require.NoError(t, err)
	third, err := testutils.CreateTestAgent(db, "Third", "third", "pw")
	require.NoError(t, err)

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local)
	_, err = testutils.CreateTestIncome(db, &second.ID, "200.00", "INV-a", jan)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &third.ID, "200.00", "INV-b", jan)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &first.ID, "500.00", "INV-c", jan)
	require.NoError(t, err)

	ranking, err := service.IncomeRanking(MonthWindow(2026, time.January))
	require.NoError(t, err)
	require.Len(t, ranking, 3)

	assert.Equal(t, first.ID, ranking[0].AgentID)
	// Ничья разрешается по возрастанию ID
	assert.Equal(t, second.ID, ranking[1].AgentID)
	assert.Equal(t, third.ID, ranking[2].AgentID)

	rank, total, err := service.RankOf(third.ID, MonthWindow(2026, time.January))
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
	assert.Equal(t, 3, total)

	// Сотрудник без доходов за окно не участвует в рейтинге
	outsider, err := testutils.CreateTestAgent(db, "Outsider", "outsider", "pw")
	require.NoError(t, err)
	rank, total, err = service.RankOf(outsider.ID, MonthWindow(2026, time.January))
	require.NoError(t, err)
	assert.Equal(t, 0, rank)
	assert.Equal(t, 3, total)
}

func TestMonthlyIncomeSeries(t *testing.T) {
	db, service := setupAggregationTest(t)

	_, err := testutils.CreateTestIncome(db, nil, "100.00", "INV-1",
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, nil, "50.00", "INV-2",
		time.Date(2026, 1, 20, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, nil, "75.00", "INV-3",
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	series, err := service.MonthlyIncomeSeries(nil)
	require.NoError(t, err)
	require.Len(t, series, 2)

	// Новые месяцы первыми
	assert.Equal(t, "2026-02", series[0].Month)
	assert.Equal(t, "75.00", series[0].Total.StringFixed(2))
	assert.Equal(t, "2026-01", series[1].Month)
	assert.Equal(t, "150.00", series[1].Total.StringFixed(2))
}

func TestAgentDashboard(t *testing.T) {
	db, service := setupAggregationTest(t)

	agent, err := testutils.CreateTestAgent(db, "Ahmed", "ahmed", "pw")
	require.NoError(t, err)
	rival, err := testutils.CreateTestAgent(db, "Rival", "rival", "pw")
	require.NoError(t, err)

	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.Local)
	thisMonth := time.Date(2026, 5, 10, 0, 0, 0, 0, time.Local)
	lastMonth := time.Date(2026, 4, 10, 0, 0, 0, 0, time.Local)

	_, err = testutils.CreateTestIncome(db, &agent.ID, "300.00", "INV-1", thisMonth)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &agent.ID, "100.00", "INV-2", lastMonth)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &rival.ID, "900.00", "INV-3", thisMonth)
	require.NoError(t, err)
	_, err = testutils.CreateTestPurchase(db, &agent.ID, "40.00", thisMonth)
	require.NoError(t, err)

	stats, err := service.AgentDashboard(agent.ID, now)
	require.NoError(t, err)

	assert.Equal(t, "400.00", stats.TotalIncomeAllTime.StringFixed(2))
	assert.Equal(t, "300.00", stats.TotalIncomeThisMonth.StringFixed(2))
	assert.Equal(t, "40.00", stats.TotalPurchasesMonth.StringFixed(2))
	assert.Equal(t, 2, stats.Ranking)
	assert.Equal(t, 2, stats.TotalAgents)
}

func TestPerformanceReportOrder(t *testing.T) {
	db, service := setupAggregationTest(t)

	low, err := testutils.CreateTestAgent(db, "Low", "low", "pw")
	require.NoError(t, err)
	high, err := testutils.CreateTestAgent(db, "High", "high", "pw")
	require.NoError(t, err)

	now := time.Now()
	_, err = testutils.CreateTestIncome(db, &low.ID, "10.00", "INV-1", now)
	require.NoError(t, err)
	_, err = testutils.CreateTestIncome(db, &high.ID, "100.00", "INV-2", now)
	require.NoError(t, err)

	report, err := service.PerformanceReport(now)
	require.NoError(t, err)
	require.Len(t, report, 2)

	assert.Equal(t, high.ID, report[0].Agent.ID)
	assert.Equal(t, low.ID, report[1].Agent.ID)
	assert.Equal(t, "100.00", report[0].MonthIncome.StringFixed(2))
}
