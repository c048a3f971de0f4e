package api

import (
	"backend_wrapshop/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes настраивает все маршруты приложения
func RegisterRoutes(r *gin.Engine) {
	authAPI := NewAuthAPI()
	agentAPI := NewAgentAPI()
	taskAPI := NewTaskAPI()
	purchaseAPI := NewPurchaseAPI()
	incomeAPI := NewIncomeAPI()
	targetAPI := NewTargetAPI()
	dashboardAPI := NewDashboardAPI()
	reportAPI := NewReportAPI()
	fileAPI := NewFileAPI()
	logAPI := NewLogAPI()
	tokenAPI := NewTokenAPI()
	settingsAPI := NewSettingsAPI()

	// Публичные маршруты
	r.POST("/auth/admin/login", authAPI.AdminLogin)
	r.POST("/auth/agent/login", authAPI.AgentLogin)
	r.POST("/language", authAPI.SetLanguage)

	// Маршруты с аутентификацией по JWT сессии
	auth := r.Group("", middleware.RequireAuth())
	{
		auth.POST("/auth/change-password", authAPI.ChangePassword)

		// Панели управления
		auth.GET("/dashboard", middleware.RequireAdmin(), dashboardAPI.GetAdminDashboard)
		auth.GET("/dashboard/agent", dashboardAPI.GetAgentDashboard)

		// Сотрудники (только администратор)
		agents := auth.Group("/agents", middleware.RequireAdmin())
		{
			agents.GET("", agentAPI.GetAgents)
			agents.POST("", agentAPI.CreateAgent)
			agents.GET("/:id", agentAPI.GetAgent)
			agents.PUT("/:id", agentAPI.UpdateAgent)
			agents.DELETE("/:id", agentAPI.DeleteAgent)
			agents.POST("/:id/reset-password", agentAPI.ResetAgentPassword)
		}

		// Задания: просмотр и переключение доступны сотрудникам
		tasks := auth.Group("/tasks")
		{
			tasks.GET("", taskAPI.GetTasks)
			tasks.POST("", middleware.RequireAdmin(), taskAPI.CreateTask)
			tasks.PUT("/:id", middleware.RequireAdmin(), taskAPI.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireAdmin(), taskAPI.DeleteTask)
			tasks.POST("/:id/toggle", taskAPI.ToggleTask)
			tasks.POST("/quick-add", middleware.RequireAdmin(), taskAPI.QuickAddTask)
		}

		// Расходы: сотрудник видит и добавляет только свои
		purchases := auth.Group("/purchases")
		{
			purchases.GET("", purchaseAPI.GetPurchases)
			purchases.GET("/months", purchaseAPI.GetPurchaseMonths)
			purchases.POST("", purchaseAPI.CreatePurchase)
			purchases.PUT("/:id", middleware.RequireAdmin(), purchaseAPI.UpdatePurchase)
			purchases.DELETE("/:id", middleware.RequireAdmin(), purchaseAPI.DeletePurchase)
			purchases.GET("/export", middleware.RequireAdmin(), purchaseAPI.ExportPurchases)
		}

		// Доходы: сотрудник видит и добавляет только свои
		incomes := auth.Group("/incomes")
		{
			incomes.GET("", incomeAPI.GetIncomes)
			incomes.POST("", incomeAPI.CreateIncome)
			incomes.PUT("/:id", middleware.RequireAdmin(), incomeAPI.UpdateIncome)
			incomes.DELETE("/:id", middleware.RequireAdmin(), incomeAPI.DeleteIncome)
			incomes.GET("/:id/invoice", incomeAPI.GetInvoicePDF)
			incomes.GET("/export", middleware.RequireAdmin(), incomeAPI.ExportIncomes)
			incomes.GET("/service-types", incomeAPI.GetServiceTypes)
			incomes.GET("/car-types", incomeAPI.GetCarTypes)
		}

		// Месячные планы (только администратор)
		targets := auth.Group("/targets", middleware.RequireAdmin())
		{
			targets.GET("", targetAPI.GetTargets)
			targets.POST("", targetAPI.UpsertTarget)
			targets.DELETE("/:id", targetAPI.DeleteTarget)
		}

		// Отчеты (только администратор)
		reports := auth.Group("/reports", middleware.RequireAdmin())
		{
			reports.GET("/performance", reportAPI.GetPerformanceReport)
			reports.GET("/ranking", reportAPI.GetIncomeRanking)
		}

		// Файлы и импорт (только администратор)
		files := auth.Group("/files", middleware.RequireAdmin())
		{
			files.GET("", fileAPI.GetFiles)
			files.POST("/upload", fileAPI.UploadFile)
			files.GET("/:id/download", fileAPI.DownloadFile)
			files.GET("/download-all", fileAPI.DownloadAllFiles)
			files.DELETE("/:id", fileAPI.DeleteFile)
		}

		// Журнал действий (только администратор)
		logs := auth.Group("/logs", middleware.RequireAdmin())
		{
			logs.GET("", logAPI.GetLogs)
			logs.POST("", logAPI.CreateLog)
			logs.DELETE("/:id", logAPI.DeleteLog)
		}

		// API-токены (только администратор)
		tokens := auth.Group("/tokens", middleware.RequireAdmin())
		{
			tokens.GET("", tokenAPI.GetTokens)
			tokens.POST("", tokenAPI.CreateToken)
			tokens.POST("/:id/revoke", tokenAPI.RevokeToken)
		}

		// Служебные операции (только администратор)
		settings := auth.Group("/settings", middleware.RequireAdmin())
		{
			settings.GET("/stats", settingsAPI.GetStats)
			settings.GET("/backup", settingsAPI.DownloadBackup)
		}
	}

	// JSON API для внешних интеграций: JWT сессии либо именованный
	// API-токен (Authorization: Token <value>)
	apiGroup := r.Group("/api", middleware.RequireAPIAuth())
	{
		apiGroup.GET("/agents", agentAPI.GetAgents)
		apiGroup.POST("/agents", agentAPI.CreateAgent)
		apiGroup.GET("/tasks", taskAPI.GetTasks)
	}
}
