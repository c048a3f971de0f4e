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

// TaskAPI представляет API для работы с заданиями на оклейку
type TaskAPI struct{}

// NewTaskAPI создает новый экземпляр TaskAPI
func NewTaskAPI() *TaskAPI {
	return &TaskAPI{}
}

// TaskRequest представляет запрос на создание или изменение задания
type TaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AgentID     *uint  `json:"agent_id"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
	CarCount    int    `json:"car_count"`
}

// QuickAddRequest представляет быстрое добавление выполненной оклейки
type QuickAddRequest struct {
	Title    string `json:"title" binding:"required"`
	AgentID  *uint  `json:"agent_id"`
	CarCount int    `json:"car_count"`
}

func parseDueDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата %q, ожидается YYYY-MM-DD", v)
	}
	return &t, nil
}

// GetTasks возвращает список заданий. Сотрудник видит только свои задания,
// администратор — все, с фильтрами по сотруднику и статусу.
func (api *TaskAPI) GetTasks(c *gin.Context) {
	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	query := db.Model(&models.Task{})
	if principal.IsAgent() {
		query = query.Where("agent_id = ?", principal.ID)
	} else {
		if agentID := QueryUint(c, "agent_id"); agentID != nil {
			query = query.Where("agent_id = ?", *agentID)
		}
	}
	if completed := c.Query("completed"); completed == "true" {
		query = query.Where("completed = ?", true)
	} else if completed == "false" {
		query = query.Where("completed = ?", false)
	}

	var tasks []models.Task
	if err := query.Order("assigned_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка заданий"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tasks, "count": len(tasks)})
}

// CreateTask создает задание (только администратор)
func (api *TaskAPI) CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		AgentID:     req.AgentID,
		DueDate:     dueDate,
		CarCount:    req.CarCount,
	}
	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании задания"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "create_task",
		fmt.Sprintf("Created task %d (%s)", task.ID, task.Title))

	c.JSON(http.StatusCreated, gin.H{"message": "Задание успешно создано", "data": task})
}

// UpdateTask обновляет задание (только администратор)
func (api *TaskAPI) UpdateTask(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задание не найдено"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске задания"})
		}
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.AgentID = req.AgentID
	task.DueDate = dueDate
	task.CarCount = req.CarCount

	if err := db.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении задания"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "edit_task",
		fmt.Sprintf("Edited task %d (%s)", task.ID, task.Title))

	c.JSON(http.StatusOK, gin.H{"message": "Задание успешно обновлено", "data": task})
}

// DeleteTask удаляет задание (только администратор)
func (api *TaskAPI) DeleteTask(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задание не найдено"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске задания"})
		}
		return
	}

	if err := db.Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении задания"})
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "delete_task",
		fmt.Sprintf("Deleted task %d (%s)", task.ID, task.Title))

	c.JSON(http.StatusOK, gin.H{"message": "Задание успешно удалено"})
}

// ToggleTask переключает состояние выполнения задания. Сотрудник может
// переключать только свои задания.
func (api *TaskAPI) ToggleTask(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задание не найдено"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске задания"})
		}
		return
	}

	if principal.IsAgent() && (task.AgentID == nil || *task.AgentID != principal.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, "Access denied")})
		return
	}

	var message string
	if task.Completed {
		task.MarkReopened()
		message = i18n.T(lang, "Task reopened")
	} else {
		task.MarkCompleted(time.Now())
		message = i18n.T(lang, "Task completed successfully")
	}

	if err := db.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении задания"})
		return
	}

	action := "complete_task"
	if !task.Completed {
		action = "reopen_task"
	}
	services.NewAuditService(db).Record(principal.Kind, principal.ID, action,
		fmt.Sprintf("Task %d (%s)", task.ID, task.Title))

	c.JSON(http.StatusOK, gin.H{"message": message, "data": task})
}

// QuickAddTask быстро фиксирует уже выполненную оклейку (только
// администратор): задание создается сразу завершенным, автомобили
// засчитываются указанному в agent_id сотруднику
func (api *TaskAPI) QuickAddTask(c *gin.Context) {
	var req QuickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные: " + err.Error()})
		return
	}

	db := middleware.GetContextDB(c)
	principal, _ := middleware.CurrentPrincipal(c)

	carCount := req.CarCount
	if carCount <= 0 {
		carCount = 1
	}

	task := models.Task{
		Title:    req.Title,
		AgentID:  req.AgentID,
		CarCount: carCount,
	}
	task.MarkCompleted(time.Now())

	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании задания"})
		return
	}

	services.NewAuditService(db).Record(principal.Kind, principal.ID, "quick_add_task",
		fmt.Sprintf("Quick-added task %d (%s, %d cars)", task.ID, task.Title, task.CarCount))

	c.JSON(http.StatusCreated, gin.H{"message": "Задание добавлено", "data": task})
}
