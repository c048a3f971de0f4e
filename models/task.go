package models

import (
	"time"
)

// Task представляет задание на оклейку. Задание создается напрямую,
// быстрым добавлением (сразу завершенным) или автоматически при создании
// дохода — в последнем случае IncomeID ссылается на породивший его доход.
//
// Инвариант: Completed == true ⇔ CompletedAt != nil.
type Task struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Основные поля
	Title       string `json:"title" gorm:"not null;type:varchar(200)"`
	Description string `json:"description" gorm:"type:text"`

	// Назначение. Ссылка на сотрудника не владеющая: удаление сотрудника
	// блокируется, пока существуют задания.
	AgentID    *uint      `json:"agent_id" gorm:"index"`
	AssignedAt time.Time  `json:"assigned_at" gorm:"autoCreateTime"`
	DueDate    *time.Time `json:"due_date" gorm:"type:date"`

	// Состояние выполнения
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`

	// Обратная ссылка на доход, породивший задание
	IncomeID *uint `json:"income_id" gorm:"index"`

	// Количество оклеенных автомобилей
	CarCount int `json:"car_count" gorm:"default:0"`
}

// TableName задает имя таблицы для модели Task
func (Task) TableName() string {
	return "tasks"
}

// MarkCompleted отмечает задание завершенным, устанавливая время завершения
func (t *Task) MarkCompleted(now time.Time) {
	t.Completed = true
	t.CompletedAt = &now
}

// MarkReopened возвращает задание в работу и сбрасывает время завершения
func (t *Task) MarkReopened() {
	t.Completed = false
	t.CompletedAt = nil
}
