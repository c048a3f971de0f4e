package models

import (
	"time"
)

// ServiceType представляет элемент справочника видов услуг. Справочник
// пополняется автоматически: новое значение, встреченное при создании
// дохода, добавляется в список для подсказок в формах.
type ServiceType struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`

	Name string `json:"name" gorm:"uniqueIndex;not null;type:varchar(200)"`
}

// TableName задает имя таблицы для модели ServiceType
func (ServiceType) TableName() string {
	return "service_types"
}

// CarType представляет элемент справочника типов автомобилей, пополняется
// так же, как ServiceType.
type CarType struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`

	Name string `json:"name" gorm:"uniqueIndex;not null;type:varchar(200)"`
}

// TableName задает имя таблицы для модели CarType
func (CarType) TableName() string {
	return "car_types"
}
