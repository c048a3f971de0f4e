package models

import (
	"time"
)

// FileUpload представляет метаданные загруженного файла. Сам файл лежит в
// каталоге загрузок под именем StoredName: к очищенному исходному имени
// добавляется случайный префикс, чтобы одноименные загрузки не
// перезаписывали друг друга.
type FileUpload struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`

	// Исходное имя файла, показывается пользователю и при скачивании
	Filename string `json:"filename" gorm:"not null;type:varchar(300)"`

	// Имя файла на диске (с уникальным префиксом)
	StoredName string `json:"stored_name" gorm:"not null;type:varchar(340)"`

	UploadedBy uint `json:"uploaded_by"`
}

// TableName задает имя таблицы для модели FileUpload
func (FileUpload) TableName() string {
	return "file_uploads"
}
