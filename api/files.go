package api

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"backend_wrapshop/config"
	"backend_wrapshop/i18n"
	"backend_wrapshop/middleware"
	"backend_wrapshop/models"
	"backend_wrapshop/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileAPI представляет API загрузки файлов и импорта таблиц
type FileAPI struct{}

// NewFileAPI создает новый экземпляр FileAPI
func NewFileAPI() *FileAPI {
	return &FileAPI{}
}

// SanitizeFilename оставляет в имени файла только безопасные символы
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '.' || ch == '-' || ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	result := b.String()
	if result == "" || result == "." || result == ".." {
		result = "upload"
	}
	return result
}

// UploadFile принимает файл таблицы, сохраняет его под уникальным именем и
// пытается импортировать данные. Ошибки импорта пишутся в журнал, но не
// отменяют загрузку.
func (api *FileAPI) UploadFile(c *gin.Context) {
	cfg := config.GetConfig()
	db := middleware.GetContextDB(c)
	lang := middleware.CurrentLang(c)
	principal, _ := middleware.CurrentPrincipal(c)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "Invalid file or no file")})
		return
	}
	if header.Size > cfg.Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл слишком большой"})
		return
	}

	filename := SanitizeFilename(header.Filename)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !cfg.IsExtensionAllowed(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "Invalid file or no file")})
		return
	}

	// Префикс исключает перезапись при совпадении имен
	storedName := fmt.Sprintf("%s_%s", uuid.New().String()[:8], filename)
	path := filepath.Join(cfg.Storage.UploadDir, storedName)
	if err := c.SaveUploadedFile(header, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сохранении файла"})
		return
	}

	upload := models.FileUpload{
		Filename:   filename,
		StoredName: storedName,
		UploadedBy: principal.ID,
	}
	if err := db.Create(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при записи файла"})
		return
	}

	audit := services.NewAuditService(db)
	audit.Record(principal.Kind, principal.ID, "upload_file", fmt.Sprintf("Uploaded %s", filename))

	// Импорт не должен ломать загрузку: ошибки уже записаны в журнал
	summary, _ := services.NewImportService(db).ImportWorkbook(path, filename, principal.Kind, principal.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(lang, "File uploaded"),
		"data":    upload,
		"import":  summary,
	})
}

// GetFiles возвращает список загруженных файлов
func (api *FileAPI) GetFiles(c *gin.Context) {
	db := middleware.GetContextDB(c)

	var files []models.FileUpload
	if err := db.Order("uploaded_at DESC").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка файлов"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": files, "count": len(files)})
}

// DownloadFile отдает один загруженный файл
func (api *FileAPI) DownloadFile(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var upload models.FileUpload
	if err := db.First(&upload, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Файл не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске файла"})
		}
		return
	}

	path := filepath.Join(config.GetConfig().Storage.UploadDir, upload.StoredName)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Файл отсутствует на диске"})
		return
	}

	c.FileAttachment(path, upload.Filename)
}

// DownloadAllFiles отдает все загруженные файлы одним zip-архивом
func (api *FileAPI) DownloadAllFiles(c *gin.Context) {
	db := middleware.GetContextDB(c)

	var files []models.FileUpload
	if err := db.Order("uploaded_at").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка файлов"})
		return
	}
	if len(files) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Нет загруженных файлов"})
		return
	}

	uploadDir := config.GetConfig().Storage.UploadDir
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, upload := range files {
		src, err := os.Open(filepath.Join(uploadDir, upload.StoredName))
		if err != nil {
			continue
		}
		// В архиве файлы лежат под хранимыми именами: исходные имена могут
		// совпадать
		entry, err := zw.Create(upload.StoredName)
		if err == nil {
			_, err = io.Copy(entry, src)
		}
		src.Close()
		if err != nil {
			zw.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при формировании архива"})
			return
		}
	}
	if err := zw.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при формировании архива"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=uploads.zip")
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// DeleteFile удаляет запись о файле и сам файл с диска
func (api *FileAPI) DeleteFile(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	db := middleware.GetContextDB(c)
	var upload models.FileUpload
	if err := db.First(&upload, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Файл не найден"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске файла"})
		}
		return
	}

	if err := db.Delete(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении файла"})
		return
	}
	os.Remove(filepath.Join(config.GetConfig().Storage.UploadDir, upload.StoredName))

	principal, _ := middleware.CurrentPrincipal(c)
	services.NewAuditService(db).Record(principal.Kind, principal.ID, "delete_file",
		fmt.Sprintf("Deleted file %s", upload.Filename))

	c.JSON(http.StatusOK, gin.H{"message": "Файл удален"})
}
