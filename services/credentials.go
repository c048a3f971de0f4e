package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode"

	"backend_wrapshop/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialService отвечает за автоматическое создание учетных данных
// сотрудников: вывод уникального имени пользователя из email или имени и
// генерацию временного пароля, который показывается ровно один раз.
type CredentialService struct {
	db *gorm.DB
}

// NewCredentialService создает новый экземпляр CredentialService
func NewCredentialService(db *gorm.DB) *CredentialService {
	return &CredentialService{db: db}
}

// SlugifyUsername приводит основу имени пользователя к нижнему регистру и
// заменяет все небуквенно-цифровые символы точками. Для пустой основы
// возвращается запасной вариант agent<unix-время>.
func SlugifyUsername(base string) string {
	base = strings.ToLower(strings.TrimSpace(base))
	var b strings.Builder
	for _, ch := range base {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		} else {
			b.WriteRune('.')
		}
	}
	slug := b.String()
	if slug == "" {
		slug = fmt.Sprintf("agent%d", time.Now().Unix())
	}
	return slug
}

// DeriveUsername возвращает уникальное имя пользователя для основы base:
// при конфликте добавляется числовой суффикс (.2, .3, ...). Набор taken
// учитывает имена, зарезервированные в текущей пакетной операции, но еще не
// видимые в базе (импорт из таблицы).
func (s *CredentialService) DeriveUsername(base string, taken map[string]bool) (string, error) {
	slug := SlugifyUsername(base)
	username := slug
	idx := 1
	for {
		inUse := taken[username]
		if !inUse {
			var count int64
			if err := s.db.Model(&models.Agent{}).Where("username = ?", username).Count(&count).Error; err != nil {
				return "", err
			}
			inUse = count > 0
		}
		if !inUse {
			break
		}
		idx++
		username = fmt.Sprintf("%s.%d", slug, idx)
	}
	if taken != nil {
		taken[username] = true
	}
	return username, nil
}

// GenerateTempPassword возвращает случайный временный пароль
func GenerateTempPassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("не удалось сгенерировать пароль: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashPassword хеширует пароль bcrypt-ом
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сравнивает пароль с хешем
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
