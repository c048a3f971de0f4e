package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend_wrapshop/config"
	"backend_wrapshop/database"
	"backend_wrapshop/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Principal представляет аутентифицированного участника: администратора или
// сотрудника. Две несвязанные сущности делят один механизм входа, поэтому
// принципал — помеченное объединение (вид + числовой ID), восстанавливаемое
// из токена на каждом запросе. Все проверки прав сравнивают Kind, а не
// типы.
type Principal struct {
	Kind string `json:"kind"` // models.PrincipalAdmin или models.PrincipalAgent
	ID   uint   `json:"id"`
}

// IsAdmin сообщает, является ли принципал администратором
func (p Principal) IsAdmin() bool {
	return p.Kind == models.PrincipalAdmin
}

// IsAgent сообщает, является ли принципал сотрудником
func (p Principal) IsAgent() bool {
	return p.Kind == models.PrincipalAgent
}

// IssueToken выпускает JWT сессии для принципала
func IssueToken(p Principal) (string, error) {
	cfg := config.GetConfig()
	now := time.Now()
	claims := jwt.MapClaims{
		"kind": p.Kind,
		"uid":  float64(p.ID),
		"iss":  cfg.JWT.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.JWT.ExpiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// parseSessionToken разбирает и проверяет JWT сессии
func parseSessionToken(tokenString string) (Principal, error) {
	cfg := config.GetConfig()
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("invalid token claims")
	}

	kind, _ := claims["kind"].(string)
	uid, _ := claims["uid"].(float64)
	if (kind != models.PrincipalAdmin && kind != models.PrincipalAgent) || uid <= 0 {
		return Principal{}, fmt.Errorf("invalid principal in token")
	}

	return Principal{Kind: kind, ID: uint(uid)}, nil
}

// restorePrincipal проверяет, что принципал из токена все еще существует
// (и что сотрудник не деактивирован)
func restorePrincipal(db *gorm.DB, p Principal) error {
	switch p.Kind {
	case models.PrincipalAdmin:
		var count int64
		if err := db.Model(&models.Admin{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("admin %d not found", p.ID)
		}
	case models.PrincipalAgent:
		var count int64
		if err := db.Model(&models.Agent{}).Where("id = ? AND is_active = ?", p.ID, true).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("agent %d not found or inactive", p.ID)
		}
	}
	return nil
}

// extractAuthHeader возвращает схему и значение заголовка Authorization
func extractAuthHeader(c *gin.Context) (scheme, value string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		authHeader = c.GetHeader("authorization")
	}
	if authHeader == "" {
		return "", ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return "Bearer", strings.TrimPrefix(authHeader, "Bearer ")
	}
	if strings.HasPrefix(authHeader, "Token ") {
		return "Token", strings.TrimPrefix(authHeader, "Token ")
	}
	return "Bearer", authHeader
}

// RequireAuth middleware для проверки аутентификации по JWT сессии
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, tokenString := extractAuthHeader(c)
		if tokenString == "" || scheme != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authorization header is required",
			})
			c.Abort()
			return
		}

		principal, err := parseSessionToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if err := restorePrincipal(GetContextDB(c), principal); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Principal no longer valid",
			})
			c.Abort()
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}

// RequireAPIAuth middleware для JSON API: принимает JWT сессии
// (Bearer <jwt>) либо именованный API-токен (Token <value>), проверяемый по
// таблице api_tokens с учетом отзыва.
func RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, value := extractAuthHeader(c)
		if value == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authorization header is required",
			})
			c.Abort()
			return
		}

		db := GetContextDB(c)

		if scheme == "Token" {
			var apiToken models.APIToken
			err := db.Where("token = ? AND revoked = ?", value, false).First(&apiToken).Error
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status": "error",
					"error":  "Invalid or revoked API token",
				})
				c.Abort()
				return
			}
			// API-токен действует от имени создавшего его администратора
			c.Set("principal", Principal{Kind: models.PrincipalAdmin, ID: apiToken.CreatedBy})
			c.Next()
			return
		}

		principal, err := parseSessionToken(value)
		if err != nil || restorePrincipal(db, principal) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}

// RequireAdmin middleware пропускает только администраторов. Должен стоять
// после RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok || !principal.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"status": "error",
				"error":  "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal возвращает принципала текущего запроса
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	if v, exists := c.Get("principal"); exists {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return Principal{}, false
}

// GetContextDB возвращает базу данных из контекста запроса (для тестов)
// или глобальное подключение
func GetContextDB(c *gin.Context) *gorm.DB {
	if v, exists := c.Get("db"); exists {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return database.GetDB()
}
