package middleware

import (
	"backend_wrapshop/config"
	"backend_wrapshop/i18n"

	"github.com/gin-gonic/gin"
)

const langCookie = "lang"

// Language middleware определяет локаль текущего запроса: cookie "lang",
// иначе язык по умолчанию из конфигурации
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := config.GetConfig().App.DefaultLang
		if v, err := c.Cookie(langCookie); err == nil && i18n.IsSupported(v) {
			lang = v
		}
		c.Set("lang", lang)
		c.Next()
	}
}

// CurrentLang возвращает локаль текущего запроса
func CurrentLang(c *gin.Context) string {
	if v, exists := c.Get("lang"); exists {
		if lang, ok := v.(string); ok {
			return lang
		}
	}
	return config.GetConfig().App.DefaultLang
}

// SetLangCookie сохраняет выбранную локаль в cookie на год
func SetLangCookie(c *gin.Context, lang string) {
	c.SetCookie(langCookie, lang, 365*24*3600, "/", "", false, false)
}
