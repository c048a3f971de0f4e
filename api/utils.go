package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseIDParam извлекает числовой ID из параметра пути
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// QueryUint извлекает необязательный числовой параметр запроса
func QueryUint(c *gin.Context, name string) *uint {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	result := uint(id)
	return &result
}
