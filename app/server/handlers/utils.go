package handlers

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"strconv"
)

// paramID 解析路径中的 :id
func (a *App) paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}
