package handlers

import (
	"github.com/labstack/echo/v4"
	"instance-console/app/server/types"
	"net/http"
)

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Detail: http.StatusText(statusCode),
	})
}

// erMsg 返回带有具体说明的错误，管理端会直接展示 detail
func (a *App) erMsg(c echo.Context, statusCode int, detail string) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Detail: detail,
	})
}
