package handlers

import (
	"context"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck 检查数据库与 Redis 是否可用
func (a *App) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		a.l.Error("database is unavailable", zap.Error(err))
		return a.er(c, http.StatusServiceUnavailable)
	}

	if err := a.rdb.Ping(ctx).Err(); err != nil {
		a.l.Error("redis is unavailable", zap.Error(err))
		return a.er(c, http.StatusServiceUnavailable)
	}

	return c.NoContent(http.StatusOK)
}
