package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"instance-console/app/server/constants"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
)

func (a *App) SettingsPublic(c echo.Context) error {
	rctx := c.Request().Context()

	// 检查是否有缓存结果
	if data, err := a.rdb.Get(rctx, constants.CacheKeyPublicSettings).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			a.l.Error("public settings check cache", zap.Error(err))
		}
	} else {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	}

	res, err := a.loadPublicSettings(rctx)
	if err != nil {
		a.l.Error("failed to load public settings", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resBytes, err := json.Marshal(res)
	if err != nil {
		a.l.Error("public settings json marshal", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 加入缓存
	a.rdb.Set(rctx, constants.CacheKeyPublicSettings, resBytes, constants.CacheExpirePublicSettings)

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, resBytes)
}

func (a *App) loadPublicSettings(ctx context.Context) (*types.PublicSettings, error) {
	var settings []models.Setting
	if err := a.db.WithContext(ctx).
		Where("key IN ? AND is_secret = ?", []string{
			constants.SettingInstanceName,
			constants.SettingPrimaryColor,
			constants.SettingIcon,
		}, false).
		Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}

	res := &types.PublicSettings{}
	for _, s := range settings {
		switch s.Key {
		case constants.SettingInstanceName:
			res.InstanceName = string(s.Value)
		case constants.SettingPrimaryColor:
			res.PrimaryColor = string(s.Value)
		case constants.SettingIcon:
			res.Icon = string(s.Value)
		}
	}

	return res, nil
}

func (a *App) settingsClearCache(ctx context.Context) {
	a.rdb.Del(ctx, constants.CacheKeyPublicSettings)
}
