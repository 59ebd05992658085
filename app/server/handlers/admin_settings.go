package handlers

import (
	"context"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"instance-console/app/server/constants"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
	"strings"
)

func isSecretSetting(key string) bool {
	for _, suffix := range constants.SecretSettingSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

func maskSettings(settings []models.Setting) types.Settings {
	res := types.Settings{}
	for _, s := range settings {
		if s.IsSecret {
			res[s.Key] = constants.SecretMask
		} else {
			res[s.Key] = string(s.Value)
		}
	}
	return res
}

func (a *App) SettingsGet(c echo.Context) error {
	rctx := c.Request().Context()

	var settings []models.Setting
	if err := a.db.WithContext(rctx).Order("key ASC").Find(&settings).Error; err != nil {
		a.l.Error("failed to get settings", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, maskSettings(settings))
}

func (a *App) SettingsUpdate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.Settings
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	var (
		upserts []models.Setting
		deletes []string
	)
	for key, value := range req {
		key = strings.TrimSpace(key)
		if key == "" {
			return a.erMsg(c, http.StatusBadRequest, "setting key cannot be empty")
		}

		secret := isSecretSetting(key)
		switch {
		case secret && value == constants.SecretMask:
			// 掩码原样提交，表示不修改
			continue
		case value == "":
			deletes = append(deletes, key)
			continue
		}

		setting := models.Setting{Key: key, Value: []byte(value), IsSecret: secret}
		if secret {
			encrypted, err := a.sealSecret(key, setting.Value)
			if err != nil {
				a.l.Error("failed to encrypt setting", zap.String("key", key), zap.Error(err))
				return a.er(c, http.StatusInternalServerError)
			}
			setting.Value = encrypted
		}
		upserts = append(upserts, setting)
	}

	var settings []models.Setting
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if len(deletes) > 0 {
			if err := tx.Where("key IN ?", deletes).Delete(&models.Setting{}).Error; err != nil {
				return err
			}
		}
		if len(upserts) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "is_secret", "updated_at"}),
			}).Create(&upserts).Error; err != nil {
				return err
			}
		}
		return tx.Order("key ASC").Find(&settings).Error
	}); err != nil {
		a.l.Error("failed to update settings", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 品牌信息可能变化
	a.settingsClearCache(rctx)

	return c.JSON(http.StatusOK, maskSettings(settings))
}

// settingValue 读取一个配置项的真实值，密钥类配置会被解密
func (a *App) settingValue(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	if err := a.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	if !setting.IsSecret {
		return string(setting.Value), nil
	}
	plaintext, err := a.openSecret(key, setting.Value)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
