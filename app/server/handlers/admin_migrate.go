package handlers

import (
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"instance-console/app/server/utils"
	"net/http"
	"slices"
)

func (a *App) migrateTarget(ctx context.Context, id uint) (*models.UserType, error, int) {
	var target models.UserType
	if err := a.db.WithContext(ctx).First(&target, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err, http.StatusNotFound
		}
		return nil, err, http.StatusInternalServerError
	}
	return &target, nil, http.StatusOK
}

func (a *App) UserMigrateType(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.MigrateRequest
	if err = c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.TargetUserTypeID == 0 {
		return a.erMsg(c, http.StatusBadRequest, "target_user_type_id is required")
	}

	target, err, statusCode := a.migrateTarget(rctx, req.TargetUserTypeID)
	if err != nil {
		if statusCode == http.StatusNotFound {
			return a.erMsg(c, statusCode, "target user type not found")
		}
		a.l.Error("failed to get target user type", zap.Uint("id", req.TargetUserTypeID), zap.Error(err))
		return a.er(c, statusCode)
	}

	result, statusCode, err := a.migrateUser(rctx, id, target, req.AllowIncomplete)
	if err != nil {
		a.l.Error("failed to migrate user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, statusCode)
	}
	if !result.Success {
		return a.erMsg(c, statusCode, result.Error)
	}

	a.l.Info("user migrated",
		zap.Uint("id", id),
		zap.Uint("target", target.ID),
		zap.Int("missing", result.MissingRequiredCount),
	)

	return c.JSON(http.StatusOK, &result)
}

func (a *App) UserMigrateTypeBatch(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.BatchMigrateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	ids := dedupeIDs(req.UserIDs)
	if len(ids) == 0 {
		return a.erMsg(c, http.StatusBadRequest, "user_ids is required")
	}
	if len(ids) > maxBatchMigrate {
		return a.erMsg(c, http.StatusBadRequest, "too many user_ids")
	}
	if req.TargetUserTypeID == 0 {
		return a.erMsg(c, http.StatusBadRequest, "target_user_type_id is required")
	}

	target, err, statusCode := a.migrateTarget(rctx, req.TargetUserTypeID)
	if err != nil {
		if statusCode == http.StatusNotFound {
			return a.erMsg(c, statusCode, "target user type not found")
		}
		a.l.Error("failed to get target user type", zap.Uint("id", req.TargetUserTypeID), zap.Error(err))
		return a.er(c, statusCode)
	}

	missing, err := missingIDs[models.User](rctx, a.db, ids)
	if err != nil {
		a.l.Error("failed to check user ids", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 每个用户单独提交，失败不影响其他用户
	results := make([]types.MigrationResult, 0, len(ids))
	for _, id := range ids {
		if slices.Contains(missing, id) {
			results = append(results, types.MigrationResult{UserID: id, TargetUserTypeID: utils.P(target.ID), Error: "user not found"})
			continue
		}
		result, _, err := a.migrateUser(rctx, id, target, req.AllowIncomplete)
		if err != nil {
			a.l.Error("failed to migrate user", zap.Uint("id", id), zap.Error(err))
			result.Success = false
			result.Error = "internal error"
		}
		results = append(results, result)
	}

	res := summarizeBatch(results)
	a.l.Info("batch migration finished",
		zap.Uint("target", target.ID),
		zap.Int("migrated", res.Migrated),
		zap.Int("failed", res.Failed),
	)

	return c.JSON(http.StatusOK, res)
}
