package handlers

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"instance-console/app/server/utils"
	"net/http"
	"strings"
)

// 单次批量迁移的用户数量上限
const maxBatchMigrate = 500

// missingRequiredFields 返回必填但尚未回答的字段名，顺序与 fields 一致
func missingRequiredFields(fields []models.UserField, answered map[uint]bool) []string {
	missing := []string{}
	for _, field := range fields {
		if field.Required && !answered[field.ID] {
			missing = append(missing, field.FieldName)
		}
	}
	return missing
}

// dedupeIDs 去重并保持首次出现的顺序
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	res := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

func summarizeBatch(results []types.MigrationResult) *types.BatchMigrateResponse {
	res := &types.BatchMigrateResponse{Results: results}
	for _, r := range results {
		if r.Success {
			res.Migrated++
		} else {
			res.Failed++
		}
	}
	res.Success = res.Failed == 0
	return res
}

// migrateUser 把一个用户迁移到目标类型，返回结果与对应的 HTTP 状态码；
// error 仅表示数据库等内部错误
func (a *App) migrateUser(ctx context.Context, userID uint, target *models.UserType, allowIncomplete bool) (types.MigrationResult, int, error) {
	result := types.MigrationResult{
		UserID:           userID,
		TargetUserTypeID: utils.P(target.ID),
	}
	status := http.StatusOK

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Error = "user not found"
				status = http.StatusNotFound
				return nil
			}
			return fmt.Errorf("get user: %w", err)
		}
		result.PreviousUserTypeID = user.UserTypeID

		// 目标类型下的必填字段（含全局字段）
		var fields []models.UserField
		if err := tx.
			Where("required = ? AND (user_type_id IS NULL OR user_type_id = ?)", true, target.ID).
			Order("display_order ASC, id ASC").
			Find(&fields).Error; err != nil {
			return fmt.Errorf("get required fields: %w", err)
		}

		answered := make(map[uint]bool)
		if len(fields) > 0 {
			fieldIDs := make([]uint, 0, len(fields))
			for _, f := range fields {
				fieldIDs = append(fieldIDs, f.ID)
			}
			var answeredIDs []uint
			if err := tx.Model(&models.UserFieldValue{}).
				Where("user_id = ? AND field_id IN ? AND value <> ''", user.ID, fieldIDs).
				Pluck("field_id", &answeredIDs).Error; err != nil {
				return fmt.Errorf("get answers: %w", err)
			}
			for _, id := range answeredIDs {
				answered[id] = true
			}
		}

		missing := missingRequiredFields(fields, answered)
		result.MissingRequiredCount = len(missing)
		result.MissingRequiredFields = missing

		if !allowIncomplete && len(missing) > 0 {
			result.Error = fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", "))
			status = http.StatusConflict
			return nil
		}

		if err := tx.Model(&user).Update("user_type_id", target.ID).Error; err != nil {
			return fmt.Errorf("update user type: %w", err)
		}
		result.Success = true
		return nil
	})
	if err != nil {
		return result, http.StatusInternalServerError, err
	}

	return result, status, nil
}
