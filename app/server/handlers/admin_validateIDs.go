package handlers

import (
	"context"
	"fmt"
	"gorm.io/gorm"
	"instance-console/app/server/models"
	"slices"
)

// missingIDs 返回 ids 中在数据库里不存在的部分，顺序不变。
// 方法不能有类型形参，所以这个不能用 (a *App)
func missingIDs[M models.UserType | models.UserField | models.User](ctx context.Context, db *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var (
		model M
		found []uint
	)
	if err := db.WithContext(ctx).
		Model(&model).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("pluck ids: %w", err)
	}

	var missing []uint
	for _, id := range ids {
		if !slices.Contains(found, id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// deleted 检查删除结果，没有删除任何行时返回 gorm.ErrRecordNotFound
func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
