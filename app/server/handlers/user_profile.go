package handlers

import (
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/middlewares"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
	"strings"
	"time"
)

var errTypeLocked = errors.New("user type can only be changed by an administrator")

// checkAnswers 校验用户提交的回答； fields 需包含全部被回答的字段
func checkAnswers(fields map[uint]models.UserField, answers []types.Answer) error {
	for _, answer := range answers {
		field, ok := fields[answer.FieldID]
		if !ok {
			return fmt.Errorf("unknown field %d", answer.FieldID)
		}

		// 加密字段只接受密文，服务端无法检查内容
		if field.EncryptionEnabled {
			if !answer.Encrypted {
				return fmt.Errorf("field %q requires an encrypted value", field.FieldName)
			}
			if field.Required && strings.TrimSpace(answer.Value) == "" {
				return fmt.Errorf("field %q: %w", field.FieldName, fieldkind.ErrRequired)
			}
			continue
		}
		if answer.Encrypted {
			return fmt.Errorf("field %q does not accept encrypted values", field.FieldName)
		}

		kind, err := fieldkind.Parse(field.FieldType, field.Options)
		if err != nil {
			return fmt.Errorf("field %q: %w", field.FieldName, err)
		}
		if err := fieldkind.Check(kind, answer.Value, field.Required); err != nil {
			return fmt.Errorf("field %q: %w", field.FieldName, err)
		}
	}
	return nil
}

func (a *App) ProfileUpdate(c echo.Context) error {
	jwtUser := middlewares.CurrentUser(c)

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.ProfileUpdateInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 从数据库中获得当前用户
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", jwtUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", jwtUser.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 用户只能在尚未分类时选择类型，之后的变更走管理端迁移
	if req.UserTypeID != nil {
		if user.UserTypeID != nil && *user.UserTypeID != *req.UserTypeID {
			return a.erMsg(c, http.StatusConflict, errTypeLocked.Error())
		}
		if err, statusCode := a.userFieldValidateType(c, req.UserTypeID); err != nil {
			if statusCode == http.StatusBadRequest {
				return a.erMsg(c, statusCode, err.Error())
			}
			a.l.Error("failed to validate user type", zap.Error(err))
			return a.er(c, statusCode)
		}
		user.UserTypeID = req.UserTypeID
	}

	// 校验回答
	fields := make(map[uint]models.UserField)
	if len(req.Answers) > 0 {
		fieldIDs := make([]uint, 0, len(req.Answers))
		for _, answer := range req.Answers {
			fieldIDs = append(fieldIDs, answer.FieldID)
		}

		query := a.db.WithContext(rctx).Where("id IN ?", fieldIDs)
		if user.UserTypeID == nil {
			query = query.Where("user_type_id IS NULL")
		} else {
			query = query.Where("user_type_id IS NULL OR user_type_id = ?", *user.UserTypeID)
		}

		var found []models.UserField
		if err := query.Find(&found).Error; err != nil {
			a.l.Error("failed to get user fields", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		for _, f := range found {
			fields[f.ID] = f
		}
	}
	if err := checkAnswers(fields, req.Answers); err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}

	// 客户端加密的资料原样保存
	if req.Pubkey != nil {
		user.Pubkey = req.Pubkey
	}
	if req.EmailEncrypted != nil {
		user.EmailEncrypted = mustRaw(req.EmailEncrypted)
	}
	if req.NameEncrypted != nil {
		user.NameEncrypted = mustRaw(req.NameEncrypted)
	}

	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if len(req.Answers) == 0 {
			return nil
		}

		now := time.Now()
		values := make([]models.UserFieldValue, 0, len(req.Answers))
		for _, answer := range req.Answers {
			values = append(values, models.UserFieldValue{
				UserID:    user.ID,
				FieldID:   answer.FieldID,
				Value:     answer.Value,
				Encrypted: answer.Encrypted,
				UpdatedAt: now,
			})
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "field_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "encrypted", "updated_at"}),
		}).Create(&values).Error
	}); err != nil {
		a.l.Error("failed to update profile", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if err := a.db.WithContext(rctx).Preload("UserType").First(&user, "id = ?", user.ID).Error; err != nil {
		a.l.Error("failed to reload user", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userSummary(&user))
}
