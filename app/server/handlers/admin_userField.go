package handlers

import (
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
	"strconv"
	"strings"
)

func userFieldInfo(field *models.UserField) types.UserField {
	return types.UserField{
		ID:                field.ID,
		FieldName:         field.FieldName,
		FieldType:         field.FieldType,
		Required:          field.Required,
		Placeholder:       field.Placeholder,
		Options:           field.Options,
		UserTypeID:        field.UserTypeID,
		EncryptionEnabled: field.EncryptionEnabled,
		IncludeInChat:     field.IncludeInChat,
		DisplayOrder:      field.DisplayOrder,
	}
}

// userFieldCheck 校验请求体，返回规范化后的字段类型
func (a *App) userFieldCheck(req *types.UserFieldInput) (fieldkind.Kind, error) {
	if strings.TrimSpace(req.FieldName) == "" {
		return nil, fmt.Errorf("field_name is required")
	}
	kind, err := fieldkind.Parse(req.FieldType, req.Options)
	if err != nil {
		return nil, err
	}
	return kind, nil
}

// PUT 为整体替换，顺序与加密开关未提供时保持原值
func (a *App) userFieldMapFields(req *types.UserFieldInput, kind fieldkind.Kind, field *models.UserField) {
	field.FieldName = strings.TrimSpace(req.FieldName)
	field.FieldType = kind.Tag()
	field.Required = req.Required
	field.Placeholder = req.Placeholder
	field.UserTypeID = req.UserTypeID
	field.IncludeInChat = req.IncludeInChat

	if sel, ok := kind.(fieldkind.Select); ok {
		field.Options = sel.Options
	} else {
		field.Options = nil
	}
	if req.DisplayOrder != nil {
		field.DisplayOrder = *req.DisplayOrder
	}
	if req.EncryptionEnabled != nil {
		field.EncryptionEnabled = *req.EncryptionEnabled
	}
}

func (a *App) userFieldValidateType(c echo.Context, userTypeID *uint) (error, int) {
	if userTypeID == nil {
		return nil, http.StatusOK
	}
	missing, err := missingIDs[models.UserType](c.Request().Context(), a.db, []uint{*userTypeID})
	if err != nil {
		return err, http.StatusInternalServerError
	}
	if len(missing) > 0 {
		return fmt.Errorf("user type %d not found", *userTypeID), http.StatusBadRequest
	}
	return nil, http.StatusOK
}

// listUserFields 按展示顺序列出字段； onlyFor 非空时只返回全局字段与该类型的字段
func (a *App) listUserFields(c echo.Context, scoped bool, onlyFor *uint) ([]types.UserField, error) {
	query := a.db.WithContext(c.Request().Context()).Model(&models.UserField{}).Order("display_order ASC, id ASC")
	if scoped {
		if onlyFor == nil {
			query = query.Where("user_type_id IS NULL")
		} else {
			query = query.Where("user_type_id IS NULL OR user_type_id = ?", *onlyFor)
		}
	}

	var fields []models.UserField
	if err := query.Find(&fields).Error; err != nil {
		return nil, err
	}

	res := []types.UserField{}
	for i := range fields {
		res = append(res, userFieldInfo(&fields[i]))
	}
	return res, nil
}

func (a *App) UserFieldList(c echo.Context) error {
	res, err := a.listUserFields(c, false, nil)
	if err != nil {
		a.l.Error("failed to get user field list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, res)
}

// UserFieldListPublic 供引导流程使用
func (a *App) UserFieldListPublic(c echo.Context) error {
	var onlyFor *uint
	if raw := c.QueryParam("user_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return a.er(c, http.StatusBadRequest)
		}
		typeID := uint(id)
		onlyFor = &typeID
	}

	res, err := a.listUserFields(c, true, onlyFor)
	if err != nil {
		a.l.Error("failed to get user field list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) UserFieldCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.UserFieldInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	kind, err := a.userFieldCheck(&req)
	if err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}

	// 验证用户类型
	if err, statusCode := a.userFieldValidateType(c, req.UserTypeID); err != nil {
		if statusCode == http.StatusBadRequest {
			return a.erMsg(c, statusCode, err.Error())
		}
		a.l.Error("failed to validate user type", zap.Error(err))
		return a.er(c, statusCode)
	}

	// 新字段默认加密，未指定顺序时追加到末尾
	field := models.UserField{EncryptionEnabled: true}
	if req.DisplayOrder == nil {
		if err := a.db.WithContext(rctx).
			Model(&models.UserField{}).
			Select("COALESCE(MAX(display_order), -1) + 1").
			Scan(&field.DisplayOrder).Error; err != nil {
			a.l.Error("failed to get next display order", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}
	a.userFieldMapFields(&req, kind, &field)

	if err := a.db.WithContext(rctx).Create(&field).Error; err != nil {
		a.l.Error("failed to create user field", zap.Any("field", field), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, userFieldInfo(&field))
}

func (a *App) UserFieldUpdate(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.UserFieldInput
	if err = c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	kind, err := a.userFieldCheck(&req)
	if err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}

	// 从数据库中获得
	var field models.UserField
	if err := a.db.WithContext(rctx).First(&field, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user field", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 验证用户类型
	if err, statusCode := a.userFieldValidateType(c, req.UserTypeID); err != nil {
		if statusCode == http.StatusBadRequest {
			return a.erMsg(c, statusCode, err.Error())
		}
		a.l.Error("failed to validate user type", zap.Error(err))
		return a.er(c, statusCode)
	}

	a.userFieldMapFields(&req, kind, &field)

	if err := a.db.WithContext(rctx).Save(&field).Error; err != nil {
		a.l.Error("failed to update user field", zap.Any("field", field), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userFieldInfo(&field))
}

func (a *App) UserFieldDelete(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 删除字段及其回答
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&models.UserFieldValue{}).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&models.UserField{}, id))
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to delete user field", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
