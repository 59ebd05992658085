package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
	"strings"
)

func userTypeInfo(userType *models.UserType) types.UserType {
	return types.UserType{
		ID:           userType.ID,
		Name:         userType.Name,
		Description:  userType.Description,
		Icon:         userType.Icon,
		DisplayOrder: userType.DisplayOrder,
	}
}

func (a *App) userTypeMapFields(req *types.UserTypeInput, userType *models.UserType) {
	userType.Name = strings.TrimSpace(req.Name)
	userType.Description = req.Description
	userType.Icon = req.Icon
	if req.DisplayOrder != nil {
		userType.DisplayOrder = *req.DisplayOrder
	}
}

func (a *App) UserTypeList(c echo.Context) error {
	rctx := c.Request().Context()

	var userTypes []models.UserType
	if err := a.db.WithContext(rctx).Order("display_order ASC, id ASC").Find(&userTypes).Error; err != nil {
		a.l.Error("failed to get user type list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	res := []types.UserType{}
	for i := range userTypes {
		res = append(res, userTypeInfo(&userTypes[i]))
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) UserTypeCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.UserTypeInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Name) == "" {
		return a.erMsg(c, http.StatusBadRequest, "name is required")
	}

	// 创建，未指定顺序时追加到末尾
	var userType models.UserType
	if req.DisplayOrder == nil {
		if err := a.db.WithContext(rctx).
			Model(&models.UserType{}).
			Select("COALESCE(MAX(display_order), -1) + 1").
			Scan(&userType.DisplayOrder).Error; err != nil {
			a.l.Error("failed to get next display order", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}
	a.userTypeMapFields(&req, &userType)

	if err := a.db.WithContext(rctx).Create(&userType).Error; err != nil {
		a.l.Error("failed to create user type", zap.Any("userType", userType), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, userTypeInfo(&userType))
}

func (a *App) UserTypeUpdate(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.UserTypeInput
	if err = c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Name) == "" {
		return a.erMsg(c, http.StatusBadRequest, "name is required")
	}

	// 从数据库中获得
	var userType models.UserType
	if err := a.db.WithContext(rctx).First(&userType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user type", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	a.userTypeMapFields(&req, &userType)

	// Save 会写入 NULL 的描述与图标
	if err := a.db.WithContext(rctx).Save(&userType).Error; err != nil {
		a.l.Error("failed to update user type", zap.Any("userType", userType), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userTypeInfo(&userType))
}

func (a *App) UserTypeDelete(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 级联：删除该类型的字段及其回答，清空用户的类型
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		fieldIDs := tx.Model(&models.UserField{}).Select("id").Where("user_type_id = ?", id)
		if err := tx.Where("field_id IN (?)", fieldIDs).Delete(&models.UserFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_type_id = ?", id).Delete(&models.UserField{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("user_type_id = ?", id).Update("user_type_id", nil).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&models.UserType{}, id))
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to delete user type", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
