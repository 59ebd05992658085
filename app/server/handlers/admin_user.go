package handlers

import (
	"encoding/json"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
)

// encryptedPayload 原样还原客户端上传的密文，不做解密
func encryptedPayload(raw json.RawMessage) *types.EncryptedPayload {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var payload types.EncryptedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return &payload
}

func mustRaw(payload *types.EncryptedPayload) json.RawMessage {
	raw, _ := json.Marshal(payload) // 结构体只含字符串，不会失败
	return raw
}

func userSummary(user *models.User) types.AdminUserSummary {
	summary := types.AdminUserSummary{
		ID:             user.ID,
		Pubkey:         user.Pubkey,
		EmailEncrypted: encryptedPayload(user.EmailEncrypted),
		NameEncrypted:  encryptedPayload(user.NameEncrypted),
		UserTypeID:     user.UserTypeID,
		Approved:       user.Approved,
		CreatedAt:      user.CreatedAt,
	}
	if user.UserType != nil {
		userType := userTypeInfo(user.UserType)
		summary.UserType = &userType
	}
	return summary
}

func (a *App) UserList(c echo.Context) error {
	rctx := c.Request().Context()

	var (
		users      []models.User
		usersCount int64
	)

	p := parsePagination(c.QueryParam("page"), c.QueryParam("limit"))
	if err := a.db.WithContext(rctx).
		Model(&models.User{}).
		Preload("UserType").
		Order("id ASC").
		Scopes(p.Scope).
		Find(&users).Error; err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.User{}).Count(&usersCount).Error; err != nil {
		a.l.Error("failed to count user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resUsers := []types.AdminUserSummary{}
	for i := range users {
		resUsers = append(resUsers, userSummary(&users[i]))
	}

	return c.JSON(http.StatusOK, &types.ListResponse[types.AdminUserSummary]{
		Limit:   p.Limit,
		PageMax: p.MaxPage(usersCount),
		List:    resUsers,
	})
}

func (a *App) UserApprove(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.UserApproveInput
	if err = c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.Approved == nil {
		return a.erMsg(c, http.StatusBadRequest, "approved is required")
	}

	// 从数据库中获得指定的用户
	var user models.User
	if err := a.db.WithContext(rctx).Preload("UserType").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		} else {
			a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 更新用户信息
	if err := a.db.WithContext(rctx).Model(&user).Update("approved", *req.Approved).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userSummary(&user))
}
