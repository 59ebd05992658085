package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/constants"
	"instance-console/app/server/middlewares"
	"instance-console/app/server/types"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var reachoutClient = &http.Client{Timeout: 10 * time.Second}

func signReachout(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *App) Reachout(c echo.Context) error {
	jwtUser := middlewares.CurrentUser(c)

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.ReachoutRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Message) == "" {
		return a.erMsg(c, http.StatusBadRequest, "message is required")
	}

	// 检查是否开启
	enabledStr, err := a.settingValue(rctx, constants.SettingReachoutEnabled)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		a.l.Error("failed to get reachout setting", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if enabled, _ := strconv.ParseBool(enabledStr); !enabled {
		return a.erMsg(c, http.StatusNotFound, "reachout is disabled")
	}

	webhookURL, err := a.settingValue(rctx, constants.SettingReachoutWebhookURL)
	if err != nil || webhookURL == "" {
		a.l.Error("reachout webhook url not configured", zap.Error(err))
		return a.erMsg(c, http.StatusServiceUnavailable, "reachout is not configured")
	}

	// 密钥可选
	secret, err := a.settingValue(rctx, constants.SettingReachoutWebhookSecret)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		a.l.Error("failed to get reachout secret", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	body, err := json.Marshal(&types.ReachoutEvent{
		UserID:    jwtUser.ID,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		a.l.Error("reachout json marshal", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if err := a.sendReachout(c, webhookURL, secret, body); err != nil {
		a.l.Error("failed to send reachout", zap.String("url", webhookURL), zap.Error(err))
		return a.erMsg(c, http.StatusBadGateway, "failed to deliver message")
	}

	return c.NoContent(http.StatusAccepted)
}

func (a *App) sendReachout(c echo.Context, webhookURL, secret string, body []byte) error {
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("prepare request: %w", err)
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSON)
	if secret != "" {
		req.Header.Set(constants.ReachoutSignatureHeader, signReachout(secret, body))
	}

	res, err := reachoutClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", res.StatusCode)
	}
	return nil
}
