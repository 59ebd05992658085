package handlers

import (
	"github.com/labstack/echo/v4"
	"instance-console/app/server/middlewares"
)

func RegisterHandlers(e *echo.Echo, a *App) {
	auth := middlewares.Auth(a.jwt, a.l)

	e.GET("/healthz", a.HealthCheck)

	// 公开接口
	e.POST("/auth/login", a.AuthLogin)
	e.POST("/auth/magic-link", a.MagicLinkRequest)
	e.POST("/auth/magic-link/verify", a.MagicLinkVerify)
	e.GET("/settings/public", a.SettingsPublic)
	e.GET("/user-types", a.UserTypeList)
	e.GET("/user-fields", a.UserFieldListPublic)

	// 用户接口
	e.PUT("/users/me", a.ProfileUpdate, auth, middlewares.RequireUser)
	e.POST("/reachout", a.Reachout, auth, middlewares.RequireUser)

	// 管理接口
	admin := e.Group("/admin", auth, middlewares.RequireAdmin)

	admin.GET("/settings", a.SettingsGet)
	admin.PUT("/settings", a.SettingsUpdate)

	admin.GET("/user-types", a.UserTypeList)
	admin.POST("/user-types", a.UserTypeCreate)
	admin.PUT("/user-types/:id", a.UserTypeUpdate)
	admin.DELETE("/user-types/:id", a.UserTypeDelete)

	admin.GET("/user-fields", a.UserFieldList)
	admin.POST("/user-fields", a.UserFieldCreate)
	admin.PUT("/user-fields/:id", a.UserFieldUpdate)
	admin.DELETE("/user-fields/:id", a.UserFieldDelete)

	admin.GET("/users", a.UserList)
	admin.PUT("/users/:id/approve", a.UserApprove)
	admin.POST("/users/:id/migrate-type", a.UserMigrateType)
	admin.POST("/users/migrate-type/batch", a.UserMigrateTypeBatch)
}
