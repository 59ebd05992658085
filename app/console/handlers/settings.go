package handlers

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/console/view"
	"instance-console/app/server/types"
	"strings"
)

// settings 无参数时列出配置，否则按 KEY=VALUE 更新
func (a *App) settings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		settings, err := a.c.GetSettings(ctx)
		if err != nil {
			return err
		}
		return view.Settings(a.out, settings)
	}

	update := types.Settings{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid setting %q, expected KEY=VALUE", arg)
		}
		update[key] = value
	}

	settings, err := a.c.UpdateSettings(ctx, update)
	if err != nil {
		return err
	}

	// 品牌信息可能变了
	if err := a.ic.Refresh(ctx); err != nil {
		a.l.Warn("failed to refresh instance config", zap.Error(err))
	}

	return view.Settings(a.out, settings)
}
