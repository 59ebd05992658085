package handlers

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
)

func (a *App) status(ctx context.Context, args []string) error {
	a.banner()

	target := "none"
	if id, ok := a.e.Target(); ok {
		target = fmt.Sprintf("%d", id)
	}

	fmt.Fprintf(a.out, "fields: %d, user types: %d, users: %d\n", len(a.e.Fields()), len(a.e.UserTypes()), len(a.e.Users()))
	fmt.Fprintf(a.out, "filter: %s, selected: %d, target: %s\n", a.e.Filter(), len(a.e.Selected()), target)
	if ts := a.e.Transitions(); len(ts) > 0 {
		last := ts[len(ts)-1]
		fmt.Fprintf(a.out, "last reorder: %s (%s -> %s)\n", last.Op, last.From, last.To)
	}
	return nil
}

// refresh 重新加载全部数据
func (a *App) refresh(ctx context.Context, args []string) error {
	err := a.e.Load(ctx)
	if icErr := a.ic.Refresh(ctx); icErr != nil {
		a.l.Warn("failed to refresh instance config", zap.Error(icErr))
		err = errors.Join(err, icErr)
	}
	if err != nil {
		return err
	}
	return a.status(ctx, nil)
}
