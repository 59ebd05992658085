package handlers

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"sync"
	"time"
)

// watch 按固定间隔刷新数据，直到 ctx 结束
func (a *App) watch(ctx context.Context, args []string) error {
	a.l.Info("watching instance", zap.Duration("interval", a.cfg.RefreshInterval))

	var wg sync.WaitGroup
	defer wg.Wait()

	a.sync(ctx)

	ticker := time.NewTicker(a.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.sync(ctx)
			}()
		}
	}
}

// sync 执行一轮刷新，返回是否真正执行
func (a *App) sync(ctx context.Context) bool {
	// 上一轮正在处理，跳过这一轮
	if !a.refreshLock.TryLock() {
		return false
	}
	defer a.refreshLock.Unlock()

	before := len(a.e.Users())

	if err := a.e.RefreshUsers(ctx); err != nil {
		a.l.Error("failed to refresh users", zap.Error(err))
	}
	// 重排时字段由重排流程维护
	if !a.e.Reordering() {
		if err := a.e.RefreshFields(ctx); err != nil {
			a.l.Error("failed to refresh fields", zap.Error(err))
		}
	}
	if err := a.ic.Refresh(ctx); err != nil {
		a.l.Warn("failed to refresh instance config", zap.Error(err))
	}

	if ctx.Err() != nil {
		return true
	}

	after := len(a.e.Users())
	fmt.Fprintf(a.out, "[%s] %d users (%+d), %d fields, %d selected\n",
		time.Now().Format(time.TimeOnly), after, after-before, len(a.e.Fields()), len(a.e.Selected()))
	if a.e.OutOfSync() {
		fmt.Fprintln(a.out, "WARNING: field order may not match the server")
	}
	return true
}
