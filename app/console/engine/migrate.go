package engine

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/server/types"
)

type BatchSummary struct {
	Migrated int
	Failed   int
	Results  []types.MigrationResult
}

// MigrateUser 把一个用户迁移到当前目标类型。
// 不同用户可以同时迁移，同一用户的请求未结束前不会重复发送。
func (e *Engine) MigrateUser(ctx context.Context, userID uint) (*types.MigrationResult, error) {
	e.lock.Lock()
	if e.target == nil {
		e.lock.Unlock()
		return nil, ErrTargetRequired
	}
	if e.migrating[userID] {
		e.lock.Unlock()
		return nil, ErrMigrationInProgress
	}
	req := &types.MigrateRequest{
		TargetUserTypeID: *e.target,
		AllowIncomplete:  e.allowIncomplete,
	}
	e.migrating[userID] = true
	e.lock.Unlock()

	defer func() {
		e.lock.Lock()
		delete(e.migrating, userID)
		e.lock.Unlock()
	}()

	res, err := e.b.MigrateUser(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "server reported failure"
		}
		return nil, fmt.Errorf("%w: %s", ErrMigrationFailed, msg)
	}

	e.lock.Lock()
	e.results.Record(*res)
	e.lock.Unlock()

	// 以服务端的 user_type_id 为准
	if err := e.RefreshUsers(ctx); err != nil {
		e.l.Warn("failed to refresh users after migration", zap.Uint("user", userID), zap.Error(err))
	}

	return res, nil
}

// Migrating 为真时该用户的迁移请求尚未结束
func (e *Engine) Migrating(userID uint) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.migrating[userID]
}

// MigrateSelected 把选中的用户一次性迁移到当前目标类型，
// 之后只保留迁移失败的用户为选中状态，方便重试。
func (e *Engine) MigrateSelected(ctx context.Context) (*BatchSummary, error) {
	e.lock.Lock()
	ids := e.selection.IDs()
	target := e.target
	allowIncomplete := e.allowIncomplete
	e.lock.Unlock()

	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	if target == nil {
		return nil, ErrTargetRequired
	}

	if !e.batchLock.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer e.batchLock.Unlock()

	res, err := e.b.MigrateUsers(ctx, &types.BatchMigrateRequest{
		UserIDs:          ids,
		TargetUserTypeID: *target,
		AllowIncomplete:  allowIncomplete,
	})
	if err != nil {
		return nil, err
	}

	failed := []uint{}
	for _, r := range res.Results {
		if !r.Success {
			failed = append(failed, r.UserID)
		}
	}

	e.lock.Lock()
	e.results.Record(res.Results...)
	e.selection.Replace(failed)
	e.lock.Unlock()

	if err := e.RefreshUsers(ctx); err != nil {
		e.l.Warn("failed to refresh users after batch migration", zap.Error(err))
	}

	e.l.Info("batch migration finished",
		zap.Uint("target", *target),
		zap.Int("migrated", res.Migrated),
		zap.Int("failed", res.Failed),
	)

	return &BatchSummary{
		Migrated: res.Migrated,
		Failed:   res.Failed,
		Results:  res.Results,
	}, nil
}

// BatchMigrating 为真时有批量迁移正在进行
func (e *Engine) BatchMigrating() bool {
	if !e.batchLock.TryLock() {
		return true
	}
	e.batchLock.Unlock()
	return false
}
