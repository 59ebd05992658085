// Package engine 保存管理端在本地持有的字段、类型与用户列表，
// 并负责把操作按顺序提交到服务端，在部分失败时补偿或重新同步。
package engine

import (
	"context"
	"errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"instance-console/app/server/types"
	"slices"
	"sync"
)

var (
	ErrReorderInProgress   = errors.New("another reorder is in progress")
	ErrReorderFailed       = errors.New("failed to reorder fields")
	ErrOutOfSync           = errors.New("field order may differ from the server and refreshing failed")
	ErrTargetRequired      = errors.New("a target user type is required")
	ErrUnknownUserType     = errors.New("unknown user type")
	ErrEmptySelection      = errors.New("no users selected")
	ErrMigrationInProgress = errors.New("this user is already being migrated")
	ErrBatchInProgress     = errors.New("another batch migration is in progress")
	ErrMigrationFailed     = errors.New("migration failed")
)

// Backend 是引擎依赖的服务端接口，由 api.Client 实现
type Backend interface {
	ListUserFields(ctx context.Context) ([]types.UserField, error)
	UpdateUserField(ctx context.Context, id uint, req *types.UserFieldInput) (*types.UserField, error)
	ListUserTypes(ctx context.Context) ([]types.UserType, error)
	ListUsers(ctx context.Context) ([]types.AdminUserSummary, error)
	MigrateUser(ctx context.Context, id uint, req *types.MigrateRequest) (*types.MigrationResult, error)
	MigrateUsers(ctx context.Context, req *types.BatchMigrateRequest) (*types.BatchMigrateResponse, error)
}

type Engine struct {
	b Backend
	l *zap.Logger

	// lock 保护下面的全部状态
	lock            sync.Mutex
	fields          []types.UserField
	userTypes       []types.UserType
	users           []types.AdminUserSummary
	target          *uint
	allowIncomplete bool
	outOfSync       bool
	migrating       map[uint]bool
	selection       *Selection
	results         *ResultLog
	transitions     []Transition

	// 忙碌标记，只尝试加锁，不等待
	reorderLock sync.Mutex
	batchLock   sync.Mutex
}

func New(b Backend, l *zap.Logger) *Engine {
	return &Engine{
		b:         b,
		l:         l,
		migrating: make(map[uint]bool),
		selection: NewSelection(),
		results:   &ResultLog{},
	}
}

// Load 并发加载字段、类型与用户，各自成功即各自生效
func (e *Engine) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return e.RefreshFields(ctx) })
	g.Go(func() error { return e.RefreshUserTypes(ctx) })
	g.Go(func() error { return e.RefreshUsers(ctx) })
	return g.Wait()
}

// canceled 吞掉取消错误：状态保持不变
func (e *Engine) canceled(what string, err error) error {
	if errors.Is(err, context.Canceled) {
		e.l.Debug("load canceled", zap.String("what", what))
		return nil
	}
	return err
}

func (e *Engine) RefreshFields(ctx context.Context) error {
	fields, err := e.b.ListUserFields(ctx)
	if err != nil {
		return e.canceled("fields", err)
	}
	e.setFields(fields)
	return nil
}

// setFields 以服务端列表为准，同时清除不同步标记
func (e *Engine) setFields(fields []types.UserField) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.fields = slices.Clone(fields)
	if e.outOfSync {
		e.l.Info("field order resynchronized")
	}
	e.outOfSync = false
}

func (e *Engine) RefreshUserTypes(ctx context.Context) error {
	userTypes, err := e.b.ListUserTypes(ctx)
	if err != nil {
		return e.canceled("user types", err)
	}

	e.lock.Lock()
	defer e.lock.Unlock()
	e.userTypes = slices.Clone(userTypes)
	return nil
}

// RefreshUsers 重新拉取用户列表，并剔除已不存在的选中项
func (e *Engine) RefreshUsers(ctx context.Context) error {
	users, err := e.b.ListUsers(ctx)
	if err != nil {
		return e.canceled("users", err)
	}

	e.lock.Lock()
	defer e.lock.Unlock()
	e.users = slices.Clone(users)
	e.selection.Prune(e.users)
	return nil
}

func (e *Engine) Fields() []types.UserField {
	e.lock.Lock()
	defer e.lock.Unlock()
	return slices.Clone(e.fields)
}

func (e *Engine) UserTypes() []types.UserType {
	e.lock.Lock()
	defer e.lock.Unlock()
	return slices.Clone(e.userTypes)
}

func (e *Engine) Users() []types.AdminUserSummary {
	e.lock.Lock()
	defer e.lock.Unlock()
	return slices.Clone(e.users)
}

// OutOfSync 为真时本地字段顺序可能与服务端不一致
func (e *Engine) OutOfSync() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.outOfSync
}

// SetTarget 设置迁移目标， 0 表示清除
func (e *Engine) SetTarget(id uint) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if id == 0 {
		e.target = nil
		return nil
	}
	if e.userTypes != nil && !slices.ContainsFunc(e.userTypes, func(t types.UserType) bool { return t.ID == id }) {
		return ErrUnknownUserType
	}
	e.target = &id
	return nil
}

func (e *Engine) Target() (uint, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.target == nil {
		return 0, false
	}
	return *e.target, true
}

func (e *Engine) SetAllowIncomplete(allow bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.allowIncomplete = allow
}

// Results 返回最近的迁移结果，新的在前
func (e *Engine) Results() []types.MigrationResult {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.results.Entries()
}

func (e *Engine) SetFilter(f Filter) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.selection.SetFilter(f)
}

func (e *Engine) Filter() Filter {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.selection.Filter()
}

// VisibleUsers 返回符合当前筛选条件的用户
func (e *Engine) VisibleUsers() []types.AdminUserSummary {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.selection.Visible(e.users)
}

// ToggleUser 切换单个用户的选中状态，用户必须在列表中
func (e *Engine) ToggleUser(id uint) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	if !slices.ContainsFunc(e.users, func(u types.AdminUserSummary) bool { return u.ID == id }) {
		return false
	}
	e.selection.Toggle(id)
	return true
}

func (e *Engine) ToggleVisible() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.selection.ToggleVisible(e.users)
}

func (e *Engine) Selected() []uint {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.selection.IDs()
}

func (e *Engine) IsSelected(id uint) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.selection.Has(id)
}
