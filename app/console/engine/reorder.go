package engine

import (
	"context"
	"fmt"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"instance-console/app/server/types"
	"slices"
	"time"
)

type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// State 是一次字段重排所处的阶段
type State string

const (
	StateIdle             State = "idle"
	StatePending          State = "pending"
	StateCommitted        State = "committed"
	StateAborted          State = "aborted"
	StateCompensating     State = "compensating"
	StateReverted         State = "reverted"
	StateReconciled       State = "reconciled"
	StateSnapshotRestored State = "snapshot_restored"
)

var reorderTransitions = map[State][]State{
	StateIdle:         {StatePending},
	StatePending:      {StateCommitted, StateAborted, StateCompensating},
	StateCompensating: {StateReverted, StateReconciled, StateSnapshotRestored},
}

// 保留的状态转换记录条数
const maxTransitions = 100

type Transition struct {
	Op          string
	From        State
	To          State
	FieldID     uint
	NeighbourID uint
	Err         string
	At          time.Time
}

type reorderOp struct {
	e           *Engine
	id          string
	state       State
	fieldID     uint
	neighbourID uint
}

func (e *Engine) newReorderOp(fieldID uint, neighbourID uint) *reorderOp {
	return &reorderOp{
		e:           e,
		id:          ulid.Make().String(),
		state:       StateIdle,
		fieldID:     fieldID,
		neighbourID: neighbourID,
	}
}

func (op *reorderOp) to(next State, cause error) {
	if !slices.Contains(reorderTransitions[op.state], next) {
		op.e.l.DPanic("invalid reorder transition",
			zap.String("op", op.id),
			zap.String("from", string(op.state)),
			zap.String("to", string(next)),
		)
	}

	t := Transition{
		Op:          op.id,
		From:        op.state,
		To:          next,
		FieldID:     op.fieldID,
		NeighbourID: op.neighbourID,
		At:          time.Now(),
	}
	if cause != nil {
		t.Err = cause.Error()
	}

	op.e.lock.Lock()
	op.e.transitions = append(op.e.transitions, t)
	if over := len(op.e.transitions) - maxTransitions; over > 0 {
		op.e.transitions = slices.Delete(op.e.transitions, 0, over)
	}
	op.e.lock.Unlock()

	op.e.l.Debug("reorder transition",
		zap.String("op", op.id),
		zap.String("from", string(op.state)),
		zap.String("to", string(next)),
		zap.Uint("field", op.fieldID),
		zap.Uint("neighbour", op.neighbourID),
		zap.Error(cause),
	)
	op.state = next
}

// Transitions 返回最近的重排状态转换，旧的在前
func (e *Engine) Transitions() []Transition {
	e.lock.Lock()
	defer e.lock.Unlock()
	return slices.Clone(e.transitions)
}

// Reordering 为真时有重排正在进行
func (e *Engine) Reordering() bool {
	if !e.reorderLock.TryLock() {
		return true
	}
	e.reorderLock.Unlock()
	return false
}

// MoveField 把 index 处的字段与相邻字段交换顺序。
// 先写移动的字段，成功后再写相邻字段；第二步失败时撤回第一步，
// 撤回失败则以服务端列表为准，再失败则恢复快照并标记为不同步。
// 目标位置越界时什么也不做。
func (e *Engine) MoveField(ctx context.Context, index int, direction Direction) error {
	if !e.reorderLock.TryLock() {
		return ErrReorderInProgress
	}
	defer e.reorderLock.Unlock()

	// 上次没能确认顺序，先重新同步
	if e.OutOfSync() {
		fields, err := e.b.ListUserFields(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfSync, err)
		}
		e.setFields(fields)
	}

	e.lock.Lock()
	newIndex := index + int(direction)
	if index < 0 || index >= len(e.fields) || newIndex < 0 || newIndex >= len(e.fields) {
		e.lock.Unlock()
		return nil
	}
	snapshot := slices.Clone(e.fields)
	e.lock.Unlock()

	moved, neighbour := snapshot[index], snapshot[newIndex]
	op := e.newReorderOp(moved.ID, neighbour.ID)
	op.to(StatePending, nil)

	// 第一步：移动的字段取得相邻字段的顺序
	movedInput := moved.Input(neighbour.DisplayOrder)
	if _, err := e.b.UpdateUserField(ctx, moved.ID, &movedInput); err != nil {
		op.to(StateAborted, err)
		return fmt.Errorf("%w: %w", ErrReorderFailed, err)
	}

	// 第二步：相邻字段取得移动字段原来的顺序
	neighbourInput := neighbour.Input(moved.DisplayOrder)
	if _, err := e.b.UpdateUserField(ctx, neighbour.ID, &neighbourInput); err != nil {
		op.to(StateCompensating, err)
		e.compensate(ctx, op, snapshot, moved)
		return fmt.Errorf("%w: %w", ErrReorderFailed, err)
	}

	next := slices.Clone(snapshot)
	moved.DisplayOrder, neighbour.DisplayOrder = neighbour.DisplayOrder, moved.DisplayOrder
	next[index], next[newIndex] = neighbour, moved

	e.lock.Lock()
	e.fields = next
	e.lock.Unlock()

	op.to(StateCommitted, nil)
	return nil
}

// compensate 撤回第一步已写入的顺序；调用方取消后撤回仍需完成
func (e *Engine) compensate(ctx context.Context, op *reorderOp, snapshot []types.UserField, moved types.UserField) {
	cctx := context.WithoutCancel(ctx)

	revert := moved.Input(moved.DisplayOrder)
	_, err := e.b.UpdateUserField(cctx, moved.ID, &revert)
	if err == nil {
		// 本地状态从未改动，与快照一致
		op.to(StateReverted, nil)
		return
	}
	e.l.Warn("failed to revert field order", zap.String("op", op.id), zap.Uint("field", moved.ID), zap.Error(err))

	fields, err := e.b.ListUserFields(cctx)
	if err == nil {
		e.setFields(fields)
		op.to(StateReconciled, nil)
		return
	}
	e.l.Warn("failed to refetch fields after reorder", zap.String("op", op.id), zap.Error(err))

	e.lock.Lock()
	e.fields = snapshot
	e.outOfSync = true
	e.lock.Unlock()

	op.to(StateSnapshotRestored, err)
}
