package engine

import (
	"fmt"
	"instance-console/app/server/types"
	"slices"
	"strconv"
	"strings"
)

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterUntyped
	FilterType
)

// Filter 决定用户列表中哪些用户可见
type Filter struct {
	Kind   FilterKind
	TypeID uint
}

// ParseFilter 接受 all 、 untyped 、 type:<id> 或直接的类型 ID
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all":
		return Filter{Kind: FilterAll}, nil
	case "untyped":
		return Filter{Kind: FilterUntyped}, nil
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(s, "type:"), 10, 64)
	if err != nil || id == 0 {
		return Filter{}, fmt.Errorf("invalid filter %q", s)
	}
	return Filter{Kind: FilterType, TypeID: uint(id)}, nil
}

func (f Filter) String() string {
	switch f.Kind {
	case FilterUntyped:
		return "untyped"
	case FilterType:
		return fmt.Sprintf("type:%d", f.TypeID)
	default:
		return "all"
	}
}

func (f Filter) Match(u types.AdminUserSummary) bool {
	switch f.Kind {
	case FilterUntyped:
		return u.UserTypeID == nil
	case FilterType:
		return u.UserTypeID != nil && *u.UserTypeID == f.TypeID
	default:
		return true
	}
}

// Selection 是选中的用户集合，不是并发安全的
type Selection struct {
	filter Filter
	ids    map[uint]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[uint]struct{})}
}

func (s *Selection) Filter() Filter {
	return s.filter
}

// SetFilter 只改变可见范围，不影响已选中的用户
func (s *Selection) SetFilter(f Filter) {
	s.filter = f
}

func (s *Selection) Visible(users []types.AdminUserSummary) []types.AdminUserSummary {
	res := []types.AdminUserSummary{}
	for _, u := range users {
		if s.filter.Match(u) {
			res = append(res, u)
		}
	}
	return res
}

func (s *Selection) Has(id uint) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Toggle(id uint) {
	if s.Has(id) {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// ToggleVisible 可见用户全部已选中时取消选中它们，否则选中它们；
// 不可见的用户保持原状
func (s *Selection) ToggleVisible(users []types.AdminUserSummary) {
	visible := s.Visible(users)

	allSelected := true
	for _, u := range visible {
		if !s.Has(u.ID) {
			allSelected = false
			break
		}
	}

	for _, u := range visible {
		if allSelected {
			delete(s.ids, u.ID)
		} else {
			s.ids[u.ID] = struct{}{}
		}
	}
}

// Prune 去掉已不在用户列表中的 ID
func (s *Selection) Prune(users []types.AdminUserSummary) {
	present := make(map[uint]bool, len(users))
	for _, u := range users {
		present[u.ID] = true
	}
	for id := range s.ids {
		if !present[id] {
			delete(s.ids, id)
		}
	}
}

func (s *Selection) Replace(ids []uint) {
	s.ids = make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// IDs 按从小到大的顺序返回
func (s *Selection) IDs() []uint {
	res := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		res = append(res, id)
	}
	slices.Sort(res)
	return res
}

func (s *Selection) Len() int {
	return len(s.ids)
}
