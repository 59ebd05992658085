package engine

import (
	"instance-console/app/server/types"
	"slices"
)

// 保留的迁移结果条数
const maxResults = 20

// ResultLog 保存最近的迁移结果，每个用户只保留最新一条
type ResultLog struct {
	entries []types.MigrationResult
}

// Record 把一组结果整体放到最前面
func (r *ResultLog) Record(results ...types.MigrationResult) {
	seen := make(map[uint]bool, len(results))
	next := make([]types.MigrationResult, 0, len(results)+len(r.entries))

	for _, res := range results {
		if seen[res.UserID] {
			continue
		}
		seen[res.UserID] = true
		next = append(next, res)
	}
	for _, res := range r.entries {
		if !seen[res.UserID] {
			next = append(next, res)
		}
	}

	if len(next) > maxResults {
		next = next[:maxResults]
	}
	r.entries = next
}

func (r *ResultLog) Entries() []types.MigrationResult {
	return slices.Clone(r.entries)
}
