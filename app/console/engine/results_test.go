package engine

import (
	"instance-console/app/server/types"
	"testing"
)

func TestResultLog(t *testing.T) {
	var r ResultLog

	r.Record(types.MigrationResult{UserID: 1, Success: false})
	r.Record(types.MigrationResult{UserID: 2, Success: true})
	r.Record(types.MigrationResult{UserID: 1, Success: true})

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0].UserID != 1 || !entries[0].Success || entries[1].UserID != 2 {
		t.Errorf("unexpected entries %+v", entries)
	}

	// 批量结果整体放在最前面，并且最多保留 20 条
	batch := make([]types.MigrationResult, 0, 25)
	for id := uint(100); id < 125; id++ {
		batch = append(batch, types.MigrationResult{UserID: id})
	}
	r.Record(batch...)

	entries = r.Entries()
	if len(entries) != maxResults {
		t.Fatalf("expected %d entries, got %d", maxResults, len(entries))
	}
	if entries[0].UserID != 100 || entries[maxResults-1].UserID != 119 {
		t.Errorf("unexpected window %d..%d", entries[0].UserID, entries[maxResults-1].UserID)
	}
}
