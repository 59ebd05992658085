package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/console/api"
	"instance-console/app/server/types"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
)

// fakeServer 是内存中的管理端接口
type fakeServer struct {
	mu        sync.Mutex
	fields    []types.UserField
	userTypes []types.UserType
	users     []types.AdminUserSummary
	calls     []string
	puts      int

	// 第 n 次（从 1 开始） PUT 是否失败
	failPut    func(n int) bool
	failFields bool
	failUsers  bool

	// 单个与批量迁移的结果，为 nil 时直接成功
	migrate func(id uint, req types.MigrateRequest) (int, any)
	batch   func(req types.BatchMigrateRequest) (int, any)

	// holdPath 的请求会等待 hold 关闭
	holdPath string
	entered  chan struct{}
	hold     chan struct{}
}

func newFake() *fakeServer {
	return &fakeServer{
		entered: make(chan struct{}, 8),
		hold:    make(chan struct{}),
	}
}

func fieldsABC() []types.UserField {
	return []types.UserField{
		{ID: 1, FieldName: "A", FieldType: "text", DisplayOrder: 0, EncryptionEnabled: true},
		{ID: 2, FieldName: "B", FieldType: "text", DisplayOrder: 1, EncryptionEnabled: true},
		{ID: 3, FieldName: "C", FieldType: "text", DisplayOrder: 2, EncryptionEnabled: true},
	}
}

func uid(id uint) *uint { return &id }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeServer) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeServer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// sortedFields 按服务端的排序规则返回字段
func (f *fakeServer) sortedFields() []types.UserField {
	res := slices.Clone(f.fields)
	slices.SortStableFunc(res, func(a, b types.UserField) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return int(a.ID) - int(b.ID)
	})
	return res
}

func (f *fakeServer) setHold(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdPath = path
}

// release 放行等待中的请求，之后的请求不再等待
func (f *fakeServer) release() {
	f.setHold("")
	close(f.hold)
}

func (f *fakeServer) maybeHold(r *http.Request) {
	f.mu.Lock()
	held := f.holdPath != "" && r.URL.Path == f.holdPath
	f.mu.Unlock()

	if held {
		f.entered <- struct{}{}
		<-f.hold
	}
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin/user-fields", func(w http.ResponseWriter, r *http.Request) {
		f.record("GET fields")
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failFields {
			writeJSON(w, http.StatusInternalServerError, &types.ErrorMessage{Detail: "fields unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, f.sortedFields())
	})

	mux.HandleFunc("PUT /admin/user-fields/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.maybeHold(r)

		var req types.UserFieldInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DisplayOrder == nil {
			writeJSON(w, http.StatusBadRequest, &types.ErrorMessage{Detail: "bad request"})
			return
		}
		f.record(fmt.Sprintf("PUT %s order=%d", r.PathValue("id"), *req.DisplayOrder))

		f.mu.Lock()
		defer f.mu.Unlock()
		f.puts++
		if f.failPut != nil && f.failPut(f.puts) {
			writeJSON(w, http.StatusInternalServerError, &types.ErrorMessage{Detail: "write failed"})
			return
		}
		id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
		for i := range f.fields {
			if f.fields[i].ID == uint(id) {
				f.fields[i].DisplayOrder = *req.DisplayOrder
				writeJSON(w, http.StatusOK, f.fields[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, &types.ErrorMessage{Detail: "Not Found"})
	})

	mux.HandleFunc("GET /admin/user-types", func(w http.ResponseWriter, r *http.Request) {
		f.record("GET types")
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.userTypes)
	})

	mux.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.record("GET users")
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failUsers {
			writeJSON(w, http.StatusInternalServerError, &types.ErrorMessage{Detail: "users unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, &types.ListResponse[types.AdminUserSummary]{Limit: -1, PageMax: 1, List: f.users})
	})

	mux.HandleFunc("POST /admin/users/{id}/migrate-type", func(w http.ResponseWriter, r *http.Request) {
		f.maybeHold(r)
		f.record("POST migrate " + r.PathValue("id"))

		var req types.MigrateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)

		if f.migrate != nil {
			if status, body := f.migrate(uint(id), req); status != http.StatusOK {
				writeJSON(w, status, body)
				return
			}
		}
		writeJSON(w, http.StatusOK, f.apply(uint(id), req.TargetUserTypeID))
	})

	mux.HandleFunc("POST /admin/users/migrate-type/batch", func(w http.ResponseWriter, r *http.Request) {
		f.maybeHold(r)
		f.record("POST batch")

		var req types.BatchMigrateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		if f.batch != nil {
			status, body := f.batch(req)
			writeJSON(w, status, body)
			return
		}
		res := &types.BatchMigrateResponse{Success: true}
		for _, id := range req.UserIDs {
			res.Results = append(res.Results, f.apply(id, req.TargetUserTypeID))
			res.Migrated++
		}
		writeJSON(w, http.StatusOK, res)
	})

	return mux
}

// apply 在服务端修改用户类型
func (f *fakeServer) apply(id uint, target uint) types.MigrationResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := types.MigrationResult{UserID: id, Success: true, TargetUserTypeID: uid(target)}
	for i := range f.users {
		if f.users[i].ID == id {
			res.PreviousUserTypeID = f.users[i].UserTypeID
			f.users[i].UserTypeID = uid(target)
		}
	}
	return res
}

// start 启动服务并返回已加载数据的引擎
func (f *fakeServer) start(t *testing.T) *Engine {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c := api.New(srv.URL, zap.NewNop())
	c.SetToken("test")

	e := New(c, zap.NewNop())
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()

	return e
}

func fieldNames(fields []types.UserField) []string {
	res := make([]string, 0, len(fields))
	for _, field := range fields {
		res = append(res, fmt.Sprintf("%s%d", field.FieldName, field.DisplayOrder))
	}
	return res
}
