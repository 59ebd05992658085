package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/console/api"
	"instance-console/app/console/config"
	"instance-console/app/console/engine"
	"instance-console/app/console/instancecfg"
	"instance-console/app/server/types"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeInstance 是内存中的管理端接口
type fakeInstance struct {
	mu        sync.Mutex
	fields    []types.UserField
	userTypes []types.UserType
	users     []types.AdminUserSummary
	settings  types.Settings
	nextID    uint
	requests  int
	// 批量迁移时失败的用户
	failUsers map[uint]bool
}

func uid(id uint) *uint { return &id }

func newInstance() *fakeInstance {
	return &fakeInstance{
		fields: []types.UserField{
			{ID: 1, FieldName: "A", FieldType: "text", DisplayOrder: 0},
			{ID: 2, FieldName: "B", FieldType: "email", DisplayOrder: 1},
			{ID: 3, FieldName: "C", FieldType: "text", DisplayOrder: 2, UserTypeID: uid(2)},
		},
		userTypes: []types.UserType{
			{ID: 1, Name: "Member"},
			{ID: 2, Name: "Mentor"},
		},
		users: []types.AdminUserSummary{
			{ID: 1, UserTypeID: uid(1), CreatedAt: time.Now()},
			{ID: 2, CreatedAt: time.Now()},
			{ID: 3, UserTypeID: uid(1), CreatedAt: time.Now()},
		},
		settings:  types.Settings{"instance_name": "Test"},
		nextID:    10,
		failUsers: map[uint]bool{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	return uint(id)
}

func (f *fakeInstance) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin/user-fields", func(w http.ResponseWriter, r *http.Request) {
		res := slices.Clone(f.fields)
		slices.SortStableFunc(res, func(a, b types.UserField) int { return a.DisplayOrder - b.DisplayOrder })
		writeJSON(w, http.StatusOK, res)
	})
	mux.HandleFunc("POST /admin/user-fields", func(w http.ResponseWriter, r *http.Request) {
		var req types.UserFieldInput
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.nextID++
		field := types.UserField{
			ID:           f.nextID,
			FieldName:    req.FieldName,
			FieldType:    req.FieldType,
			Required:     req.Required,
			Options:      req.Options,
			UserTypeID:   req.UserTypeID,
			DisplayOrder: len(f.fields),
		}
		f.fields = append(f.fields, field)
		writeJSON(w, http.StatusCreated, field)
	})
	mux.HandleFunc("PUT /admin/user-fields/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req types.UserFieldInput
		_ = json.NewDecoder(r.Body).Decode(&req)
		for i := range f.fields {
			if f.fields[i].ID == pathID(r) {
				f.fields[i].DisplayOrder = *req.DisplayOrder
				writeJSON(w, http.StatusOK, f.fields[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, &types.ErrorMessage{Detail: "Not Found"})
	})
	mux.HandleFunc("DELETE /admin/user-fields/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.fields = slices.DeleteFunc(f.fields, func(field types.UserField) bool { return field.ID == pathID(r) })
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /admin/user-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.userTypes)
	})
	mux.HandleFunc("DELETE /admin/user-types/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		f.userTypes = slices.DeleteFunc(f.userTypes, func(t types.UserType) bool { return t.ID == id })
		f.fields = slices.DeleteFunc(f.fields, func(field types.UserField) bool {
			return field.UserTypeID != nil && *field.UserTypeID == id
		})
		for i := range f.users {
			if f.users[i].UserTypeID != nil && *f.users[i].UserTypeID == id {
				f.users[i].UserTypeID = nil
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &types.ListResponse[types.AdminUserSummary]{Limit: -1, PageMax: 1, List: f.users})
	})
	mux.HandleFunc("PUT /admin/users/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		var req types.UserApproveInput
		_ = json.NewDecoder(r.Body).Decode(&req)
		for i := range f.users {
			if f.users[i].ID == pathID(r) {
				f.users[i].Approved = *req.Approved
				writeJSON(w, http.StatusOK, f.users[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, &types.ErrorMessage{Detail: "Not Found"})
	})
	mux.HandleFunc("POST /admin/users/{id}/migrate-type", func(w http.ResponseWriter, r *http.Request) {
		var req types.MigrateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, f.migrate(pathID(r), req.TargetUserTypeID))
	})
	mux.HandleFunc("POST /admin/users/migrate-type/batch", func(w http.ResponseWriter, r *http.Request) {
		var req types.BatchMigrateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		res := types.BatchMigrateResponse{Success: true}
		for _, id := range req.UserIDs {
			if f.failUsers[id] {
				res.Failed++
				res.Results = append(res.Results, types.MigrationResult{UserID: id, Error: "missing required fields"})
				continue
			}
			res.Migrated++
			res.Results = append(res.Results, f.migrate(id, req.TargetUserTypeID))
		}
		writeJSON(w, http.StatusOK, &res)
	})

	mux.HandleFunc("GET /admin/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.settings)
	})
	mux.HandleFunc("PUT /admin/settings", func(w http.ResponseWriter, r *http.Request) {
		var req types.Settings
		_ = json.NewDecoder(r.Body).Decode(&req)
		for k, v := range req {
			f.settings[k] = v
		}
		writeJSON(w, http.StatusOK, f.settings)
	})
	mux.HandleFunc("GET /settings/public", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &types.PublicSettings{InstanceName: f.settings["instance_name"]})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeInstance) migrate(id uint, target uint) types.MigrationResult {
	for i := range f.users {
		if f.users[i].ID == id {
			prev := f.users[i].UserTypeID
			f.users[i].UserTypeID = uid(target)
			return types.MigrationResult{UserID: id, Success: true, PreviousUserTypeID: prev, TargetUserTypeID: uid(target)}
		}
	}
	return types.MigrationResult{UserID: id, Error: "user not found"}
}

func (f *fakeInstance) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func newTestApp(t *testing.T, f *fakeInstance) (*App, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	l := zap.NewNop()
	c := api.New(srv.URL, l)
	ctx := context.Background()

	instancecfg.Close()
	store := instancecfg.Init(ctx, c, t.TempDir(), l)
	t.Cleanup(instancecfg.Close)

	e := engine.New(c, l)
	if err := e.Load(ctx); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	cfg := &config.Config{RefreshInterval: 10 * time.Millisecond}
	return NewApp(cfg, l, c, e, store, out), out
}

func fieldNames(fields []types.UserField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = fmt.Sprintf("%s%d", f.FieldName, f.DisplayOrder)
	}
	return names
}
