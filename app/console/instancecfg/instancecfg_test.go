package instancecfg

import (
	"context"
	"encoding/json"
	"errors"
	"go.uber.org/zap"
	"instance-console/app/server/types"
	"os"
	"path/filepath"
	"testing"
)

type fakeSource struct {
	settings *types.PublicSettings
	err      error
}

func (f *fakeSource) PublicSettings(ctx context.Context) (*types.PublicSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := *f.settings
	return &s, nil
}

func writeCache(t *testing.T, dir string, settings types.PublicSettings) {
	t.Helper()

	raw, err := json.Marshal(&settings)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFile), raw, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultBeforeInit(t *testing.T) {
	Close()
	if _, err := Default(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitUsesCacheWhenOffline(t *testing.T) {
	dir := t.TempDir()
	cached := types.PublicSettings{InstanceName: "Cached", PrimaryColor: "#000000"}
	writeCache(t, dir, cached)

	s := Init(context.Background(), &fakeSource{err: errors.New("offline")}, dir, zap.NewNop())
	defer Close()

	if got := s.Get(); got != cached {
		t.Errorf("Get() = %+v, want %+v", got, cached)
	}

	d, err := Default()
	if err != nil || d != s {
		t.Errorf("Default() = %v, %v", d, err)
	}
	if again := Init(context.Background(), &fakeSource{err: errors.New("offline")}, dir, zap.NewNop()); again != s {
		t.Error("Init should return the existing store")
	}
}

func TestInitRefreshesAndPersists(t *testing.T) {
	dir := t.TempDir()
	writeCache(t, dir, types.PublicSettings{InstanceName: "Old"})

	fresh := types.PublicSettings{InstanceName: "Fresh", PrimaryColor: "#ff0000", Icon: "icon.png"}
	s := Init(context.Background(), &fakeSource{settings: &fresh}, dir, zap.NewNop())
	defer Close()

	if got := s.Get(); got != fresh {
		t.Errorf("Get() = %+v, want %+v", got, fresh)
	}

	raw, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	var cached types.PublicSettings
	if err := json.Unmarshal(raw, &cached); err != nil || cached != fresh {
		t.Errorf("cache = %+v, %v", cached, err)
	}
}

func TestSubscribe(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{settings: &types.PublicSettings{InstanceName: "A"}}
	s := Init(context.Background(), src, dir, zap.NewNop())
	defer Close()

	var got []string
	unsubscribe := s.Subscribe(func(settings types.PublicSettings) {
		got = append(got, settings.InstanceName)
	})

	s.Set(types.PublicSettings{InstanceName: "B"})
	s.Set(types.PublicSettings{InstanceName: "B"}) // 没有变化，不通知

	src.settings = &types.PublicSettings{InstanceName: "C"}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	unsubscribe()
	s.Set(types.PublicSettings{InstanceName: "D"})

	if len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Errorf("notifications = %v, want [B C]", got)
	}
}
