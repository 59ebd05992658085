// Package instancecfg 保存实例的公开配置（名称、主题色、图标）。
//
// 整个进程共用一份：启动时 Init ，退出时 Close 。 Init 先读取本地缓存，
// 再向服务端刷新，刷新失败时继续使用缓存。
package instancecfg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/server/types"
	"os"
	"path/filepath"
	"sync"
)

const cacheFile = "instance_config.json"

var ErrNotInitialized = errors.New("instance config is not initialized")

// Source 提供服务端的公开配置，由 api.Client 实现
type Source interface {
	PublicSettings(ctx context.Context) (*types.PublicSettings, error)
}

type Store struct {
	src  Source
	l    *zap.Logger
	path string

	lock     sync.RWMutex
	settings types.PublicSettings
	subs     map[int]func(types.PublicSettings)
	nextSub  int
}

var (
	defaultLock  sync.Mutex
	defaultStore *Store
)

// Init 初始化全局配置，重复调用返回同一个实例
func Init(ctx context.Context, src Source, cacheDir string, l *zap.Logger) *Store {
	defaultLock.Lock()
	defer defaultLock.Unlock()

	if defaultStore != nil {
		return defaultStore
	}

	s := &Store{
		src:  src,
		l:    l,
		path: filepath.Join(cacheDir, cacheFile),
		subs: make(map[int]func(types.PublicSettings)),
	}

	if err := s.loadCache(); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.Warn("failed to load instance config cache", zap.String("path", s.path), zap.Error(err))
	}
	if err := s.Refresh(ctx); err != nil {
		l.Warn("failed to refresh instance config, using cache", zap.Error(err))
	}

	defaultStore = s
	return s
}

func Default() (*Store, error) {
	defaultLock.Lock()
	defer defaultLock.Unlock()

	if defaultStore == nil {
		return nil, ErrNotInitialized
	}
	return defaultStore, nil
}

// Close 释放全局配置，之后可以重新 Init
func Close() {
	defaultLock.Lock()
	defer defaultLock.Unlock()

	if defaultStore == nil {
		return
	}

	defaultStore.lock.Lock()
	clear(defaultStore.subs)
	defaultStore.lock.Unlock()

	defaultStore = nil
}

func (s *Store) loadCache() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var settings types.PublicSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return fmt.Errorf("decode cache: %w", err)
	}

	s.lock.Lock()
	s.settings = settings
	s.lock.Unlock()

	return nil
}

func (s *Store) saveCache(settings types.PublicSettings) error {
	raw, err := json.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// 先写临时文件再替换，避免留下写了一半的缓存
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}

	return nil
}

// Refresh 从服务端获取最新配置
func (s *Store) Refresh(ctx context.Context) error {
	settings, err := s.src.PublicSettings(ctx)
	if err != nil {
		return fmt.Errorf("get public settings: %w", err)
	}

	s.Set(*settings)
	return nil
}

func (s *Store) Get() types.PublicSettings {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.settings
}

// Set 更新配置、写入缓存并通知订阅者；缓存写入失败只记录日志
func (s *Store) Set(settings types.PublicSettings) {
	s.lock.Lock()
	changed := s.settings != settings
	s.settings = settings
	subs := make([]func(types.PublicSettings), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.lock.Unlock()

	if err := s.saveCache(settings); err != nil {
		s.l.Warn("failed to save instance config cache", zap.String("path", s.path), zap.Error(err))
	}

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(settings)
	}
}

// Subscribe 在配置变化时调用 fn ，返回取消订阅的函数
func (s *Store) Subscribe(fn func(types.PublicSettings)) func() {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.subs, id)
	}
}
