package main

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/console/api"
	"instance-console/app/console/engine"
	"instance-console/app/console/handlers"
	"instance-console/app/console/inits"
	"instance-console/app/console/instancecfg"
	"instance-console/app/console/view"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()

	l.Debug("logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 登录
	client := api.New(cfg.ServerEndpoint, l)
	if cfg.AdminToken != "" {
		client.SetToken(cfg.AdminToken)
	} else if err := client.Login(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		l.Fatal("failed to login", zap.String("server", cfg.ServerEndpoint), zap.Error(err))
	}
	if !client.IsAdminAuthenticated() {
		l.Fatal("token does not grant admin access or has expired")
	}

	// 实例配置
	store := instancecfg.Init(ctx, client, cfg.CacheDir, l)
	defer instancecfg.Close()

	// 加载数据，部分失败时仍然可以继续操作
	e := engine.New(client, l)
	e.SetAllowIncomplete(cfg.AllowIncomplete)
	if err := e.Load(ctx); err != nil {
		l.Warn("failed to load instance data", zap.Error(err))
	}

	app := handlers.NewApp(cfg, l, client, e, store, os.Stdout)

	// 没有参数时进入交互模式
	args := os.Args[1:]
	if len(args) == 0 {
		if err := app.Shell(ctx, os.Stdin); err != nil {
			l.Error("failed to read commands", zap.Error(err))
		}
		return
	}

	if err := app.Run(ctx, args); err != nil {
		view.Error(os.Stderr, err)
		stop()
		l.Sync()
		os.Exit(1)
	}
}
