package handlers

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"go.uber.org/zap"
	"instance-console/app/console/api"
	"instance-console/app/console/config"
	"instance-console/app/console/engine"
	"instance-console/app/console/instancecfg"
	"instance-console/app/console/view"
	"io"
	"sort"
	"sync"
)

type App struct {
	cfg *config.Config
	l   *zap.Logger
	c   *api.Client
	e   *engine.Engine
	ic  *instancecfg.Store
	out io.Writer

	refreshLock sync.Mutex // 上一轮刷新未结束时跳过
}

func NewApp(cfg *config.Config, l *zap.Logger, c *api.Client, e *engine.Engine, ic *instancecfg.Store, out io.Writer) *App {
	return &App{
		cfg: cfg,
		l:   l,
		c:   c,
		e:   e,
		ic:  ic,
		out: out,
	}
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"status":        {usage: "status", run: a.status},
		"refresh":       {usage: "refresh", run: a.refresh},
		"fields":        {usage: "fields [-preview] [-type ID]", run: a.fields},
		"move-field":    {usage: "move-field INDEX up|down", run: a.moveField},
		"field-add":     {usage: "field-add -name NAME -type TYPE [-required] [-type-id ID] [-placeholder TEXT] [-options a,b] [-no-encrypt] [-chat]", run: a.fieldAdd},
		"field-delete":  {usage: "field-delete ID", run: a.fieldDelete},
		"types":         {usage: "types", run: a.userTypes},
		"type-add":      {usage: "type-add -name NAME [-description TEXT] [-icon ICON]", run: a.typeAdd},
		"type-delete":   {usage: "type-delete ID", run: a.typeDelete},
		"users":         {usage: "users [-filter all|untyped|type:ID]", run: a.users},
		"select":        {usage: "select [-visible] [ID,ID...]", run: a.selectUsers},
		"target":        {usage: "target ID (0 clears)", run: a.target},
		"approve":       {usage: "approve [-revoke] ID", run: a.approve},
		"migrate":       {usage: "migrate [-target ID] [-allow-incomplete] USER_ID", run: a.migrate},
		"migrate-batch": {usage: "migrate-batch [-target ID] [-users ID,ID...] [-allow-incomplete]", run: a.migrateBatch},
		"results":       {usage: "results", run: a.results},
		"settings":      {usage: "settings [KEY=VALUE ...]", run: a.settings},
		"watch":         {usage: "watch", run: a.watch},
	}
}

// Run 执行一条命令，命令的错误原样返回
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.help()
		return nil
	}

	cmd, ok := a.commands()[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err := cmd.run(ctx, args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		return err
	}
	return nil
}

func (a *App) help() {
	cmds := a.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "commands:")
	for _, name := range names {
		fmt.Fprintln(a.out, "  "+cmds[name].usage)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) banner() {
	view.Banner(a.out, a.ic.Get(), a.e.OutOfSync())
}
