package handlers

import (
	"context"
	"flag"
	"fmt"
	"instance-console/app/console/view"
	"instance-console/app/server/types"
	"instance-console/app/server/utils"
)

type migrateFlags struct {
	fs              *flag.FlagSet
	target          *uint
	allowIncomplete *bool
}

func (a *App) migrateFlags(name string) *migrateFlags {
	fs := a.flags(name)
	return &migrateFlags{
		fs:              fs,
		target:          fs.Uint("target", 0, "target user type, keeps the current target when empty"),
		allowIncomplete: fs.Bool("allow-incomplete", false, "migrate even if required fields of the target type are missing"),
	}
}

// apply 把命令行上显式给出的选项写入引擎
func (m *migrateFlags) apply(a *App) error {
	set := map[string]bool{}
	m.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["target"] {
		if err := a.e.SetTarget(*m.target); err != nil {
			return err
		}
	}
	if set["allow-incomplete"] {
		a.e.SetAllowIncomplete(*m.allowIncomplete)
	}
	return nil
}

func (a *App) migrate(ctx context.Context, args []string) error {
	m := a.migrateFlags("migrate")
	if err := m.fs.Parse(args); err != nil {
		return err
	}

	ids, err := utils.ParseIDs(m.fs.Args())
	if err != nil || len(ids) != 1 {
		return fmt.Errorf("usage: migrate [-target ID] [-allow-incomplete] USER_ID")
	}
	if err := m.apply(a); err != nil {
		return err
	}

	res, err := a.e.MigrateUser(ctx, ids[0])
	if err != nil {
		return err
	}
	view.Results(a.out, []types.MigrationResult{*res}, a.e.UserTypes())
	return nil
}

// migrateBatch 迁移当前选中的用户，-users 会先把这些用户加入选择
func (a *App) migrateBatch(ctx context.Context, args []string) error {
	m := a.migrateFlags("migrate-batch")
	users := m.fs.String("users", "", "comma separated user ids to add to the selection")
	if err := m.fs.Parse(args); err != nil {
		return err
	}

	ids, err := utils.ParseIDs([]string{*users})
	if err != nil {
		return err
	}
	if err := m.apply(a); err != nil {
		return err
	}

	for _, id := range ids {
		if a.e.IsSelected(id) {
			continue
		}
		if !a.e.ToggleUser(id) {
			return fmt.Errorf("user %d is not in the list", id)
		}
	}

	summary, err := a.e.MigrateSelected(ctx)
	if err != nil {
		return err
	}
	view.BatchSummary(a.out, summary, a.e.UserTypes())
	if summary.Failed > 0 {
		fmt.Fprintf(a.out, "failed users stay selected: %v\n", a.e.Selected())
	}
	return nil
}

func (a *App) results(ctx context.Context, args []string) error {
	view.Results(a.out, a.e.Results(), a.e.UserTypes())
	return nil
}
