package handlers

import (
	"context"
	"fmt"
	"instance-console/app/console/engine"
	"instance-console/app/console/view"
	"instance-console/app/server/utils"
	"time"
)

func (a *App) users(ctx context.Context, args []string) error {
	fs := a.flags("users")
	filter := fs.String("filter", "", "all, untyped or type:ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *filter != "" {
		f, err := engine.ParseFilter(*filter)
		if err != nil {
			return err
		}
		a.e.SetFilter(f)
	}

	a.banner()
	visible := a.e.VisibleUsers()
	fmt.Fprintf(a.out, "filter: %s, showing %d of %d users, %d selected\n",
		a.e.Filter(), len(visible), len(a.e.Users()), len(a.e.Selected()))

	return view.Users(a.out, visible, a.e.UserTypes(), a.e.IsSelected, time.Now())
}

// selectUsers 切换用户的选中状态，-visible 切换当前筛选下的全部用户
func (a *App) selectUsers(ctx context.Context, args []string) error {
	fs := a.flags("select")
	visible := fs.Bool("visible", false, "toggle every visible user")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ids, err := utils.ParseIDs(fs.Args())
	if err != nil {
		return err
	}
	if !*visible && len(ids) == 0 {
		return fmt.Errorf("usage: select [-visible] [ID,ID...]")
	}

	if *visible {
		a.e.ToggleVisible()
	}
	for _, id := range ids {
		if !a.e.ToggleUser(id) {
			return fmt.Errorf("user %d is not in the list", id)
		}
	}

	fmt.Fprintf(a.out, "selected: %v\n", a.e.Selected())
	return nil
}

func (a *App) target(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: target ID")
	}

	if args[0] == "0" {
		_ = a.e.SetTarget(0)
		fmt.Fprintln(a.out, "target cleared")
		return nil
	}

	ids, err := utils.ParseIDs(args)
	if err != nil {
		return err
	}
	if err := a.e.SetTarget(ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "target: user type %d\n", ids[0])
	return nil
}

func (a *App) approve(ctx context.Context, args []string) error {
	fs := a.flags("approve")
	revoke := fs.Bool("revoke", false, "revoke the approval instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ids, err := utils.ParseIDs(fs.Args())
	if err != nil || len(ids) != 1 {
		return fmt.Errorf("usage: approve [-revoke] ID")
	}

	user, err := a.c.ApproveUser(ctx, ids[0], !*revoke)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %d approved: %t\n", user.ID, user.Approved)

	return a.e.RefreshUsers(ctx)
}
