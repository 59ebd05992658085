package handlers

import (
	"context"
	"fmt"
	"instance-console/app/console/view"
	"instance-console/app/server/types"
	"instance-console/app/server/utils"
	"strings"
)

func (a *App) userTypes(ctx context.Context, args []string) error {
	a.banner()
	return view.UserTypes(a.out, a.e.UserTypes(), a.e.Fields())
}

func (a *App) typeAdd(ctx context.Context, args []string) error {
	fs := a.flags("type-add")
	name := fs.String("name", "", "user type name")
	description := fs.String("description", "", "description shown during onboarding")
	icon := fs.String("icon", "", "icon name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := types.UserTypeInput{Name: strings.TrimSpace(*name)}
	if req.Name == "" {
		return fmt.Errorf("-name is required")
	}
	if *description != "" {
		req.Description = description
	}
	if *icon != "" {
		req.Icon = icon
	}

	userType, err := a.c.CreateUserType(ctx, &req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user type %d (%s)\n", userType.ID, userType.Name)

	return a.e.RefreshUserTypes(ctx)
}

// typeDelete 删除类型后服务端会删除其字段并清空用户的类型，因此全部重新加载
func (a *App) typeDelete(ctx context.Context, args []string) error {
	ids, err := utils.ParseIDs(args)
	if err != nil || len(ids) != 1 {
		return fmt.Errorf("usage: type-delete ID")
	}

	if err := a.c.DeleteUserType(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted user type %d\n", ids[0])

	if target, ok := a.e.Target(); ok && target == ids[0] {
		_ = a.e.SetTarget(0)
	}
	return a.e.Load(ctx)
}
