package handlers

import (
	"context"
	"fmt"
	"instance-console/app/console/engine"
	"instance-console/app/console/view"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/types"
	"instance-console/app/server/utils"
	"strconv"
	"strings"
)

func (a *App) fields(ctx context.Context, args []string) error {
	fs := a.flags("fields")
	preview := fs.Bool("preview", false, "show fields the way users see them")
	typeID := fs.Uint("type", 0, "only global fields and fields of this user type")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fields := a.e.Fields()

	a.banner()
	if *preview {
		scoped := make([]types.UserField, 0, len(fields))
		for _, f := range fields {
			if view.InScope(f, *typeID) {
				scoped = append(scoped, f)
			}
		}
		view.Preview(a.out, scoped)
		return nil
	}
	return view.Fields(a.out, fields, a.e.UserTypes(), *typeID)
}

func (a *App) moveField(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: move-field INDEX up|down")
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}

	var dir engine.Direction
	switch strings.ToLower(args[1]) {
	case "up":
		dir = engine.Up
	case "down":
		dir = engine.Down
	default:
		return fmt.Errorf("direction must be up or down, got %q", args[1])
	}

	if err := a.e.MoveField(ctx, index, dir); err != nil {
		return err
	}
	return view.Fields(a.out, a.e.Fields(), a.e.UserTypes(), 0)
}

func (a *App) fieldAdd(ctx context.Context, args []string) error {
	fs := a.flags("field-add")
	name := fs.String("name", "", "field name")
	fieldType := fs.String("type", fieldkind.TagText, "one of "+strings.Join(fieldkind.Tags(), ", "))
	required := fs.Bool("required", false, "answer is required")
	typeID := fs.Uint("type-id", 0, "user type the field belongs to, global when empty")
	placeholder := fs.String("placeholder", "", "input placeholder")
	options := fs.String("options", "", "comma separated options for select fields")
	noEncrypt := fs.Bool("no-encrypt", false, "store answers without client side encryption")
	chat := fs.Bool("chat", false, "include the answer in chat")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := types.UserFieldInput{
		FieldName:         strings.TrimSpace(*name),
		FieldType:         *fieldType,
		Required:          *required,
		EncryptionEnabled: utils.P(!*noEncrypt),
		IncludeInChat:     *chat,
	}
	if req.FieldName == "" {
		return fmt.Errorf("-name is required")
	}
	if *options != "" {
		req.Options = strings.Split(*options, ",")
	}
	// 提前检查类型，避免无谓的请求
	if _, err := fieldkind.Parse(req.FieldType, req.Options); err != nil {
		return err
	}
	if *typeID != 0 {
		req.UserTypeID = utils.P(*typeID)
	}
	if *placeholder != "" {
		req.Placeholder = placeholder
	}

	field, err := a.c.CreateUserField(ctx, &req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created field %d (%s)\n", field.ID, field.FieldName)

	return a.e.RefreshFields(ctx)
}

func (a *App) fieldDelete(ctx context.Context, args []string) error {
	ids, err := utils.ParseIDs(args)
	if err != nil || len(ids) != 1 {
		return fmt.Errorf("usage: field-delete ID")
	}

	if err := a.c.DeleteUserField(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted field %d\n", ids[0])

	return a.e.RefreshFields(ctx)
}
