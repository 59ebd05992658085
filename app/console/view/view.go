// Package view 把引擎中的状态渲染为终端文本。
package view

import (
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"instance-console/app/console/api"
	"instance-console/app/console/engine"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/types"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func typeName(userTypes []types.UserType, id *uint) string {
	if id == nil {
		return "-"
	}
	for _, t := range userTypes {
		if t.ID == *id {
			return t.Name
		}
	}
	return "#" + strconv.FormatUint(uint64(*id), 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Banner 输出实例名称，字段顺序可能不同步时附带警告
func Banner(w io.Writer, settings types.PublicSettings, outOfSync bool) {
	name := settings.InstanceName
	if name == "" {
		name = "(unnamed instance)"
	}
	fmt.Fprintf(w, "== %s ==\n", name)
	if outOfSync {
		fmt.Fprintln(w, "WARNING: field order may not match the server, it will be refreshed before the next move")
	}
}

// Error 输出错误说明，服务端错误附带状态码
func Error(w io.Writer, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "error (%d): %s\n", apiErr.Status, apiErr.Message)
		return
	}
	fmt.Fprintf(w, "error: %s\n", err)
}

// InScope 判断字段对某用户类型是否可见，typeID 为 0 时总是可见
func InScope(f types.UserField, typeID uint) bool {
	return typeID == 0 || f.UserTypeID == nil || *f.UserTypeID == typeID
}

// Fields 输出字段表，# 列始终是字段在完整列表中的位置（即 move-field 的参数）
func Fields(w io.Writer, fields []types.UserField, userTypes []types.UserType, typeID uint) error {
	tw := table(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tTYPE\tSCOPE\tREQUIRED\tENCRYPTED\tIN CHAT\tORDER")
	for i, f := range fields {
		if !InScope(f, typeID) {
			continue
		}
		scope := "global"
		if f.UserTypeID != nil {
			scope = typeName(userTypes, f.UserTypeID)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			i, f.ID, f.FieldName, f.FieldType, scope,
			yesNo(f.Required), yesNo(f.EncryptionEnabled), yesNo(f.IncludeInChat), f.DisplayOrder,
		)
	}
	return tw.Flush()
}

// Preview 按引导流程中的样子展示一组字段
func Preview(w io.Writer, fields []types.UserField) {
	for _, f := range fields {
		label := f.FieldName
		if f.Required {
			label += " *"
		}

		kind, err := fieldkind.Parse(f.FieldType, f.Options)
		if err != nil {
			fmt.Fprintf(w, "%s: (%s)\n", label, err)
			continue
		}

		placeholder := ""
		if f.Placeholder != nil {
			placeholder = *f.Placeholder
		}
		fmt.Fprintln(w, kind.Render(label, placeholder, ""))
	}
}

func UserTypes(w io.Writer, userTypes []types.UserType, fields []types.UserField) error {
	counts := make(map[uint]int)
	for _, f := range fields {
		if f.UserTypeID != nil {
			counts[*f.UserTypeID]++
		}
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tFIELDS\tORDER\tDESCRIPTION")
	for _, t := range userTypes {
		description := ""
		if t.Description != nil {
			description = *t.Description
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", t.ID, t.Name, counts[t.ID], t.DisplayOrder, description)
	}
	return tw.Flush()
}

// Users 输出用户列表；加密的资料只显示是否存在
func Users(w io.Writer, users []types.AdminUserSummary, userTypes []types.UserType, selected func(uint) bool, now time.Time) error {
	tw := table(w)
	fmt.Fprintln(tw, "SEL\tID\tTYPE\tAPPROVED\tEMAIL\tNAME\tCREATED")
	for _, u := range users {
		sel := "[ ]"
		if selected(u.ID) {
			sel = "[x]"
		}
		email, name := "-", "-"
		if u.EmailEncrypted != nil {
			email = "encrypted"
		}
		if u.NameEncrypted != nil {
			name = "encrypted"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			sel, u.ID, typeName(userTypes, u.UserTypeID), yesNo(u.Approved), email, name,
			humanize.RelTime(u.CreatedAt, now, "ago", "from now"),
		)
	}
	return tw.Flush()
}

func result(r types.MigrationResult, userTypes []types.UserType) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "user %d: ", r.UserID)
	if r.Success {
		fmt.Fprintf(&sb, "%s -> %s", typeName(userTypes, r.PreviousUserTypeID), typeName(userTypes, r.TargetUserTypeID))
	} else {
		sb.WriteString("failed")
		if r.Error != "" {
			sb.WriteString(" (" + r.Error + ")")
		}
	}
	if r.MissingRequiredCount > 0 {
		fmt.Fprintf(&sb, ", %d required field(s) missing", r.MissingRequiredCount)
		if len(r.MissingRequiredFields) > 0 {
			sb.WriteString(": " + strings.Join(r.MissingRequiredFields, ", "))
		}
	}
	return sb.String()
}

// Results 输出最近的迁移结果，新的在前
func Results(w io.Writer, results []types.MigrationResult, userTypes []types.UserType) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no migrations yet")
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, result(r, userTypes))
	}
}

func BatchSummary(w io.Writer, summary *engine.BatchSummary, userTypes []types.UserType) {
	fmt.Fprintf(w, "migrated %d, failed %d\n", summary.Migrated, summary.Failed)
	for _, r := range summary.Results {
		if !r.Success {
			fmt.Fprintln(w, "  "+result(r, userTypes))
		}
	}
}

// Settings 按键名排序输出
func Settings(w io.Writer, settings types.Settings) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := table(w)
	fmt.Fprintln(tw, "KEY\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, settings[k])
	}
	return tw.Flush()
}
