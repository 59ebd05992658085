package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// P 返回值的指针，方便构造可选字段
func P[T any](v T) *T {
	return &v
}

// ParseIDs 解析一组正整数 ID ，支持逗号分隔
func ParseIDs(args []string) ([]uint, error) {
	var ids []uint
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("invalid id %q", part)
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}
