package api

import (
	"context"
	"fmt"
	"instance-console/app/server/types"
	"net/http"
)

func fieldPath(id uint) string {
	return fmt.Sprintf("/admin/user-fields/%d", id)
}

// ListUserFields 按 display_order 返回全部字段
func (c *Client) ListUserFields(ctx context.Context) ([]types.UserField, error) {
	var res []types.UserField
	if err := c.do(ctx, http.MethodGet, "/admin/user-fields", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateUserField(ctx context.Context, req *types.UserFieldInput) (*types.UserField, error) {
	var res types.UserField
	if err := c.do(ctx, http.MethodPost, "/admin/user-fields", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateUserField(ctx context.Context, id uint, req *types.UserFieldInput) (*types.UserField, error) {
	var res types.UserField
	if err := c.do(ctx, http.MethodPut, fieldPath(id), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteUserField(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fieldPath(id), nil, nil, nil)
}
