package api

import (
	"context"
	"fmt"
	"instance-console/app/server/types"
	"net/http"
)

func typePath(id uint) string {
	return fmt.Sprintf("/admin/user-types/%d", id)
}

func (c *Client) ListUserTypes(ctx context.Context) ([]types.UserType, error) {
	var res []types.UserType
	if err := c.do(ctx, http.MethodGet, "/admin/user-types", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateUserType(ctx context.Context, req *types.UserTypeInput) (*types.UserType, error) {
	var res types.UserType
	if err := c.do(ctx, http.MethodPost, "/admin/user-types", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateUserType(ctx context.Context, id uint, req *types.UserTypeInput) (*types.UserType, error) {
	var res types.UserType
	if err := c.do(ctx, http.MethodPut, typePath(id), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteUserType 删除类型，服务端会一并删除其字段
func (c *Client) DeleteUserType(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, typePath(id), nil, nil, nil)
}
