package api

import (
	"context"
	"fmt"
	"instance-console/app/server/types"
	"net/http"
	"net/url"
)

// ListUsers 一次取回全部用户（ page=0&limit=0 ）
func (c *Client) ListUsers(ctx context.Context) ([]types.AdminUserSummary, error) {
	query := url.Values{}
	query.Set("page", "0")
	query.Set("limit", "0")

	var res types.ListResponse[types.AdminUserSummary]
	if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, &res); err != nil {
		return nil, err
	}
	if res.List == nil {
		res.List = []types.AdminUserSummary{}
	}
	return res.List, nil
}

func (c *Client) ApproveUser(ctx context.Context, id uint, approved bool) (*types.AdminUserSummary, error) {
	var res types.AdminUserSummary
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/approve", id), nil, &types.UserApproveInput{
		Approved: &approved,
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) MigrateUser(ctx context.Context, id uint, req *types.MigrateRequest) (*types.MigrationResult, error) {
	var res types.MigrationResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/migrate-type", id), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MigrateUsers 批量迁移，单个用户的失败体现在结果中而不是错误中
func (c *Client) MigrateUsers(ctx context.Context, req *types.BatchMigrateRequest) (*types.BatchMigrateResponse, error) {
	var res types.BatchMigrateResponse
	if err := c.do(ctx, http.MethodPost, "/admin/users/migrate-type/batch", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
