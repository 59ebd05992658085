package api

import (
	"context"
	"instance-console/app/server/types"
	"net/http"
)

func (c *Client) GetSettings(ctx context.Context) (types.Settings, error) {
	res := types.Settings{}
	if err := c.do(ctx, http.MethodGet, "/admin/settings", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateSettings 提交需要修改的配置；空字符串表示删除，掩码表示不修改
func (c *Client) UpdateSettings(ctx context.Context, settings types.Settings) (types.Settings, error) {
	res := types.Settings{}
	if err := c.do(ctx, http.MethodPut, "/admin/settings", nil, settings, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) PublicSettings(ctx context.Context) (*types.PublicSettings, error) {
	var res types.PublicSettings
	if err := c.do(ctx, http.MethodGet, "/settings/public", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
