package constants

import "time"

const (
	AuthTokenDuration     = 12 * time.Hour
	UserAuthTokenDuration = 30 * 24 * time.Hour
)

// 连续登录失败达到次数后暂时拒绝该用户名
const MaxLoginFailures = 5
