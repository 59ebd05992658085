package inits

import (
	"fmt"
	"github.com/joho/godotenv"
	"instance-console/app/console/config"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func Config() (*config.Config, error) {
	// .env 文件可选
	_ = godotenv.Load()

	var cfg config.Config
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if serverEp, exist := os.LookupEnv("SERVER_ENDPOINT"); !exist {
		return nil, fmt.Errorf("SERVER_ENDPOINT environment variable not set")
	} else {
		cfg.ServerEndpoint = serverEp
	}

	// 令牌与账号密码二选一
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	cfg.AdminUsername = os.Getenv("ADMIN_USERNAME")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminToken == "" && (cfg.AdminUsername == "" || cfg.AdminPassword == "") {
		return nil, fmt.Errorf("either ADMIN_TOKEN or ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}

	if refreshIntervalStr, exist := os.LookupEnv("REFRESH_INTERVAL"); !exist {
		cfg.RefreshInterval = 1 * time.Minute // 默认每分钟一次
	} else if interval, err := time.ParseDuration(refreshIntervalStr); err != nil || interval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL should be a valid positive duration")
	} else {
		cfg.RefreshInterval = interval
	}

	if cacheDir, exist := os.LookupEnv("CACHE_DIR"); exist {
		cfg.CacheDir = cacheDir
	} else if userCacheDir, err := os.UserCacheDir(); err != nil {
		return nil, fmt.Errorf("CACHE_DIR environment variable not set and no user cache dir: %w", err)
	} else {
		cfg.CacheDir = filepath.Join(userCacheDir, "instance-console")
	}

	if allowIncompleteStr, exist := os.LookupEnv("ALLOW_INCOMPLETE"); exist {
		allowIncomplete, err := strconv.ParseBool(allowIncompleteStr)
		if err != nil {
			return nil, fmt.Errorf("ALLOW_INCOMPLETE should be a boolean")
		}
		cfg.AllowIncomplete = allowIncomplete
	}

	return &cfg, nil
}
