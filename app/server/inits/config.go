package inits

import (
	"fmt"
	"github.com/joho/godotenv"
	"instance-console/app/server/config"
	"os"
	"strings"
)

func Config() (*config.Config, error) {
	// .env 文件可选，已有的环境变量优先
	_ = godotenv.Load()

	var cfg config.Config

	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
		return nil, fmt.Errorf("REDIS_CONN environment variable not set")
	} else {
		cfg.System.RedisConnectionString = redisconn
	}

	if encsk, exist := os.LookupEnv("ENCRYPT_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("ENCRYPT_SECRET_KEY environment variable not set")
	} else if l := len(encsk); l != 16 && l != 24 && l != 32 {
		return nil, fmt.Errorf("ENCRYPT_SECRET_KEY must be 16, 24 or 32 bytes, got %d", l)
	} else {
		cfg.Security.EncryptSecretKey = encsk
	}

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if adminPassword, exist := os.LookupEnv("ADMIN_PASSWORD"); !exist {
		cfg.Security.AdminPassword = "password" // 首次启动后请尽快修改
	} else {
		cfg.Security.AdminPassword = adminPassword
	}

	return &cfg, nil
}
