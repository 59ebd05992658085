package constants

import "time"

const (
	CacheKeyPublicSettings = "instance:settings:public"
	CacheKeyMagicLink      = "instance:magiclink:%s"      // %s -> token
	CacheKeyLoginFailures  = "instance:login:failures:%s" // %s -> username
)

const (
	CacheExpirePublicSettings = 1 * time.Hour
	CacheExpireMagicLink      = 15 * time.Minute
	CacheExpireLoginFailures  = 15 * time.Minute
)
