package config

type Config struct {
	System struct {
		IsProd                bool   // 生产模式下不提供 API 文档，也不在日志中输出魔法链接
		Listen                string // 监听地址
		DBConnectionString    string // Postgres 连接字符串
		RedisConnectionString string // Redis 连接字符串，用于配置缓存、魔法链接与登录限流
	}
	Security struct {
		EncryptSecretKey   string // 16/24/32 字节的 AES 密钥，用于加密密钥类配置与生成邮箱查找键，设定后不能更改
		SignatureSecretKey string // JWT 签名密钥，更换后所有会话失效
		AdminPassword      string // 初始管理员密码，仅在没有任何管理员时使用
	}
}
