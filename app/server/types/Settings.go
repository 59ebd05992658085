package types

// PublicSettings 是无需登录即可读取的实例品牌信息
type PublicSettings struct {
	InstanceName string `json:"instance_name"`
	PrimaryColor string `json:"primary_color"`
	Icon         string `json:"icon"`
}

// Settings 是管理端的键值配置，密钥类的值会被掩码
type Settings map[string]string
