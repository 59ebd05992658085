package constants

// 公开配置项
const (
	SettingInstanceName = "instance_name"
	SettingPrimaryColor = "primary_color"
	SettingIcon         = "icon"
)

// 默认值，在数据库初始化时写入
var DefaultSettings = map[string]string{
	SettingInstanceName:     "Instance",
	SettingPrimaryColor:     "#3b82f6",
	SettingIcon:             "",
	"reachout_enabled":      "false",
	"reachout_title":        "",
	"reachout_description":  "",
	"reachout_button_label": "",
	"reachout_webhook_url":  "",
}

// 以这些后缀结尾的配置项按密钥处理：加密保存，读取时掩码
var SecretSettingSuffixes = []string{"_secret", "_password", "_token", "_api_key"}

const SecretMask = "********"

// 联系支持相关配置
const (
	SettingReachoutEnabled       = "reachout_enabled"
	SettingReachoutWebhookURL    = "reachout_webhook_url"
	SettingReachoutWebhookSecret = "reachout_webhook_secret"
)

const ReachoutSignatureHeader = "X-Reachout-Signature"
