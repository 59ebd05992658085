package handlers

import (
	"instance-console/app/server/constants"
	"instance-console/app/server/models"
	"testing"
)

func TestIsSecretSetting(t *testing.T) {
	tests := map[string]bool{
		"instance_name":           false,
		"reachout_webhook_url":    false,
		"reachout_webhook_secret": true,
		"smtp_password":           true,
		"deploy_token":            true,
		"maps_api_key":            true,
	}
	for key, want := range tests {
		if got := isSecretSetting(key); got != want {
			t.Errorf("isSecretSetting(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestMaskSettings(t *testing.T) {
	res := maskSettings([]models.Setting{
		{Key: "instance_name", Value: []byte("Acme")},
		{Key: "smtp_password", Value: []byte{0x01, 0x02}, IsSecret: true},
	})

	if res["instance_name"] != "Acme" {
		t.Errorf("instance_name = %q", res["instance_name"])
	}
	if res["smtp_password"] != constants.SecretMask {
		t.Errorf("smtp_password should be masked, got %q", res["smtp_password"])
	}
}
