package jwt

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	j, err := New("test-signature-key")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	expires := time.Now().Add(time.Hour).Unix()
	token, err := j.SignToken(&User{ID: 42, IsAdmin: true, Expires: expires})
	if err != nil {
		t.Fatalf("SignToken() error: %v", err)
	}

	user, err := j.ParseUser(token)
	if err != nil {
		t.Fatalf("ParseUser() error: %v", err)
	}
	if user.ID != 42 || !user.IsAdmin || user.Expires != expires {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestParseUser_Rejects(t *testing.T) {
	j, _ := New("key-one")
	other, _ := New("key-two")

	valid, _ := other.SignToken(&User{ID: 1, Expires: time.Now().Add(time.Hour).Unix()})
	expired, _ := j.SignToken(&User{ID: 1, Expires: time.Now().Add(-time.Hour).Unix()})

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong key", token: valid},
		{name: "expired", token: expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := j.ParseUser(tt.token); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNew_EmptyKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty key")
	}
}
