package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"instance-console/app/server/constants"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignReachout(t *testing.T) {
	body := []byte(`{"user_id":1,"message":"hi"}`)

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	if got := signReachout("s3cret", body); got != want {
		t.Errorf("signReachout() = %s, want %s", got, want)
	}
	if signReachout("other", body) == want {
		t.Error("signature should depend on the secret")
	}
}

func TestSendReachout(t *testing.T) {
	body := []byte(`{"user_id":7,"message":"hello"}`)

	var (
		gotBody      []byte
		gotSignature string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(constants.ReachoutSignatureHeader)
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	a := testApp()
	c, _ := testContext(http.MethodPost, "/reachout", "")

	if err := a.sendReachout(c, hook.URL+"/ok", "s3cret", body); err != nil {
		t.Fatalf("sendReachout() error: %v", err)
	}
	if string(gotBody) != string(body) {
		t.Errorf("webhook received %s", gotBody)
	}
	if gotSignature != signReachout("s3cret", body) {
		t.Errorf("unexpected signature %q", gotSignature)
	}

	if err := a.sendReachout(c, hook.URL+"/ok", "", body); err != nil {
		t.Fatalf("sendReachout() error: %v", err)
	}
	if gotSignature != "" {
		t.Errorf("unsigned request should not carry a signature, got %q", gotSignature)
	}

	if err := a.sendReachout(c, hook.URL+"/fail", "", body); err == nil {
		t.Error("expected error for failing webhook")
	}
}
