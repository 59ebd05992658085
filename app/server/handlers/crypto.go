package handlers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errSecretTooShort = errors.New("sealed secret too short")

func (a *App) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(a.esk)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}

// sealSecret 加密一个密钥类配置，配置名作为附加数据，密文不能挪用到其他配置
func (a *App) sealSecret(key string, plaintext []byte) ([]byte, error) {
	gcm, err := a.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize(), gcm.NonceSize()+len(plaintext)+gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, []byte(key)), nil
}

func (a *App) openSecret(key string, sealed []byte) ([]byte, error) {
	gcm, err := a.aead()
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize()+gcm.Overhead() {
		return nil, errSecretTooShort
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("open secret %q: %w", key, err)
	}
	return plaintext, nil
}

// emailHash 生成邮箱的查找键，数据库中不保存明文邮箱
func (a *App) emailHash(email string) string {
	mac := hmac.New(sha256.New, a.esk)
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(mac.Sum(nil))
}
