package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"

	"brightnest/config"
	"brightnest/internal/logger"
)

// Codec seals and opens PII fields such as home coordinates. Decrypt returns
// an error on malformed input; callers treat that as stale data, not a crash.
type Codec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CodecService implements Codec with AES-256-GCM. Ciphertexts are
// base64(nonce || sealed).
type CodecService struct {
	aead cipher.AEAD
	log  logger.Logger
}

func NewCodecService(config config.Config) (*CodecService, error) {
	log := logger.New("codecService")

	if config.PIIEncryptionKey == "" {
		return nil, log.ErrMsg("PII encryption key is not configured")
	}

	key, err := hex.DecodeString(config.PIIEncryptionKey)
	if err != nil {
		return nil, log.Err("failed to decode PII encryption key", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, log.Err("failed to create cipher", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, log.Err("failed to create GCM", err)
	}

	return &CodecService{aead: aead, log: log}, nil
}

func (c *CodecService) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", c.log.Function("Encrypt").Err("failed to generate nonce", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *CodecService) Decrypt(ciphertext string) (string, error) {
	log := c.log.Function("Decrypt")

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", log.Err("malformed ciphertext encoding", err)
	}

	if len(raw) < c.aead.NonceSize() {
		return "", log.ErrMsg("ciphertext shorter than nonce")
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", log.Err("failed to open ciphertext", err)
	}

	return string(plaintext), nil
}
