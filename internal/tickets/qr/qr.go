package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"

	"ms-bus-booking/internal/models"
)

const imageSize = 256

var ErrMalformedPayload = errors.New("malformed ticket payload")

// Generator seals tickets into QR codes only the service can read back.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

// GenerateEncryptedQR renders the encrypted ticket as a PNG.
func (g *Generator) GenerateEncryptedQR(ticket models.Ticket) ([]byte, error) {
	payload, err := g.EncryptPayload(ticket)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, imageSize)
}

// EncryptPayload returns the base64url text embedded in the QR code.
func (g *Generator) EncryptPayload(ticket models.Ticket) (string, error) {
	data, err := json.Marshal(ticket)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// DecryptPayload reverses EncryptPayload. A payload sealed with another secret fails to decode.
func (g *Generator) DecryptPayload(payload string) (models.Ticket, error) {
	var ticket models.Ticket

	ciphertext, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return ticket, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(ciphertext) <= aes.BlockSize {
		return ticket, fmt.Errorf("%w: too short", ErrMalformedPayload)
	}

	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return ticket, err
	}

	data := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, ciphertext[:aes.BlockSize])
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	if err := json.Unmarshal(data, &ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return ticket, nil
}
