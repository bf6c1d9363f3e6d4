package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator issues booking ids, ticket ids and confirmation codes.
type UUIDGenerator struct{}

func (UUIDGenerator) NewBookingID() string {
	return uuid.NewString()
}

func (UUIDGenerator) NewTicketID() string {
	return GenerateTicketID()
}

func (UUIDGenerator) NewConfirmationCode() string {
	return GenerateConfirmationCode()
}

// GenerateConfirmationCode returns "TKT" followed by eight random uppercase hex characters.
func GenerateConfirmationCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TKT" + strings.ToUpper(id[:8])
}

func GenerateTicketID() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("tkt_%d_%06d", timestamp, randomNum.Int64())
}
