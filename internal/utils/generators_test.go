package utils

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateConfirmationCode_Shape(t *testing.T) {
	code := GenerateConfirmationCode()
	assert.Regexp(t, regexp.MustCompile(`^TKT[0-9A-F]{8}$`), code)
	assert.NotEqual(t, code, GenerateConfirmationCode())
}

func TestUUIDGenerator(t *testing.T) {
	var g UUIDGenerator

	_, err := uuid.Parse(g.NewBookingID())
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^tkt_\d+_\d{6}$`), g.NewTicketID())
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse("Could not select seat", "Conflict", "seat 3 is already held")
	assert.False(t, resp.Success)
	assert.Equal(t, "Conflict", resp.Kind)
	assert.False(t, resp.Timestamp.IsZero())
}
