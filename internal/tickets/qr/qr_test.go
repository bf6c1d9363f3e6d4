package qr

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bus-booking/internal/models"
)

func sampleTicket() models.Ticket {
	return models.Ticket{
		TicketID:         "tkt_1790000000_000042",
		BookingID:        "bk-1",
		ConfirmationCode: "TKT1A2B3C4D",
		Operator:         "Volvo",
		Route:            "Chennai - Mumbai",
		BusID:            "B1001",
		Date:             "2026-11-02",
		Departure:        "21:30",
		SeatNumber:       3,
		PassengerName:    "Asha Rao",
		Amount:           250,
		IssuedAt:         time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestGenerateEncryptedQR_IsPNG(t *testing.T) {
	g := NewGenerator("test-secret-key")

	qrBytes, err := g.GenerateEncryptedQR(sampleTicket())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(qrBytes))
	require.NoError(t, err)
	assert.Equal(t, imageSize, img.Bounds().Dx())
}

func TestPayload_RoundTrip(t *testing.T) {
	g := NewGenerator("test-secret-key")
	ticket := sampleTicket()

	payload, err := g.EncryptPayload(ticket)
	require.NoError(t, err)
	assert.NotContains(t, payload, "Asha")

	decoded, err := g.DecryptPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, ticket.TicketID, decoded.TicketID)
	assert.Equal(t, ticket.SeatNumber, decoded.SeatNumber)
	assert.True(t, ticket.IssuedAt.Equal(decoded.IssuedAt))
}

func TestPayload_RandomIV(t *testing.T) {
	g := NewGenerator("test-secret-key")

	a, err := g.EncryptPayload(sampleTicket())
	require.NoError(t, err)
	b, err := g.EncryptPayload(sampleTicket())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptPayload_Rejects(t *testing.T) {
	g := NewGenerator("test-secret-key")
	payload, err := NewGenerator("other-secret").EncryptPayload(sampleTicket())
	require.NoError(t, err)

	for name, in := range map[string]string{
		"wrong secret": payload,
		"not base64":   "%%%",
		"too short":    "AAAA",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := g.DecryptPayload(in)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
