package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	// Standard date/time value
	eventDate := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeDateBasedToken(eventDate)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeDateBasedToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, eventDate, decoded, "Date should match after decode")

	// Zero time value
	zeroTime := time.Time{}
	decodedZero, err := DecodeDateBasedToken(EncodeDateBasedToken(zeroTime))
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZero, "Zero date should match after decode")
}

func TestDecodeDateBasedTokenError(t *testing.T) {
	_, err := DecodeDateBasedToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	_, err = DecodeDateBasedToken("bm90YWRhdGU=") // "notadate"
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "date parse", "Error should mention date parsing issue")
}

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	fields := []string{"2026-05-15T14:30:45.123456789Z", "42"}

	token := EncodeMultiFieldToken(fields...)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, fields, decoded, "Fields should match after decode")

	// Single field round trip
	single, err := DecodeMultiFieldToken(EncodeMultiFieldToken("only"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"only"}, single)
}

func TestDecodeMultiFieldTokenError(t *testing.T) {
	_, err := DecodeMultiFieldToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")
}
