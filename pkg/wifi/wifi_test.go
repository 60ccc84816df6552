package wifi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMAC(t *testing.T) {
	want := MAC{0x00, 0x12, 0xBF, 0x12, 0x34, 0x56}

	tests := []struct {
		name  string
		input string
	}{
		{"colon", "00:12:BF:12:34:56"},
		{"lowercase colon", "00:12:bf:12:34:56"},
		{"dash", "00-12-BF-12-34-56"},
		{"cisco dotted", "0012.bf12.3456"},
		{"bare", "0012BF123456"},
		{"padded", "  00:12:BF:12:34:56 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMAC(tt.input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseMAC_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyMAC},
		{"short", "00:12:BF:12:34", ErrInvalidMAC},
		{"long", "00:12:BF:12:34:56:78", ErrInvalidMAC},
		{"not hex", "00:12:BF:12:34:ZZ", ErrInvalidMAC},
		{"mixed separators", "00:12-BF:12:34:56", ErrInvalidMAC},
		{"misplaced separators", "001:2B:F1:23:45:6", ErrInvalidMAC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMAC(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "bssid", verr.Field)
		})
	}
}

func TestMACArithmetic(t *testing.T) {
	m := MustParseMAC("00:12:BF:FF:FF:FF")

	assert.Equal(t, "00:12:BF:FF:FF:FF", m.String())
	assert.Equal(t, "0012BFFFFFFF", m.Hex())
	assert.Equal(t, uint64(0x0012BFFFFFFF), m.Uint64())
	assert.Equal(t, MustParseMAC("00:12:C0:00:00:00"), m.Add(1))
	assert.Equal(t, MustParseMAC("00:00:00:00:00:00"), MustParseMAC("FF:FF:FF:FF:FF:FF").Add(1))
	assert.Equal(t, OUI{0x00, 0x12, 0xBF}, m.OUI())
	assert.Equal(t, "00:12:BF", m.OUI().String())

	// Add returns a copy; the receiver is untouched.
	assert.Equal(t, "00:12:BF:FF:FF:FF", m.String())
}

func TestParseOUI(t *testing.T) {
	o, err := ParseOUI("c8-3a-35")
	require.NoError(t, err)
	assert.Equal(t, OUI{0xC8, 0x3A, 0x35}, o)

	_, err = ParseOUI("C8:3A")
	assert.ErrorIs(t, err, ErrInvalidMAC)
}

func TestIdentity(t *testing.T) {
	id, err := ParseIdentity("UPC1234567", "64:7C:34:12:34:56")
	require.NoError(t, err)
	assert.True(t, id.Valid())
	assert.False(t, id.Hidden())
	assert.Equal(t, "UPC1234567", id.SSID())
	assert.Equal(t, "UPC1234567 [64:7C:34:12:34:56]", id.String())

	hidden := NewIdentity("", MustParseMAC("64:7C:34:12:34:56"))
	assert.True(t, hidden.Hidden())
	assert.Equal(t, "<hidden> [64:7C:34:12:34:56]", hidden.String())

	var zero Identity
	assert.False(t, zero.Valid())

	_, err = ParseIdentity("x", "nope")
	assert.ErrorIs(t, err, ErrInvalidMAC)
}

func TestPSK(t *testing.T) {
	// IEEE 802.11i H.4 test vector.
	psk, ok := PSK("password", "IEEE")
	require.True(t, ok)
	assert.Equal(t, "f42c6fc52df0ebef9ebb4b90b38a5f902e83fe1b135a70e23aed762e9710a12e", psk)

	_, ok = PSK("short", "IEEE")
	assert.False(t, ok)

	_, ok = PSK("password", "")
	assert.False(t, ok)
}

func TestParseEncryption(t *testing.T) {
	assert.Equal(t, EncWPA2, ParseEncryption("WPA2 WPA"))
	assert.Equal(t, EncWPA, ParseEncryption("wpa"))
	assert.Equal(t, EncWEP, ParseEncryption("WEP"))
	assert.Equal(t, EncOpen, ParseEncryption("OPN"))
	assert.Equal(t, EncWPA3, ParseEncryption("WPA3 WPA2"))
	assert.Equal(t, EncUnknown, ParseEncryption(""))
	assert.Equal(t, "WPA2", EncWPA2.String())
}
