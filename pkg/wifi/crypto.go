package wifi

import (
	"crypto/sha1"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	PMKLength = 32

	// MinPassphrase and MaxPassphrase bound a WPA ASCII passphrase (IEEE 802.11i H.4.1).
	MinPassphrase = 8
	MaxPassphrase = 63
)

// DerivePMK generates the Pairwise Master Key from a passphrase and SSID
// using PBKDF2-SHA1 with 4096 iterations as defined in IEEE 802.11i.
func DerivePMK(passphrase, ssid string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(ssid), 4096, PMKLength, sha1.New)
}

// PSK returns the 64 hex digit pre-shared key wpa_supplicant accepts in
// place of a passphrase. ok is false when the passphrase length is outside
// the WPA range or the SSID is hidden.
func PSK(passphrase, ssid string) (psk string, ok bool) {
	if ssid == "" || len(passphrase) < MinPassphrase || len(passphrase) > MaxPassphrase {
		return "", false
	}
	return hex.EncodeToString(DerivePMK(passphrase, ssid)), true
}
