package wifi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyMAC indicates an empty MAC address was provided.
	ErrEmptyMAC = errors.New("empty MAC address")

	// ErrInvalidMAC indicates the MAC address is not six well-formed octets.
	ErrInvalidMAC = errors.New("invalid MAC address format")
)

// ValidationError wraps a parse failure together with the offending value.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// MAC is a 6-octet hardware address. It is a value type: copies never alias.
type MAC [6]byte

// ParseMAC accepts "XX:XX:XX:XX:XX:XX", "XX-XX-XX-XX-XX-XX",
// "XXXX.XXXX.XXXX" and bare "XXXXXXXXXXXX", in either case.
func ParseMAC(s string) (MAC, error) {
	var m MAC

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return m, &ValidationError{Field: "bssid", Value: s, Err: ErrEmptyMAC}
	}

	digits := strings.NewReplacer(":", "", "-", "", ".", "").Replace(trimmed)
	if len(digits) != 12 || !separatorsValid(trimmed) {
		return m, &ValidationError{Field: "bssid", Value: s, Err: ErrInvalidMAC}
	}

	if _, err := hex.Decode(m[:], []byte(digits)); err != nil {
		return MAC{}, &ValidationError{Field: "bssid", Value: s, Err: ErrInvalidMAC}
	}
	return m, nil
}

// separatorsValid rejects mixed or misplaced separators such as "0:012:...".
func separatorsValid(s string) bool {
	switch len(s) {
	case 12:
		return true
	case 14:
		return s[4] == '.' && s[9] == '.'
	case 17:
		sep := s[2]
		if sep != ':' && sep != '-' {
			return false
		}
		for i := 2; i < 17; i += 3 {
			if s[i] != sep {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MustParseMAC parses a MAC address and panics on error.
// Only use in tests or with known-valid input.
func MustParseMAC(s string) MAC {
	m, err := ParseMAC(s)
	if err != nil {
		panic(fmt.Sprintf("invalid MAC address %q: %v", s, err))
	}
	return m
}

// MACFromUint64 builds a MAC from the low 48 bits of v.
func MACFromUint64(v uint64) MAC {
	var m MAC
	for i := 5; i >= 0; i-- {
		m[i] = byte(v)
		v >>= 8
	}
	return m
}

// Uint64 returns the address as a 48-bit big-endian integer.
func (m MAC) Uint64() uint64 {
	var v uint64
	for _, b := range m {
		v = v<<8 | uint64(b)
	}
	return v
}

// Add offsets the address by n, wrapping inside 48 bits.
// Vendors frequently derive keys from a neighbouring interface (WAN = BSSID+1).
func (m MAC) Add(n int64) MAC {
	return MACFromUint64((m.Uint64() + uint64(n)) & 0xFFFFFFFFFFFF)
}

// OUI returns the manufacturer prefix (first three octets).
func (m MAC) OUI() OUI {
	return OUI{m[0], m[1], m[2]}
}

// Hex returns the twelve uppercase hex digits without separators.
func (m MAC) Hex() string {
	return strings.ToUpper(hex.EncodeToString(m[:]))
}

// String returns the address in "XX:XX:XX:XX:XX:XX" form.
func (m MAC) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsZero reports whether all octets are zero.
func (m MAC) IsZero() bool {
	return m == MAC{}
}

// IsBroadcast reports whether the address is ff:ff:ff:ff:ff:ff.
func (m MAC) IsBroadcast() bool {
	return m == MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// OUI is a 3-octet Organizationally Unique Identifier.
type OUI [3]byte

// ParseOUI accepts "XX:XX:XX", "XX-XX-XX" or "XXXXXX".
func ParseOUI(s string) (OUI, error) {
	var o OUI
	digits := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(s))
	if len(digits) != 6 {
		return o, &ValidationError{Field: "oui", Value: s, Err: ErrInvalidMAC}
	}
	if _, err := hex.Decode(o[:], []byte(digits)); err != nil {
		return OUI{}, &ValidationError{Field: "oui", Value: s, Err: ErrInvalidMAC}
	}
	return o, nil
}

// MustParseOUI is ParseOUI for compiled-in tables.
func MustParseOUI(s string) OUI {
	o, err := ParseOUI(s)
	if err != nil {
		panic(fmt.Sprintf("invalid OUI %q: %v", s, err))
	}
	return o
}

func (o OUI) String() string {
	return fmt.Sprintf("%02X:%02X:%02X", o[0], o[1], o[2])
}
