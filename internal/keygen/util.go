package keygen

import (
	"fmt"
	"strconv"
	"strings"
)

const wpsPayloadModulus = 10000000

// WPSChecksum returns the checksum digit for a 7-digit WPS PIN payload:
// digits are weighted 3,1,3,1,... from the least significant one and the
// checksum brings the weighted sum to a multiple of ten.
func WPSChecksum(payload uint32) uint32 {
	var acc uint32
	for payload > 0 {
		acc += 3 * (payload % 10)
		payload /= 10
		acc += payload % 10
		payload /= 10
	}
	return (10 - acc%10) % 10
}

// WPSPIN reduces payload to seven digits and appends the checksum.
func WPSPIN(payload uint32) string {
	payload %= wpsPayloadModulus
	return fmt.Sprintf("%08d", payload*10+WPSChecksum(payload))
}

// ValidWPSPIN reports whether s is eight digits with a correct checksum.
func ValidWPSPIN(s string) bool {
	if len(s) != 8 {
		return false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return false
	}
	pin := uint32(n)
	return WPSChecksum(pin/10) == pin%10
}

// lookup indexes a static table, failing instead of panicking when a
// recipe computes an index outside it.
func lookup[T any](table []T, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(table) {
		return zero, fmt.Errorf("%w: index %d outside table of %d", ErrAlgorithmInternal, i, len(table))
	}
	return table[i], nil
}

// lookupString is lookup over the bytes of an alphabet string.
func lookupString(alphabet string, i int) (byte, error) {
	return lookup([]byte(alphabet), i)
}

// ssidSuffix strips prefix and checks the remainder is exactly n characters
// drawn from charset.
func ssidSuffix(ssid, prefix string, n int, charset string) (string, error) {
	if !strings.HasPrefix(ssid, prefix) {
		return "", malformedSSID("%q does not start with %q", ssid, prefix)
	}
	rest := ssid[len(prefix):]
	if len(rest) != n {
		return "", malformedSSID("%q: want %d characters after %q, got %d", ssid, n, prefix, len(rest))
	}
	for i := 0; i < len(rest); i++ {
		if !strings.ContainsRune(charset, rune(rest[i])) {
			return "", malformedSSID("%q: unexpected %q in suffix", ssid, rest[i])
		}
	}
	return rest, nil
}

const (
	hexDigits     = "0123456789abcdefABCDEF"
	decimalDigits = "0123456789"
)

// nibbles returns the value of each hex digit in s.
func nibbles(s string) ([]int, error) {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		v, err := strconv.ParseUint(s[i:i+1], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not hex", ErrAlgorithmInternal, s)
		}
		out[i] = int(v)
	}
	return out, nil
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
