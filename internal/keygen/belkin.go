package keygen

import (
	"github.com/wifibear/keybear/pkg/wifi"
)

const (
	belkinUpperCharset = "024613578ACE9BDF"
	belkinLowerCharset = "944626378ace9bdf"
)

// belkinOrder selects which of the last eight MAC digits feeds each key
// position (1-based).
var belkinOrder = []int{6, 2, 3, 8, 5, 1, 7, 4}

// belkinOffsets are the interface offsets tried: the radio MAC itself and
// the WAN MAC one above it.
var belkinOffsets = []struct {
	delta int64
	note  string
}{
	{0, "bssid"},
	{1, "bssid+1"},
}

func belkinKey(mac wifi.MAC, charset string) (string, error) {
	tail := mac.Hex()[4:]
	digits, err := nibbles(tail)
	if err != nil {
		return "", err
	}

	key := make([]byte, len(belkinOrder))
	for i, pos := range belkinOrder {
		d, err := lookup(digits, pos-1)
		if err != nil {
			return "", err
		}
		c, err := lookupString(charset, d)
		if err != nil {
			return "", err
		}
		key[i] = c
	}
	return string(key), nil
}

func belkinDerive(charset string) DeriveFunc {
	return func(id wifi.Identity) ([]Candidate, error) {
		out := make([]Candidate, 0, len(belkinOffsets))
		for _, off := range belkinOffsets {
			key, err := belkinKey(id.BSSID().Add(off.delta), charset)
			if err != nil {
				return nil, err
			}
			out = append(out, candidate(key, off.note))
		}
		return out, nil
	}
}
