package keygen

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/wifibear/keybear/pkg/wifi"
)

// fastwebSeed is appended to the MAC before hashing on Pirelli Fastweb gateways.
var fastwebSeed = []byte{
	0x22, 0x33, 0x11, 0x34, 0x02, 0x81, 0xFA, 0x22, 0x11, 0x41,
	0x68, 0x11, 0x12, 0x01, 0x05, 0x22, 0x71, 0x42, 0x10, 0x66,
}

const fastwebPrefix = "FASTWEB-1-"

// fastwebKey derives the 10 character WPA key from the radio MAC that the
// gateway embeds in its SSID.
func fastwebKey(mac wifi.MAC) string {
	msg := make([]byte, 0, len(mac)+len(fastwebSeed))
	msg = append(msg, mac[:]...)
	msg = append(msg, fastwebSeed...)
	h := md5.Sum(msg)

	// First 25 bits in five 5-bit groups.
	groups := [5]byte{
		(h[0] >> 3) & 0x1f,
		(h[0]&0x07)<<2 | (h[1]>>6)&0x03,
		(h[1] >> 1) & 0x1f,
		(h[1]&0x01)<<4 | (h[2]>>4)&0x0f,
		(h[2]&0x0f)<<1 | (h[3]>>7)&0x01,
	}
	for i, g := range groups {
		if g >= 0x0A {
			groups[i] = g + 0x57
		}
	}
	return hex.EncodeToString(groups[:])
}

func fastwebDerive(id wifi.Identity) ([]Candidate, error) {
	suffix, err := ssidSuffix(id.SSID(), fastwebPrefix, 12, hexDigits)
	if err != nil {
		return nil, err
	}
	mac, err := wifi.ParseMAC(suffix)
	if err != nil {
		return nil, malformedSSID("%q: %v", id.SSID(), err)
	}
	return []Candidate{candidate(fastwebKey(mac), "mac "+mac.String())}, nil
}

const (
	discusPrefix = "Discus--"
	discusBase   = 0xD0EC31
)

// discusDerive handles Pirelli Discus DRG A225: the SSID suffix is a
// linear function of the key number.
func discusDerive(id wifi.Identity) ([]Candidate, error) {
	suffix, err := ssidSuffix(id.SSID(), discusPrefix, 6, hexDigits)
	if err != nil {
		return nil, err
	}
	v, err := strconv.ParseInt(suffix, 16, 32)
	if err != nil {
		return nil, malformedSSID("%q: %v", id.SSID(), err)
	}
	if v < discusBase {
		return nil, malformedSSID("%q: suffix below the Discus range", id.SSID())
	}
	return []Candidate{candidate(fmt.Sprintf("YW0%d", (v-discusBase)>>2), "")}, nil
}
