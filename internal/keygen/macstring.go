package keygen

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/wifibear/keybear/pkg/wifi"
)

// Vendors below print (part of) the MAC as the key, optionally after a
// fixed transform.

func tplinkDerive(id wifi.Identity) ([]Candidate, error) {
	return []Candidate{candidate(id.BSSID().Hex()[4:], "")}, nil
}

func infostradaDerive(id wifi.Identity) ([]Candidate, error) {
	return []Candidate{candidate("2"+id.BSSID().Hex(), "")}, nil
}

func oteDerive(id wifi.Identity) ([]Candidate, error) {
	return []Candidate{candidate(strings.ToLower(id.BSSID().Hex()), "")}, nil
}

func megaredDerive(id wifi.Identity) ([]Candidate, error) {
	return []Candidate{candidate(id.BSSID().Hex()[2:], "")}, nil
}

// tecomDerive returns the 104-bit WEP key Tecom AH4021/AH4222 derive from
// the SSID text.
func tecomDerive(id wifi.Identity) ([]Candidate, error) {
	h := sha1.Sum([]byte(id.SSID()))
	return []Candidate{candidate(hex.EncodeToString(h[:])[:26], "")}, nil
}

const comtrendSeed = "bcgbghgg"

// comtrendDerive covers Comtrend gateways shipped as WLAN_XXXX / JAZZTEL_XXXX:
// MD5 over the seed, the first four MAC octets, the SSID suffix and the MAC.
func comtrendDerive(id wifi.Identity) ([]Candidate, error) {
	ssid := id.SSID()
	sep := strings.LastIndexByte(ssid, '_')
	if sep < 0 {
		return nil, malformedSSID("%q: no _XXXX suffix", ssid)
	}
	suffix, err := ssidSuffix(ssid, ssid[:sep+1], 4, hexDigits)
	if err != nil {
		return nil, err
	}

	mac := id.BSSID().Hex()
	h := md5.Sum([]byte(comtrendSeed + mac[:8] + strings.ToUpper(suffix) + mac))
	return []Candidate{candidate(hex.EncodeToString(h[:])[:20], "")}, nil
}

const skyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// skyV1Derive covers SKYxxxxx routers: MD5 of the MAC, odd digest bytes
// folded into A-Z.
func skyV1Derive(id wifi.Identity) ([]Candidate, error) {
	h := md5.Sum([]byte(id.BSSID().Hex()))

	key := make([]byte, 0, 8)
	for i := 1; i < len(h); i += 2 {
		c, err := lookupString(skyAlphabet, int(h[i])%len(skyAlphabet))
		if err != nil {
			return nil, err
		}
		key = append(key, c)
	}
	return []Candidate{candidate(string(key), "")}, nil
}
