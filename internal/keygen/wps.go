package keygen

import (
	"fmt"
	"strconv"

	"github.com/wifibear/keybear/pkg/wifi"
)

// macPINDerive takes the low bits of the BSSID as the PIN payload
// (ComputePIN and its 28/32-bit variants).
func macPINDerive(bits uint) DeriveFunc {
	mask := uint64(1)<<bits - 1
	return func(id wifi.Identity) ([]Candidate, error) {
		payload := uint32((id.BSSID().Uint64() & mask) % wpsPayloadModulus)
		return []Candidate{candidate(WPSPIN(payload), fmt.Sprintf("low %d bits", bits))}, nil
	}
}

// dlinkPayload is the D-Link scheme over the NIC part of the MAC.
func dlinkPayload(nic uint32) uint32 {
	pin := nic ^ 0x55AA55
	low := pin & 0x0f
	pin ^= low<<4 + low<<8 + low<<12 + low<<16 + low<<20
	pin %= wpsPayloadModulus
	if pin < 1000000 {
		pin += (pin%9)*1000000 + 1000000
	}
	return pin
}

// dlinkDerive reads the NIC from BSSID+offset; many models compute the PIN
// from the WAN MAC one above the radio.
func dlinkDerive(offset int64) DeriveFunc {
	note := "bssid"
	if offset != 0 {
		note = fmt.Sprintf("bssid%+d", offset)
	}
	return func(id wifi.Identity) ([]Candidate, error) {
		nic := uint32(id.BSSID().Add(offset).Uint64() & 0xFFFFFF)
		return []Candidate{candidate(WPSPIN(dlinkPayload(nic)), note)}, nil
	}
}

func asusPayload(mac wifi.MAC) (uint32, error) {
	b := mac
	sum := int(b[1]) + int(b[2]) + int(b[3]) + int(b[4]) + int(b[5])

	digits := make([]byte, 7)
	for i := range digits {
		div := 10 - (i+sum)%7
		d := (int(b[i%6]) + int(b[5])) % div
		digits[i] = byte('0' + d)
	}

	v, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAlgorithmInternal, err)
	}
	return uint32(v), nil
}

func asusDerive(id wifi.Identity) ([]Candidate, error) {
	payload, err := asusPayload(id.BSSID())
	if err != nil {
		return nil, err
	}
	return []Candidate{candidate(WPSPIN(payload), "")}, nil
}
