package wifi

import "strings"

type EncryptionType int

const (
	EncUnknown EncryptionType = iota
	EncOpen
	EncWEP
	EncWPA
	EncWPA2
	EncWPA3
)

func (e EncryptionType) String() string {
	switch e {
	case EncOpen:
		return "Open"
	case EncWEP:
		return "WEP"
	case EncWPA:
		return "WPA"
	case EncWPA2:
		return "WPA2"
	case EncWPA3:
		return "WPA3"
	default:
		return "Unknown"
	}
}

// ParseEncryption maps airodump-ng privacy strings ("WPA2 WPA", "WEP", "OPN")
// onto the strongest advertised scheme.
func ParseEncryption(s string) EncryptionType {
	s = strings.ToUpper(s)
	switch {
	case strings.Contains(s, "WPA3"), strings.Contains(s, "SAE"):
		return EncWPA3
	case strings.Contains(s, "WPA2"):
		return EncWPA2
	case strings.Contains(s, "WPA"):
		return EncWPA
	case strings.Contains(s, "WEP"):
		return EncWEP
	case strings.Contains(s, "OPN"):
		return EncOpen
	default:
		return EncUnknown
	}
}
