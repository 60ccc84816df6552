package scan

import (
	"strings"

	"github.com/wifibear/keybear/pkg/wifi"
)

// Filter narrows an import. Zero fields match everything.
type Filter struct {
	SSIDPrefix string
	Encryption wifi.EncryptionType
	WPSOnly    bool
	MinPower   int
}

func (f Filter) Match(n Network) bool {
	if f.SSIDPrefix != "" && !strings.HasPrefix(n.Identity.SSID(), f.SSIDPrefix) {
		return false
	}
	if f.Encryption != wifi.EncUnknown && n.Encryption != f.Encryption {
		return false
	}
	if f.WPSOnly && !n.WPS {
		return false
	}
	// Power 0 means the source did not report it.
	if f.MinPower != 0 && (n.Power == 0 || n.Power < f.MinPower) {
		return false
	}
	return true
}

// FilterNetworks keeps the networks f matches, preserving order.
func FilterNetworks(nets []Network, f Filter) []Network {
	var filtered []Network
	for _, n := range nets {
		if f.Match(n) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
