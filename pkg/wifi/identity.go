package wifi

import "fmt"

// Identity is the broadcast identity of a discovered network: its SSID and
// BSSID. Fields are unexported so an Identity cannot change after
// construction; pass it by value.
type Identity struct {
	ssid  string
	bssid MAC
	valid bool
}

// NewIdentity builds an Identity from an already parsed BSSID.
// An empty ssid denotes a hidden network.
func NewIdentity(ssid string, bssid MAC) Identity {
	return Identity{ssid: ssid, bssid: bssid, valid: true}
}

// ParseIdentity parses bssid and builds an Identity.
func ParseIdentity(ssid, bssid string) (Identity, error) {
	mac, err := ParseMAC(bssid)
	if err != nil {
		return Identity{}, err
	}
	return NewIdentity(ssid, mac), nil
}

// SSID returns the network name, empty for hidden networks.
func (id Identity) SSID() string {
	return id.ssid
}

// BSSID returns the radio MAC address.
func (id Identity) BSSID() MAC {
	return id.bssid
}

// Hidden reports whether the SSID is absent.
func (id Identity) Hidden() bool {
	return id.ssid == ""
}

// Valid reports whether the Identity came from a constructor. The zero
// value is not valid because it carries no BSSID.
func (id Identity) Valid() bool {
	return id.valid
}

func (id Identity) String() string {
	ssid := id.ssid
	if ssid == "" {
		ssid = "<hidden>"
	}
	return fmt.Sprintf("%s [%s]", ssid, id.bssid)
}
