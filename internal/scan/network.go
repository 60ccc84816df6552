// Package scan imports network identities from offline sources: airodump-ng
// CSV dumps, pcap/pcapng captures and plain ssid,bssid lists.
package scan

import (
	"sort"
	"sync"
	"time"

	"github.com/wifibear/keybear/pkg/wifi"
)

// Network is one access point as seen by an import source.
type Network struct {
	Identity   wifi.Identity
	Channel    int
	Power      int
	Encryption wifi.EncryptionType
	WPS        bool
	Beacons    int
	FirstSeen  time.Time
	LastSeen   time.Time
}

// NetworkDB is a thread-safe set of networks keyed by BSSID.
type NetworkDB struct {
	networks map[wifi.MAC]*Network
	order    []wifi.MAC
	mu       sync.RWMutex
}

func NewNetworkDB() *NetworkDB {
	return &NetworkDB{
		networks: make(map[wifi.MAC]*Network),
	}
}

// Update adds n or merges it into the entry with the same BSSID. A hidden
// entry learns its SSID from a later sighting; a known SSID is never
// overwritten by a hidden one.
func (db *NetworkDB) Update(n Network) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := n.Identity.BSSID()
	cur, exists := db.networks[key]
	if !exists {
		stored := n
		if stored.Beacons == 0 {
			stored.Beacons = 1
		}
		db.networks[key] = &stored
		db.order = append(db.order, key)
		return
	}

	if cur.Identity.Hidden() && !n.Identity.Hidden() {
		cur.Identity = n.Identity
	}
	if n.Channel != 0 {
		cur.Channel = n.Channel
	}
	if n.Power != 0 {
		cur.Power = n.Power
	}
	if n.Encryption != wifi.EncUnknown {
		cur.Encryption = n.Encryption
	}
	if n.WPS {
		cur.WPS = true
	}
	if n.Beacons > 0 {
		cur.Beacons += n.Beacons
	} else {
		cur.Beacons++
	}
	if !n.FirstSeen.IsZero() && (cur.FirstSeen.IsZero() || n.FirstSeen.Before(cur.FirstSeen)) {
		cur.FirstSeen = n.FirstSeen
	}
	if n.LastSeen.After(cur.LastSeen) {
		cur.LastSeen = n.LastSeen
	}
}

// Get returns a copy of the network with the given BSSID.
func (db *NetworkDB) Get(bssid wifi.MAC) (Network, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	n, ok := db.networks[bssid]
	if !ok {
		return Network{}, false
	}
	return *n, true
}

// Networks returns copies of all networks in first-seen order.
func (db *NetworkDB) Networks() []Network {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]Network, 0, len(db.order))
	for _, key := range db.order {
		out = append(out, *db.networks[key])
	}
	return out
}

// Strongest returns the networks sorted by signal strength, strongest
// first. A zero power is an unknown reading and sorts last; ties keep
// first-seen order.
func (db *NetworkDB) Strongest() []Network {
	out := db.Networks()
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Power, out[j].Power
		if pi == 0 || pj == 0 {
			return pj == 0 && pi != 0
		}
		// Higher power (less negative) = stronger signal
		return pi > pj
	})
	return out
}

func (db *NetworkDB) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.networks)
}
