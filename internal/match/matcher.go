package match

import (
	"fmt"
	"sort"

	"github.com/wifibear/keybear/pkg/wifi"
)

// Hit records one signature matching an identity.
type Hit struct {
	Signature Signature
	Tier      Tier
}

// Matcher holds a frozen signature table. It is safe for concurrent use:
// nothing mutates the table after NewMatcher returns.
type Matcher struct {
	signatures []Signature
}

// NewMatcher validates and freezes signatures. The slice is copied so later
// changes by the caller do not leak in.
func NewMatcher(signatures []Signature) (*Matcher, error) {
	frozen := make([]Signature, len(signatures))
	seen := make(map[string]bool, len(signatures))

	for i, sig := range signatures {
		if sig.ID == "" {
			return nil, fmt.Errorf("signature %d: missing id", i)
		}
		if seen[sig.ID] {
			return nil, fmt.Errorf("signature %s: duplicate id", sig.ID)
		}
		seen[sig.ID] = true

		if sig.Algorithm == "" {
			return nil, fmt.Errorf("signature %s: missing algorithm", sig.ID)
		}
		if sig.SSID.Kind == RuleNone && len(sig.OUIs) == 0 {
			return nil, fmt.Errorf("signature %s: needs an SSID rule or OUIs", sig.ID)
		}
		if sig.RequireOUI && (sig.SSID.Kind == RuleNone || len(sig.OUIs) == 0) {
			return nil, fmt.Errorf("signature %s: RequireOUI needs both an SSID rule and OUIs", sig.ID)
		}
		if err := sig.SSID.compile(); err != nil {
			return nil, fmt.Errorf("signature %s: %w", sig.ID, err)
		}

		sig.OUIs = append([]wifi.OUI(nil), sig.OUIs...)
		frozen[i] = sig
	}

	return &Matcher{signatures: frozen}, nil
}

// MustNewMatcher panics on an invalid table. Meant for compiled-in tables.
func MustNewMatcher(signatures []Signature) *Matcher {
	m, err := NewMatcher(signatures)
	if err != nil {
		panic(err)
	}
	return m
}

// Explain returns every matching signature, most specific tier first and
// table order inside a tier.
func (m *Matcher) Explain(id wifi.Identity) []Hit {
	var hits []Hit
	for _, sig := range m.signatures {
		if tier := sig.tier(id); tier != TierNone {
			hits = append(hits, Hit{Signature: sig, Tier: tier})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Tier > hits[j].Tier
	})
	return hits
}

// Match returns the algorithms to try for id, most specific first, each
// listed once. An empty result means no vendor is known; it is not an error.
func (m *Matcher) Match(id wifi.Identity) []AlgorithmID {
	hits := m.Explain(id)
	if len(hits) == 0 {
		return nil
	}

	ids := make([]AlgorithmID, 0, len(hits))
	seen := make(map[AlgorithmID]bool, len(hits))
	for _, h := range hits {
		if seen[h.Signature.Algorithm] {
			continue
		}
		seen[h.Signature.Algorithm] = true
		ids = append(ids, h.Signature.Algorithm)
	}
	return ids
}

// Signatures returns a copy of the table.
func (m *Matcher) Signatures() []Signature {
	out := make([]Signature, len(m.signatures))
	for i, sig := range m.signatures {
		sig.OUIs = append([]wifi.OUI(nil), sig.OUIs...)
		out[i] = sig
	}
	return out
}
