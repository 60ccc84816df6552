// Package match classifies a network identity against a frozen table of
// vendor signatures and returns the algorithms worth running, most specific
// first.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wifibear/keybear/pkg/wifi"
)

// AlgorithmID names a key derivation algorithm.
type AlgorithmID string

// RuleKind selects how a signature compares the SSID.
type RuleKind int

const (
	RuleNone RuleKind = iota
	RulePrefix
	RulePattern
	RuleExact
)

func (k RuleKind) String() string {
	switch k {
	case RuleExact:
		return "exact"
	case RulePattern:
		return "pattern"
	case RulePrefix:
		return "prefix"
	default:
		return "none"
	}
}

// Tier orders matches. Higher is more specific.
type Tier int

const (
	TierNone Tier = iota
	TierOUI
	TierPrefix
	TierPattern
	TierExact
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPattern:
		return "pattern"
	case TierPrefix:
		return "prefix"
	case TierOUI:
		return "oui"
	default:
		return "none"
	}
}

// SSIDRule is one SSID comparison. Exact and prefix rules compare bytes
// verbatim; patterns are anchored regular expressions.
type SSIDRule struct {
	Kind  RuleKind
	Value string

	re *regexp.Regexp
}

func Exact(s string) SSIDRule  { return SSIDRule{Kind: RuleExact, Value: s} }
func Prefix(s string) SSIDRule { return SSIDRule{Kind: RulePrefix, Value: s} }

// Pattern compiles expr, anchoring it at both ends.
func Pattern(expr string) SSIDRule {
	return SSIDRule{Kind: RulePattern, Value: expr}
}

func (r *SSIDRule) compile() error {
	if r.Kind != RulePattern {
		return nil
	}
	expr := r.Value
	if !strings.HasPrefix(expr, "^") {
		expr = "^" + expr
	}
	if !strings.HasSuffix(expr, "$") {
		expr += "$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", r.Value, err)
	}
	r.re = re
	return nil
}

func (r SSIDRule) matches(ssid string) bool {
	if ssid == "" {
		return false
	}
	switch r.Kind {
	case RuleExact:
		return ssid == r.Value
	case RulePrefix:
		return strings.HasPrefix(ssid, r.Value)
	case RulePattern:
		return r.re != nil && r.re.MatchString(ssid)
	default:
		return false
	}
}

func (r SSIDRule) tier() Tier {
	switch r.Kind {
	case RuleExact:
		return TierExact
	case RulePattern:
		return TierPattern
	case RulePrefix:
		return TierPrefix
	default:
		return TierNone
	}
}

func (r SSIDRule) String() string {
	if r.Kind == RuleNone {
		return "-"
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.Value)
}

// Signature ties an SSID rule and/or a set of manufacturer OUIs to one
// algorithm. With RequireOUI set, the SSID rule only counts when the BSSID
// also falls inside OUIs.
type Signature struct {
	ID         string
	SSID       SSIDRule
	OUIs       []wifi.OUI
	RequireOUI bool
	Algorithm  AlgorithmID
}

func (s Signature) hasOUI(o wifi.OUI) bool {
	for _, candidate := range s.OUIs {
		if candidate == o {
			return true
		}
	}
	return false
}

// tier returns how specifically the signature matches id, or TierNone.
func (s Signature) tier(id wifi.Identity) Tier {
	ouiHit := s.hasOUI(id.BSSID().OUI())

	if s.SSID.Kind != RuleNone && s.SSID.matches(id.SSID()) {
		if !s.RequireOUI || ouiHit {
			return s.SSID.tier()
		}
		return TierNone
	}

	if ouiHit && !s.RequireOUI {
		return TierOUI
	}
	return TierNone
}
