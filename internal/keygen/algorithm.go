package keygen

import (
	"fmt"

	"github.com/wifibear/keybear/internal/match"
	"github.com/wifibear/keybear/pkg/wifi"
)

// Family groups algorithms by how they derive keys.
type Family int

const (
	FamilyMACHash Family = iota
	FamilySSIDSerial
	FamilyTableLookup
	FamilyWPSPin
)

func (f Family) String() string {
	switch f {
	case FamilyMACHash:
		return "mac-hash"
	case FamilySSIDSerial:
		return "ssid-serial"
	case FamilyTableLookup:
		return "table-lookup"
	case FamilyWPSPin:
		return "wps-pin"
	default:
		return "unknown"
	}
}

// Input is a bit set of the identity fields an algorithm reads.
type Input uint8

const (
	InputSSID Input = 1 << iota
	InputBSSID
)

func (in Input) String() string {
	switch in {
	case InputSSID:
		return "ssid"
	case InputBSSID:
		return "bssid"
	case InputSSID | InputBSSID:
		return "ssid+bssid"
	default:
		return "none"
	}
}

// DeriveFunc computes candidates from an identity. It must be pure.
type DeriveFunc func(id wifi.Identity) ([]Candidate, error)

// Algorithm is one vendor recipe. The zero value is unusable; build with
// NewAlgorithm.
type Algorithm struct {
	ID       match.AlgorithmID
	Name     string
	Family   Family
	Kind     KeyKind
	Requires Input

	derive DeriveFunc
}

func NewAlgorithm(id match.AlgorithmID, name string, family Family, kind KeyKind, requires Input, fn DeriveFunc) Algorithm {
	return Algorithm{
		ID:       id,
		Name:     name,
		Family:   family,
		Kind:     kind,
		Requires: requires,
		derive:   fn,
	}
}

// Derive checks preconditions, runs the recipe and stamps the candidates
// with kind, confidence and algorithm id. A panic inside the recipe is
// reported as ErrAlgorithmInternal.
func (a Algorithm) Derive(id wifi.Identity) (candidates []Candidate, err error) {
	if a.derive == nil {
		return nil, fmt.Errorf("%w: %s has no derivation", ErrAlgorithmInternal, a.ID)
	}
	if !id.Valid() {
		return nil, ErrMalformedBSSID
	}
	if a.Requires&InputSSID != 0 && id.Hidden() {
		return nil, fmt.Errorf("%w: %s needs the SSID", ErrMissingInput, a.ID)
	}

	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = fmt.Errorf("%w: %v", ErrAlgorithmInternal, r)
		}
	}()

	candidates, err = a.derive(id)
	if err != nil {
		return nil, err
	}

	confidence := ConfidenceExact
	if len(candidates) > 1 {
		confidence = ConfidenceOneOfN
	}
	for i := range candidates {
		if candidates[i].Kind == KindUnknown {
			candidates[i].Kind = a.Kind
		}
		candidates[i].Confidence = confidence
		candidates[i].Of = len(candidates)
		candidates[i].Algorithm = a.ID
	}
	return candidates, nil
}

// Registry indexes algorithms by id and remembers registration order.
type Registry struct {
	byID  map[match.AlgorithmID]Algorithm
	order []match.AlgorithmID
}

func NewRegistry(algorithms ...Algorithm) (*Registry, error) {
	r := &Registry{byID: make(map[match.AlgorithmID]Algorithm, len(algorithms))}
	for _, a := range algorithms {
		if a.ID == "" {
			return nil, fmt.Errorf("algorithm %q: missing id", a.Name)
		}
		if a.derive == nil {
			return nil, fmt.Errorf("algorithm %s: missing derivation", a.ID)
		}
		if _, dup := r.byID[a.ID]; dup {
			return nil, fmt.Errorf("algorithm %s: registered twice", a.ID)
		}
		r.byID[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r, nil
}

func (r *Registry) Get(id match.AlgorithmID) (Algorithm, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// All returns the algorithms in registration order.
func (r *Registry) All() []Algorithm {
	out := make([]Algorithm, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// candidate is shorthand used by the recipes.
func candidate(value, note string) Candidate {
	return Candidate{Value: value, Note: note}
}
