package keygen

import (
	"github.com/wifibear/keybear/internal/match"
	"github.com/wifibear/keybear/pkg/wifi"
)

// KeyKind is what a candidate unlocks.
type KeyKind int

const (
	KindUnknown KeyKind = iota
	KindWPA
	KindWEP
	KindWPSPIN
)

func (k KeyKind) String() string {
	switch k {
	case KindWPA:
		return "wpa"
	case KindWEP:
		return "wep"
	case KindWPSPIN:
		return "wps-pin"
	default:
		return "unknown"
	}
}

// Confidence is derived from how many keys an algorithm produced, not from
// any probability estimate.
type Confidence int

const (
	ConfidenceExact Confidence = iota
	ConfidenceOneOfN
)

func (c Confidence) String() string {
	if c == ConfidenceOneOfN {
		return "one-of-n"
	}
	return "exact"
}

// Candidate is one key the router may ship with.
type Candidate struct {
	Value      string
	Kind       KeyKind
	Confidence Confidence
	// Of is the number of keys the producing algorithm returned. It is
	// not reduced when the engine drops duplicates of its other keys.
	Of        int
	Algorithm match.AlgorithmID
	// Note carries the derivation input when it is not obvious, e.g. the
	// serial number or "bssid+1".
	Note string
}

// Run records one algorithm invocation.
type Run struct {
	Algorithm match.AlgorithmID
	Produced  int
	Err       error
}

func (r Run) Failed() bool {
	return r.Err != nil
}

// Outcome summarises a derivation for the presentation layer.
type Outcome int

const (
	OutcomeCandidates Outcome = iota
	OutcomeNoMatch
	OutcomeNoCandidates
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeNoCandidates:
		return "no-candidates"
	default:
		return "candidates"
	}
}

// Result is the product of one Generate call. The caller owns it.
type Result struct {
	Identity   wifi.Identity
	Matched    []match.AlgorithmID
	Candidates []Candidate
	Runs       []Run
	Outcome    Outcome
}

// Empty reports whether no candidate key is available.
func (r *Result) Empty() bool {
	return len(r.Candidates) == 0
}

// Failures returns the runs that recorded an error.
func (r *Result) Failures() []Run {
	var failed []Run
	for _, run := range r.Runs {
		if run.Failed() {
			failed = append(failed, run)
		}
	}
	return failed
}

// Err expresses the outcome as an error for callers that prefer errors.Is.
// It is nil when candidates exist.
func (r *Result) Err() error {
	switch r.Outcome {
	case OutcomeNoMatch:
		return ErrNoMatch
	case OutcomeNoCandidates:
		return ErrNoCandidates
	default:
		return nil
	}
}

// ByKind filters candidates by kind, keeping order.
func (r *Result) ByKind(kind KeyKind) []Candidate {
	var out []Candidate
	for _, c := range r.Candidates {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
