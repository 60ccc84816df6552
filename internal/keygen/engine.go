// Package keygen derives candidate factory-default keys (WPA passphrases,
// WEP keys, WPS PINs) from a network's SSID and BSSID.
//
// Every function here is pure: an Engine holds only immutable tables and is
// safe to share between goroutines.
package keygen

import (
	"fmt"

	"github.com/wifibear/keybear/internal/match"
	"github.com/wifibear/keybear/pkg/wifi"
)

// Engine matches an identity against the vendor table and runs every
// matching algorithm.
type Engine struct {
	matcher  *match.Matcher
	registry *Registry
}

// Option customises an Engine at construction.
type Option func(*engineOptions)

type engineOptions struct {
	signatures []match.Signature
	algorithms []Algorithm
}

// WithSignatures replaces the built-in vendor table.
func WithSignatures(sigs []match.Signature) Option {
	return func(o *engineOptions) { o.signatures = sigs }
}

// WithAlgorithms replaces the built-in algorithm catalogue.
func WithAlgorithms(algs []Algorithm) Option {
	return func(o *engineOptions) { o.algorithms = algs }
}

// NewEngine builds and freezes the tables. Each signature must name a
// registered algorithm.
func NewEngine(opts ...Option) (*Engine, error) {
	o := engineOptions{
		signatures: DefaultSignatures(),
		algorithms: DefaultAlgorithms(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := NewRegistry(o.algorithms...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	for _, sig := range o.signatures {
		if _, ok := registry.Get(sig.Algorithm); !ok {
			return nil, fmt.Errorf("signature %s: unknown algorithm %s", sig.ID, sig.Algorithm)
		}
	}

	matcher, err := match.NewMatcher(o.signatures)
	if err != nil {
		return nil, fmt.Errorf("build matcher: %w", err)
	}

	return &Engine{matcher: matcher, registry: registry}, nil
}

// MustNewEngine is NewEngine for the compiled-in tables.
func MustNewEngine(opts ...Option) *Engine {
	e, err := NewEngine(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Matcher exposes the frozen vendor table.
func (e *Engine) Matcher() *match.Matcher {
	return e.matcher
}

// Algorithm looks up one registered algorithm for direct invocation.
func (e *Engine) Algorithm(id match.AlgorithmID) (Algorithm, bool) {
	return e.registry.Get(id)
}

// Algorithms lists the registered algorithms in catalogue order.
func (e *Engine) Algorithms() []Algorithm {
	return e.registry.All()
}

// GenerateString is the input boundary: it validates bssid and then
// behaves like Generate. A malformed MAC is rejected with
// *InvalidIdentityError before any algorithm runs.
func (e *Engine) GenerateString(ssid, bssid string) (*Result, error) {
	id, err := wifi.ParseIdentity(ssid, bssid)
	if err != nil {
		return nil, &InvalidIdentityError{Value: bssid, Err: err}
	}
	return e.Generate(id)
}

// Generate runs every matching algorithm against id. Per-algorithm failures
// are recorded in the result; the only returned error is an invalid
// identity. Candidates keep matcher order and duplicates are dropped; the
// survivors keep the Of and Confidence their algorithm assigned.
func (e *Engine) Generate(id wifi.Identity) (*Result, error) {
	if !id.Valid() {
		return nil, &InvalidIdentityError{Value: id.BSSID().String()}
	}

	res := &Result{
		Identity: id,
		Matched:  e.matcher.Match(id),
	}
	if len(res.Matched) == 0 {
		res.Outcome = OutcomeNoMatch
		return res, nil
	}

	type key struct {
		value string
		kind  KeyKind
	}
	seen := make(map[key]bool)

	for _, algID := range res.Matched {
		run := Run{Algorithm: algID}

		alg, ok := e.registry.Get(algID)
		if !ok {
			run.Err = &AlgorithmError{Algorithm: algID, Err: fmt.Errorf("%w: not registered", ErrAlgorithmInternal)}
			res.Runs = append(res.Runs, run)
			continue
		}

		candidates, err := alg.Derive(id)
		if err != nil {
			run.Err = &AlgorithmError{Algorithm: algID, Err: err}
			res.Runs = append(res.Runs, run)
			continue
		}

		run.Produced = len(candidates)
		for _, c := range candidates {
			k := key{value: c.Value, kind: c.Kind}
			if seen[k] {
				continue
			}
			seen[k] = true
			res.Candidates = append(res.Candidates, c)
		}
		res.Runs = append(res.Runs, run)
	}

	if len(res.Candidates) == 0 {
		res.Outcome = OutcomeNoCandidates
	}
	return res, nil
}
