package result

import (
	"github.com/wifibear/keybear/internal/keygen"
	"github.com/wifibear/keybear/pkg/wifi"
)

// Report is the serialisable form of a derivation result.
type Report struct {
	SSID       string      `json:"ssid" yaml:"ssid"`
	BSSID      string      `json:"bssid" yaml:"bssid"`
	Encryption string      `json:"encryption,omitempty" yaml:"encryption,omitempty"`
	Outcome    string      `json:"outcome" yaml:"outcome"`
	Matched    []string    `json:"matched,omitempty" yaml:"matched,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Failures   []Failure   `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Candidate is one key in a Report.
type Candidate struct {
	Value      string `json:"value" yaml:"value"`
	Kind       string `json:"kind" yaml:"kind"`
	Confidence string `json:"confidence" yaml:"confidence"`
	Of         int    `json:"of" yaml:"of"`
	Algorithm  string `json:"algorithm" yaml:"algorithm"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`
	PSK        string `json:"psk,omitempty" yaml:"psk,omitempty"`
}

// Failure is an algorithm that matched but could not produce a key.
type Failure struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Error     string `json:"error" yaml:"error"`
}

// Options controls report construction.
type Options struct {
	// PSK adds the hex WPA pre-shared key to every WPA candidate that is a
	// valid passphrase for the network's SSID.
	PSK bool

	Encryption wifi.EncryptionType
}

func NewReport(res *keygen.Result, opts Options) Report {
	r := Report{
		SSID:    res.Identity.SSID(),
		BSSID:   res.Identity.BSSID().String(),
		Outcome: res.Outcome.String(),
	}
	if opts.Encryption != wifi.EncUnknown {
		r.Encryption = opts.Encryption.String()
	}

	for _, id := range res.Matched {
		r.Matched = append(r.Matched, string(id))
	}

	for _, c := range res.Candidates {
		rc := Candidate{
			Value:      c.Value,
			Kind:       c.Kind.String(),
			Confidence: c.Confidence.String(),
			Of:         c.Of,
			Algorithm:  string(c.Algorithm),
			Note:       c.Note,
		}
		if opts.PSK && c.Kind == keygen.KindWPA {
			if psk, ok := wifi.PSK(c.Value, r.SSID); ok {
				rc.PSK = psk
			}
		}
		r.Candidates = append(r.Candidates, rc)
	}

	for _, run := range res.Failures() {
		r.Failures = append(r.Failures, Failure{
			Algorithm: string(run.Algorithm),
			Error:     run.Err.Error(),
		})
	}
	return r
}

// Found reports whether the report carries at least one key.
func (r *Report) Found() bool {
	return len(r.Candidates) > 0
}
