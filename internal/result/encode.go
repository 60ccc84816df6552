package result

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Encode writes reports as a list.
func Encode(w io.Writer, f Format, reports []Report) error {
	if reports == nil {
		reports = []Report{}
	}
	switch f {
	case FormatJSON:
		return encodeJSON(w, reports)
	case FormatYAML:
		return encodeYAML(w, reports)
	default:
		for i := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, Text(&reports[i])); err != nil {
				return err
			}
		}
		return nil
	}
}

// EncodeReport writes a single report as an object.
func EncodeReport(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, r)
	case FormatYAML:
		return encodeYAML(w, r)
	default:
		_, err := io.WriteString(w, Text(&r))
		return err
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Text renders a report for the terminal.
func Text(r *Report) string {
	var sb strings.Builder

	ssid := r.SSID
	if ssid == "" {
		ssid = "<hidden>"
	}
	sb.WriteString(fmt.Sprintf("%s [%s]", ssid, r.BSSID))
	if r.Encryption != "" {
		sb.WriteString(" " + r.Encryption)
	}
	sb.WriteString("\n")

	switch r.Outcome {
	case "no-match":
		sb.WriteString("  no known default key scheme for this network\n")
		return sb.String()
	case "no-candidates":
		sb.WriteString("  matched " + strings.Join(r.Matched, ", ") + " but no key could be derived\n")
	default:
		sb.WriteString("  matched: " + strings.Join(r.Matched, ", ") + "\n")
		sb.WriteString(fmt.Sprintf("  %-8s %-28s %-18s %-7s %s\n", "KIND", "KEY", "ALGORITHM", "CONF", "NOTE"))
		for _, c := range r.Candidates {
			conf := "exact"
			if c.Of > 1 {
				conf = fmt.Sprintf("1/%d", c.Of)
			}
			sb.WriteString(fmt.Sprintf("  %-8s %-28s %-18s %-7s %s\n", c.Kind, c.Value, c.Algorithm, conf, c.Note))
			if c.PSK != "" {
				sb.WriteString(fmt.Sprintf("  %-8s %s\n", "", "psk "+c.PSK))
			}
		}
	}

	for _, f := range r.Failures {
		sb.WriteString(fmt.Sprintf("  failed %s: %s\n", f.Algorithm, f.Error))
	}
	return sb.String()
}
