package scan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wifibear/keybear/pkg/wifi"
)

// airodump-ng CSV access point columns.
const (
	colBSSID     = 0
	colFirstSeen = 1
	colLastSeen  = 2
	colChannel   = 3
	colPrivacy   = 5
	colPower     = 8
	colBeacons   = 9
	colESSID     = 13
	apColumns    = 14
)

// ParseAirodumpCSV reads the access point section of an airodump-ng CSV
// dump. The station section is ignored. Rows that cannot be parsed are
// reported as skipped.
func ParseAirodumpCSV(r io.Reader) ([]Network, []SkipError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		networks []Network
		skipped  []SkipError
		inAPs    bool
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped = append(skipped, SkipError{Record: perr.Line, Err: err})
				continue
			}
			return networks, skipped, fmt.Errorf("read airodump csv: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		line, _ := reader.FieldPos(0)

		first := strings.TrimSpace(record[0])
		switch first {
		case "":
			continue
		case "BSSID":
			inAPs = true
			continue
		case "Station MAC":
			inAPs = false
			continue
		}
		if !inAPs {
			continue
		}

		n, err := parseAccessPoint(record)
		if err != nil {
			skipped = append(skipped, SkipError{Record: line, Err: err})
			continue
		}
		networks = append(networks, n)
	}

	return networks, skipped, nil
}

func parseAccessPoint(record []string) (Network, error) {
	if len(record) < apColumns {
		return Network{}, fmt.Errorf("want %d columns, got %d", apColumns, len(record))
	}

	field := func(i int) string { return strings.TrimSpace(record[i]) }

	id, err := wifi.ParseIdentity(airodumpESSID(field(colESSID)), field(colBSSID))
	if err != nil {
		return Network{}, err
	}

	channel, _ := strconv.Atoi(field(colChannel))
	power, _ := strconv.Atoi(field(colPower))
	beacons, _ := strconv.Atoi(field(colBeacons))

	return Network{
		Identity:   id,
		Channel:    channel,
		Power:      power,
		Encryption: wifi.ParseEncryption(field(colPrivacy)),
		Beacons:    beacons,
		FirstSeen:  parseAirodumpTime(field(colFirstSeen)),
		LastSeen:   parseAirodumpTime(field(colLastSeen)),
	}, nil
}

// airodumpESSID maps the ways airodump-ng writes a hidden ESSID to "".
func airodumpESSID(s string) string {
	switch {
	case strings.Trim(s, "\x00") == "":
		return ""
	case strings.HasPrefix(s, `\x00`):
		return ""
	case strings.HasPrefix(s, "<length:"):
		return ""
	}
	return s
}

func parseAirodumpTime(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}
