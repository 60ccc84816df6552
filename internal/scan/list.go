package scan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wifibear/keybear/pkg/wifi"
)

// ParseList reads one network per line as "ssid,bssid". A line holding only
// a MAC is a hidden network. Quoting follows CSV so SSIDs may contain
// commas; lines starting with # are comments and an "ssid,bssid" header is
// ignored.
func ParseList(r io.Reader) ([]Network, []SkipError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.LazyQuotes = true

	var (
		networks []Network
		skipped  []SkipError
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
			return networks, skipped, fmt.Errorf("read network list: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		line, _ := reader.FieldPos(0)

		var ssid, bssid string
		switch len(record) {
		case 1:
			bssid = record[0]
		case 2:
			ssid, bssid = record[0], record[1]
		default:
			skipped = append(skipped, SkipError{Record: line, Err: fmt.Errorf("want 2 fields, got %d", len(record))})
			continue
		}
		bssid = strings.TrimSpace(bssid)
		if strings.EqualFold(bssid, "bssid") {
			continue
		}
		if bssid == "" && strings.TrimSpace(ssid) == "" {
			continue
		}

		id, err := wifi.ParseIdentity(ssid, bssid)
		if err != nil {
			skipped = append(skipped, SkipError{Record: line, Err: err})
			continue
		}
		networks = append(networks, Network{Identity: id, Encryption: wifi.EncUnknown})
	}
	return networks, skipped, nil
}
