package scan

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wifibear/keybear/pkg/wifi"
)

// Format is an import source layout.
type Format int

const (
	FormatAuto Format = iota
	FormatAirodump
	FormatPcap
	FormatPcapNG
	FormatList
)

func (f Format) String() string {
	switch f {
	case FormatAirodump:
		return "airodump-csv"
	case FormatPcap:
		return "pcap"
	case FormatPcapNG:
		return "pcapng"
	case FormatList:
		return "list"
	default:
		return "auto"
	}
}

// ParseFormat maps a --format flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "auto":
		return FormatAuto, nil
	case "airodump", "airodump-csv", "csv":
		return FormatAirodump, nil
	case "pcap", "cap":
		return FormatPcap, nil
	case "pcapng":
		return FormatPcapNG, nil
	case "list", "txt":
		return FormatList, nil
	}
	return FormatAuto, fmt.Errorf("unknown import format %q", s)
}

// DetectFormat guesses the layout from the first bytes of a source.
func DetectFormat(head []byte) Format {
	switch {
	case isPcapNGMagic(head):
		return FormatPcapNG
	case isPcapMagic(head):
		return FormatPcap
	case bytes.Contains(head, []byte("BSSID, First time seen")):
		return FormatAirodump
	default:
		return FormatList
	}
}

// SkipError is a record an import could not use. Record is the line number
// for text sources and the frame number for captures.
type SkipError struct {
	Record int
	Err    error
}

func (e SkipError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Record, e.Err)
}

func (e SkipError) Unwrap() error {
	return e.Err
}

// Order is the order of Import.Networks.
type Order int

const (
	// OrderSeen keeps networks in first-seen order.
	OrderSeen Order = iota
	// OrderPower puts the strongest signal first. Networks without a
	// reading sort after every measured one.
	OrderPower
)

func (o Order) String() string {
	if o == OrderPower {
		return "power"
	}
	return "seen"
}

// ParseOrder parses "seen" or "power".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "seen":
		return OrderSeen, nil
	case "power":
		return OrderPower, nil
	}
	return OrderSeen, fmt.Errorf("unknown sort order %q (want seen or power)", s)
}

// Import is the outcome of reading one source.
type Import struct {
	Format   Format
	Networks []Network
	Skipped  []SkipError
}

// Identities returns the identities of Networks in the same order.
func (imp *Import) Identities() []wifi.Identity {
	ids := make([]wifi.Identity, len(imp.Networks))
	for i, n := range imp.Networks {
		ids[i] = n.Identity
	}
	return ids
}

// Importer reads network sources and merges duplicate BSSIDs.
type Importer struct {
	format Format
	filter Filter
	order  Order
	log    *zap.Logger
}

// ImporterOption customises an Importer.
type ImporterOption func(*Importer)

// WithFormat forces a layout instead of sniffing it.
func WithFormat(f Format) ImporterOption {
	return func(im *Importer) { im.format = f }
}

// WithFilter drops networks f does not match.
func WithFilter(f Filter) ImporterOption {
	return func(im *Importer) { im.filter = f }
}

// WithOrder sets the order of the imported networks.
func WithOrder(o Order) ImporterOption {
	return func(im *Importer) { im.order = o }
}

func NewImporter(log *zap.Logger, opts ...ImporterOption) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	im := &Importer{log: log}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile opens path and imports it.
func (im *Importer) ImportFile(path string) (*Import, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := im.Import(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return res, nil
}

// Import reads r in the configured or detected format.
func (im *Importer) Import(r io.Reader) (*Import, error) {
	br := bufio.NewReaderSize(r, 4096)

	format := im.format
	if format == FormatAuto {
		head, err := br.Peek(512)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("sniff format: %w", err)
		}
		format = DetectFormat(head)
	}

	var (
		networks []Network
		skipped  []SkipError
		err      error
	)
	switch format {
	case FormatAirodump:
		networks, skipped, err = ParseAirodumpCSV(br)
	case FormatPcap, FormatPcapNG:
		networks, skipped, err = ReadCapture(br)
	case FormatList:
		networks, skipped, err = ParseList(br)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}

	for _, s := range skipped {
		im.log.Warn("skipping record",
			zap.String("format", format.String()),
			zap.Int("record", s.Record),
			zap.Error(s.Err),
		)
	}

	db := NewNetworkDB()
	for _, n := range networks {
		db.Update(n)
	}
	all := db.Networks()
	if im.order == OrderPower {
		all = db.Strongest()
	}
	kept := FilterNetworks(all, im.filter)

	im.log.Debug("import complete",
		zap.String("format", format.String()),
		zap.Int("records", len(networks)),
		zap.Int("networks", db.Count()),
		zap.Int("kept", len(kept)),
		zap.Int("skipped", len(skipped)),
	)

	return &Import{Format: format, Networks: kept, Skipped: skipped}, nil
}
