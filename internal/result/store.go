package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wifibear/keybear/pkg/wifi"
)

// Entry is a report saved to history.
type Entry struct {
	Report
	SavedAt time.Time `json:"saved_at"`
}

// Store persists reports to a JSON history file. An empty path keeps
// history in memory only.
type Store struct {
	path    string
	entries []Entry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewStore loads the history at path. A missing file is an empty history.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Add saves reports that found keys, replacing earlier entries for the
// same BSSID.
func (s *Store) Add(reports ...Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, r := range reports {
		if !r.Found() {
			continue
		}
		e := Entry{Report: r, SavedAt: s.now().UTC()}
		changed = true

		replaced := false
		for i, existing := range s.entries {
			if existing.BSSID == r.BSSID {
				s.entries[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			s.entries = append(s.entries, e)
		}
	}
	if !changed {
		return nil
	}
	return s.save()
}

// All returns all entries in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// FindByBSSID looks up an entry by BSSID in any accepted MAC notation.
func (s *Store) FindByBSSID(bssid string) (Entry, bool) {
	mac, err := wifi.ParseMAC(bssid)
	if err != nil {
		return Entry{}, false
	}
	want := mac.String()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.BSSID == want {
			return e, true
		}
	}
	return Entry{}, false
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// FormatHistory returns a formatted table of saved networks.
func (s *Store) FormatHistory() string {
	entries := s.All()
	if len(entries) == 0 {
		return "No saved networks.\n"
	}

	out := fmt.Sprintf("  %-24s %-19s %-5s %-20s %s\n",
		"SSID", "BSSID", "KEYS", "FIRST KEY", "SAVED")
	out += fmt.Sprintf("  %-24s %-19s %-5s %-20s %s\n",
		"────", "─────", "────", "─────────", "─────")

	for _, e := range entries {
		ssid := e.SSID
		if ssid == "" {
			ssid = "<hidden>"
		}
		key := "-"
		if len(e.Candidates) > 0 {
			key = e.Candidates[0].Value
		}
		out += fmt.Sprintf("  %-24s %-19s %-5d %-20s %s\n",
			abbrev(ssid, 22), e.BSSID, len(e.Candidates), abbrev(key, 18), e.SavedAt.Format("2006-01-02 15:04"))
	}

	return out
}

// abbrev cuts s to n runes and marks the cut.
func abbrev(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ".."
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse history %s: %w", s.path, err)
	}
	// Hand-edited files may carry entries without keys.
	s.entries = entries[:0]
	for _, e := range entries {
		if len(e.Candidates) > 0 {
			s.entries = append(s.entries, e)
		}
	}
	return nil
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
