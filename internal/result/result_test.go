package result

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wifibear/keybear/internal/keygen"
	"github.com/wifibear/keybear/pkg/wifi"
)

func generate(t *testing.T, ssid, bssid string) *keygen.Result {
	t.Helper()
	res, err := keygen.MustNewEngine().GenerateString(ssid, bssid)
	require.NoError(t, err)
	return res
}

func TestNewReport(t *testing.T) {
	r := NewReport(generate(t, "UPC1234567", "64:7C:34:00:00:01"), Options{Encryption: wifi.EncWPA2})

	assert.Equal(t, "UPC1234567", r.SSID)
	assert.Equal(t, "64:7C:34:00:00:01", r.BSSID)
	assert.Equal(t, "WPA2", r.Encryption)
	assert.Equal(t, "candidates", r.Outcome)
	assert.Equal(t, []string{"upc-2g", "upc-5g"}, r.Matched)
	require.Len(t, r.Candidates, 60)
	assert.Empty(t, r.Failures)
	assert.True(t, r.Found())

	first := r.Candidates[0]
	assert.Equal(t, Candidate{
		Value:      "CWGUJAJX",
		Kind:       "wpa",
		Confidence: "one-of-n",
		Of:         27,
		Algorithm:  "upc-2g",
		Note:       "SAAP19165767",
	}, first)
}

func TestNewReport_PSK(t *testing.T) {
	r := NewReport(generate(t, "UPC1234567", "64:7C:34:00:00:01"), Options{PSK: true})
	assert.Equal(t, "c11b8d7a49ebf24e83211652ca488e1e364488fb96af1c0a17667d1c97674c3b", r.Candidates[0].PSK)

	// WPS PINs and hidden networks never get a PSK.
	r = NewReport(generate(t, "", "C8:3A:35:12:34:56"), Options{PSK: true})
	require.NotEmpty(t, r.Candidates)
	for _, c := range r.Candidates {
		assert.Empty(t, c.PSK)
	}
}

func TestNewReport_Outcomes(t *testing.T) {
	r := NewReport(generate(t, "Discus--000001", "AA:BB:CC:00:00:01"), Options{})
	assert.Equal(t, "no-candidates", r.Outcome)
	assert.False(t, r.Found())
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "pirelli-discus", r.Failures[0].Algorithm)
	assert.Contains(t, r.Failures[0].Error, "malformed SSID")

	r = NewReport(generate(t, "", "AA:BB:CC:00:00:01"), Options{})
	assert.Equal(t, "no-match", r.Outcome)
	assert.Empty(t, r.Matched)
	assert.Empty(t, r.Encryption)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", FormatText, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func sampleReports(t *testing.T) []Report {
	return []Report{
		NewReport(generate(t, "EasyBox-123456", "00:12:BF:12:34:56"), Options{}),
		NewReport(generate(t, "", "AA:BB:CC:00:00:01"), Options{}),
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, sampleReports(t)))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "00:12:BF:12:34:56", decoded[0]["bssid"])
	assert.Equal(t, "no-match", decoded[1]["outcome"])
	assert.NotContains(t, decoded[1], "candidates")

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncode_YAML(t *testing.T) {
	reports := sampleReports(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, reports))

	var decoded []Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, reports, decoded)
}

func TestEncodeReport(t *testing.T) {
	r := NewReport(generate(t, "EasyBox-123456", "00:12:BF:12:34:56"), Options{})

	var buf bytes.Buffer
	require.NoError(t, EncodeReport(&buf, FormatJSON, r))
	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "9CD8DF2E9", decoded.Candidates[0].Value)

	buf.Reset()
	require.NoError(t, EncodeReport(&buf, FormatText, r))
	assert.Contains(t, buf.String(), "EasyBox-123456 [00:12:BF:12:34:56]")
	assert.Contains(t, buf.String(), "9CD8DF2E9")
}

func TestText(t *testing.T) {
	r := NewReport(generate(t, "Belkin.3456", "94:44:52:12:34:56"), Options{})
	out := Text(&r)
	assert.Contains(t, out, "matched: belkin-upper, belkin-lower")
	assert.Contains(t, out, "14256334")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "bssid+1")

	hidden := NewReport(generate(t, "", "AA:BB:CC:00:00:01"), Options{})
	assert.Equal(t, "<hidden> [AA:BB:CC:00:00:01]\n  no known default key scheme for this network\n", Text(&hidden))

	failed := NewReport(generate(t, "Discus--000001", "AA:BB:CC:00:00:01"), Options{})
	out = Text(&failed)
	assert.Contains(t, out, "no key could be derived")
	assert.Contains(t, out, "failed pirelli-discus")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatText, []Report{r, hidden}))
	assert.Contains(t, buf.String(), "\n\n<hidden>")
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.json")

	store, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, "No saved networks.\n", store.FormatHistory())

	saved := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return saved }

	easybox := NewReport(generate(t, "EasyBox-123456", "00:12:BF:12:34:56"), Options{})
	nomatch := NewReport(generate(t, "", "AA:BB:CC:00:00:01"), Options{})
	require.NoError(t, store.Add(easybox, nomatch))
	assert.Equal(t, 1, store.Count(), "reports without keys are not saved")

	// A later report for the same BSSID replaces the earlier one.
	renamed := NewReport(generate(t, "Vodafone-ABCDEF", "00:12:BF:12:34:56"), Options{})
	require.NoError(t, store.Add(renamed))
	assert.Equal(t, 1, store.Count())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Count())

	e, ok := reopened.FindByBSSID("00-12-bf-12-34-56")
	require.True(t, ok)
	assert.Equal(t, "Vodafone-ABCDEF", e.SSID)
	assert.True(t, e.SavedAt.Equal(saved))
	assert.Equal(t, renamed.Candidates, e.Candidates)

	_, ok = reopened.FindByBSSID("not a mac")
	assert.False(t, ok)

	table := reopened.FormatHistory()
	assert.Contains(t, table, "Vodafone-ABCDEF")
	assert.Contains(t, table, "2024-03-01 12:00")
}

func TestStore_MemoryOnly(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)
	require.NoError(t, store.Add(NewReport(generate(t, "TP-LINK_123456", "F4:EC:38:12:34:56"), Options{})))
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, "38123456", store.All()[0].Candidates[0].Value)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestStore_EntryWithoutCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	body := `[
  {"ssid":"x","bssid":"00:11:22:33:44:55","outcome":"candidates","saved_at":"2024-03-01T12:00:00Z"},
  {"ssid":"y","bssid":"00:11:22:33:44:66","outcome":"candidates","candidates":[{"value":"12345670","kind":"wps-pin"}],"saved_at":"2024-03-01T12:00:00Z"}
]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Count(), "entries without keys are dropped on load")
	_, ok := store.FindByBSSID("00:11:22:33:44:55")
	assert.False(t, ok)

	store.entries = append(store.entries, Entry{Report: Report{SSID: "z", BSSID: "00:11:22:33:44:77"}})
	var table string
	assert.NotPanics(t, func() { table = store.FormatHistory() })
	assert.Contains(t, table, "12345670")
	assert.Regexp(t, `00:11:22:33:44:77\s+0\s+-\s`, table)
}

func TestFormatHistory_TruncatesRunes(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)
	ssid := strings.Repeat("ü", 30)
	store.entries = []Entry{{Report: Report{
		SSID:       ssid,
		BSSID:      "00:11:22:33:44:55",
		Outcome:    "candidates",
		Candidates: []Candidate{{Value: strings.Repeat("é", 25), Kind: "wpa"}},
	}}}

	table := store.FormatHistory()
	assert.True(t, utf8.ValidString(table))
	assert.Contains(t, table, strings.Repeat("ü", 22)+"..")
	assert.NotContains(t, table, strings.Repeat("ü", 23))
	assert.Contains(t, table, strings.Repeat("é", 18)+"..")
}

func TestAbbrev(t *testing.T) {
	assert.Equal(t, "short", abbrev("short", 10))
	assert.Equal(t, "exactly", abbrev("exactly", 7))
	assert.Equal(t, "日本..", abbrev("日本語", 2))
}
