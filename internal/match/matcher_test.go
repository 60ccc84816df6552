package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifibear/keybear/pkg/wifi"
)

func testTable() []Signature {
	return []Signature{
		{ID: "oui-only", OUIs: []wifi.OUI{wifi.MustParseOUI("00:12:BF")}, Algorithm: "by-oui"},
		{ID: "prefix", SSID: Prefix("Box-"), Algorithm: "by-prefix"},
		{ID: "pattern", SSID: Pattern(`Box-[0-9]{4}`), Algorithm: "by-pattern"},
		{ID: "exact", SSID: Exact("Box-1234"), Algorithm: "by-exact"},
		{
			ID:         "guarded",
			SSID:       Prefix("WLAN_"),
			OUIs:       []wifi.OUI{wifi.MustParseOUI("64:68:0C")},
			RequireOUI: true,
			Algorithm:  "guarded",
		},
		{ID: "prefix-dup", SSID: Prefix("Box"), Algorithm: "by-prefix"},
	}
}

func identity(t *testing.T, ssid, bssid string) wifi.Identity {
	t.Helper()
	id, err := wifi.ParseIdentity(ssid, bssid)
	require.NoError(t, err)
	return id
}

func TestMatcher_TierOrder(t *testing.T) {
	m, err := NewMatcher(testTable())
	require.NoError(t, err)

	got := m.Match(identity(t, "Box-1234", "00:12:BF:00:00:01"))
	assert.Equal(t, []AlgorithmID{"by-exact", "by-pattern", "by-prefix", "by-oui"}, got)
}

func TestMatcher_DeduplicatesAlgorithms(t *testing.T) {
	m := MustNewMatcher(testTable())

	hits := m.Explain(identity(t, "Box-zz", "AA:BB:CC:00:00:01"))
	require.Len(t, hits, 2)
	assert.Equal(t, "prefix", hits[0].Signature.ID)
	assert.Equal(t, "prefix-dup", hits[1].Signature.ID)

	assert.Equal(t, []AlgorithmID{"by-prefix"}, m.Match(identity(t, "Box-zz", "AA:BB:CC:00:00:01")))
}

func TestMatcher_RequireOUI(t *testing.T) {
	m := MustNewMatcher(testTable())

	assert.Equal(t, []AlgorithmID{"guarded"}, m.Match(identity(t, "WLAN_A1B2", "64:68:0C:00:00:01")))
	assert.Empty(t, m.Match(identity(t, "WLAN_A1B2", "AA:BB:CC:00:00:01")))
	assert.Empty(t, m.Match(identity(t, "Other", "64:68:0C:00:00:01")))
}

func TestMatcher_NoMatch(t *testing.T) {
	m := MustNewMatcher(testTable())

	assert.Empty(t, m.Match(identity(t, "", "AA:BB:CC:00:00:01")))
	assert.Empty(t, m.Match(identity(t, "Nothing", "AA:BB:CC:00:00:01")))
}

func TestMatcher_HiddenSSIDStillMatchesOUI(t *testing.T) {
	m := MustNewMatcher(testTable())
	assert.Equal(t, []AlgorithmID{"by-oui"}, m.Match(identity(t, "", "00:12:BF:00:00:01")))
}

func TestMatcher_PatternIsAnchored(t *testing.T) {
	m := MustNewMatcher([]Signature{{ID: "p", SSID: Pattern(`UPC[0-9]{7}`), Algorithm: "upc"}})

	assert.NotEmpty(t, m.Match(identity(t, "UPC1234567", "00:00:00:00:00:01")))
	assert.Empty(t, m.Match(identity(t, "UPC12345678", "00:00:00:00:00:01")))
	assert.Empty(t, m.Match(identity(t, "xUPC1234567", "00:00:00:00:00:01")))
}

func TestMatcher_Deterministic(t *testing.T) {
	m := MustNewMatcher(testTable())
	id := identity(t, "Box-1234", "00:12:BF:00:00:01")

	first := m.Match(id)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, m.Match(id))
	}
}

func TestMatcher_TableIsFrozen(t *testing.T) {
	table := testTable()
	m := MustNewMatcher(table)

	table[0].Algorithm = "tampered"
	table[0].OUIs[0] = wifi.MustParseOUI("FF:FF:FF")

	assert.Equal(t, []AlgorithmID{"by-oui"}, m.Match(identity(t, "", "00:12:BF:00:00:01")))

	copied := m.Signatures()
	copied[0].OUIs[0] = wifi.MustParseOUI("FF:FF:FF")
	assert.Equal(t, []AlgorithmID{"by-oui"}, m.Match(identity(t, "", "00:12:BF:00:00:01")))
}

func TestNewMatcher_Invalid(t *testing.T) {
	tests := []struct {
		name string
		sig  Signature
	}{
		{"missing id", Signature{SSID: Prefix("a"), Algorithm: "x"}},
		{"missing algorithm", Signature{ID: "a", SSID: Prefix("a")}},
		{"empty rule", Signature{ID: "a", Algorithm: "x"}},
		{"bad pattern", Signature{ID: "a", SSID: Pattern("("), Algorithm: "x"}},
		{"require without oui", Signature{ID: "a", SSID: Prefix("a"), RequireOUI: true, Algorithm: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatcher([]Signature{tt.sig})
			assert.Error(t, err)
		})
	}

	_, err := NewMatcher([]Signature{
		{ID: "a", SSID: Prefix("a"), Algorithm: "x"},
		{ID: "a", SSID: Prefix("b"), Algorithm: "y"},
	})
	assert.Error(t, err)
}
