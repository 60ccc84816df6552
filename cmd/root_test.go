package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifibear/keybear/internal/keygen"
	"github.com/wifibear/keybear/internal/result"
)

// run executes the command tree with args and a throwaway history file
// unless args name one.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KEYBEAR_OUTPUT_HISTORY", filepath.Join(t.TempDir(), "history.json"))

	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDerive_Text(t *testing.T) {
	out, err := run(t, "derive", "--ssid", "UPC1234567", "--bssid", "64:7C:34:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "UPC1234567 [64:7C:34:00:00:01]")
	assert.Contains(t, out, "CWGUJAJX")
	assert.Contains(t, out, "upc-2g")
	assert.Contains(t, out, "1/27")
}

func TestDerive_JSONWithPSK(t *testing.T) {
	out, err := run(t, "derive", "-s", "UPC1234567", "-b", "64-7c-34-00-00-01", "--psk", "-f", "json")
	require.NoError(t, err)

	var r result.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "64:7C:34:00:00:01", r.BSSID)
	assert.Equal(t, "candidates", r.Outcome)
	require.Len(t, r.Candidates, 60)
	assert.Equal(t, "CWGUJAJX", r.Candidates[0].Value)
	assert.Equal(t, "c11b8d7a49ebf24e83211652ca488e1e364488fb96af1c0a17667d1c97674c3b", r.Candidates[0].PSK)
}

func TestDerive_NoMatch(t *testing.T) {
	out, err := run(t, "derive", "--ssid", "HomeNet", "--bssid", "AA:BB:CC:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "no known default key scheme")
}

func TestDerive_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing bssid", []string{"derive", "--ssid", "UPC1234567"}},
		{"bad bssid", []string{"derive", "--ssid", "UPC1234567", "--bssid", "nope"}},
		{"bad format", []string{"derive", "--bssid", "00:11:22:33:44:55", "-f", "xml"}},
		{"stray args", []string{"derive", "extra", "--bssid", "00:11:22:33:44:55"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}

	_, err := run(t, "derive", "--bssid", "nope")
	assert.ErrorIs(t, err, keygen.ErrMalformedBSSID)
}

func TestHistory(t *testing.T) {
	history := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, "--history", history, "derive", "--ssid", "UPC1234567", "--bssid", "64:7C:34:00:00:01")
	require.NoError(t, err)
	_, err = run(t, "--history", history, "derive", "--ssid", "HomeNet", "--bssid", "AA:BB:CC:00:00:01")
	require.NoError(t, err)

	out, err := run(t, "--history", history, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "UPC1234567")
	assert.NotContains(t, out, "HomeNet", "networks without keys are not saved")

	out, err = run(t, "--history", history, "history", "--bssid", "64-7C-34-00-00-01", "-f", "json")
	require.NoError(t, err)
	var r result.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "UPC1234567", r.SSID)

	_, err = run(t, "--history", history, "history", "--bssid", "AA:BB:CC:00:00:01")
	assert.ErrorContains(t, err, "not in the history")
}

func TestHistory_Empty(t *testing.T) {
	out, err := run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved networks.")
}

func TestHistory_Disabled(t *testing.T) {
	_, err := run(t, "--history", "", "history")
	assert.ErrorContains(t, err, "history is disabled")
}

func TestPin(t *testing.T) {
	tests := []struct {
		digits  string
		want    string
		wantErr string
	}{
		{"1234567", "12345670\n", ""},
		{"0000000", "00000000\n", ""},
		{"12345670", "12345670 is a valid WPS PIN\n", ""},
		{"12345671", "", "expected 12345670"},
		{"123", "", "want 7 or 8 digits"},
		{"12a4567", "", "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			out, err := run(t, "pin", tt.digits)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestAlgorithms(t *testing.T) {
	out, err := run(t, "algorithms")
	require.NoError(t, err)
	assert.Contains(t, out, "Algorithms:")
	assert.Contains(t, out, "Signatures:")
	for _, a := range keygen.DefaultAlgorithms() {
		assert.Contains(t, out, string(a.ID))
	}
	assert.Contains(t, out, "comtrend")
}

func TestAlgorithms_Explain(t *testing.T) {
	out, err := run(t, "algorithms", "--ssid", "UPC1234567", "--bssid", "64:7C:34:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "UPC1234567 [64:7C:34:00:00:01]")
	assert.Contains(t, out, "pattern")
	assert.Contains(t, out, "upc-5g")

	out, err = run(t, "algorithms", "--bssid", "AA:BB:CC:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "no signature matches")
}

func writeList(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "networks.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const networkList = `# ssid,bssid
UPC1234567,64:7C:34:00:00:01
HomeNet,AA:BB:CC:00:00:01
TP-LINK_123456,F4:EC:38:12:34:56
UPC1234567,64:7C:34:00:00:01
`

func TestImport_List(t *testing.T) {
	path := writeList(t, networkList)

	for _, workers := range []string{"1", "8"} {
		out, err := run(t, "import", path, "-f", "json", "--workers", workers)
		require.NoError(t, err)

		var reports []result.Report
		require.NoError(t, json.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 3, "duplicate BSSIDs are merged")
		assert.Equal(t, "UPC1234567", reports[0].SSID)
		assert.Equal(t, "no-match", reports[1].Outcome)
		assert.Equal(t, "TP-LINK_123456", reports[2].SSID)
		assert.True(t, reports[2].Found())
	}
}

func TestImport_Filter(t *testing.T) {
	path := writeList(t, networkList)

	out, err := run(t, "import", path, "-f", "json", "--ssid-prefix", "TP-LINK")
	require.NoError(t, err)

	var reports []result.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "F4:EC:38:12:34:56", reports[0].BSSID)
}

const airodumpCSV = `BSSID, First time seen, Last time seen, channel, Speed, Privacy, Cipher, Authentication, Power, # beacons, # IV, LAN IP, ID-length, ESSID, Key
00:12:BF:12:34:56, 2024-03-01 10:00:00, 2024-03-01 10:05:00,  1,  54, WPA2, CCMP, PSK, -81,      10,        0,   0.  0.  0.  0,  14, EasyBox-123456,
F4:EC:38:12:34:56, 2024-03-01 10:00:01, 2024-03-01 10:05:01,  6,  54, WPA2, CCMP, PSK, -40,      10,        0,   0.  0.  0.  0,  14, TP-LINK_123456,
`

func TestImport_SortPower(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump-01.csv")
	require.NoError(t, os.WriteFile(path, []byte(airodumpCSV), 0o600))

	for sort, first := range map[string]string{"seen": "EasyBox-123456", "power": "TP-LINK_123456"} {
		out, err := run(t, "import", path, "-f", "json", "--sort", sort)
		require.NoError(t, err, sort)

		var reports []result.Report
		require.NoError(t, json.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 2, sort)
		assert.Equal(t, first, reports[0].SSID, sort)
	}
}

func TestImport_SavesHistory(t *testing.T) {
	path := writeList(t, networkList)
	history := filepath.Join(t.TempDir(), "history.json")

	_, err := run(t, "--history", history, "import", path)
	require.NoError(t, err)

	out, err := run(t, "--history", history, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "UPC1234567")
	assert.Contains(t, out, "TP-LINK_123456")
	assert.NotContains(t, out, "HomeNet")
}

func TestImport_Errors(t *testing.T) {
	path := writeList(t, networkList)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"import", filepath.Join(t.TempDir(), "missing.csv")}},
		{"no file", []string{"import"}},
		{"bad type", []string{"import", path, "--type", "xml"}},
		{"bad encryption", []string{"import", path, "--encryption", "rot13"}},
		{"bad sort", []string{"import", path, "--sort", "ssid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseEncryption(t *testing.T) {
	for _, s := range []string{"open", "OPN", "wep", "wpa", "WPA2", "wpa3"} {
		_, err := parseEncryption(s)
		assert.NoError(t, err, s)
	}
	_, err := parseEncryption("none")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "keybear.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  format: yaml\n"), 0o600))

	out, err := run(t, "--config", cfg, "derive", "--ssid", "HomeNet", "--bssid", "AA:BB:CC:00:00:01")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: no-match")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "pin", "1234567")
	assert.Error(t, err)
}
