package keygen

import (
	"github.com/wifibear/keybear/internal/match"
	"github.com/wifibear/keybear/pkg/wifi"
)

const (
	AlgUPC24GHz       match.AlgorithmID = "upc-2g"
	AlgUPC5GHz        match.AlgorithmID = "upc-5g"
	AlgFastwebPirelli match.AlgorithmID = "fastweb-pirelli"
	AlgPirelliDiscus  match.AlgorithmID = "pirelli-discus"
	AlgEasyBox        match.AlgorithmID = "arcadyan-easybox"
	AlgBelkinUpper    match.AlgorithmID = "belkin-upper"
	AlgBelkinLower    match.AlgorithmID = "belkin-lower"
	AlgTPLink         match.AlgorithmID = "tplink"
	AlgInfostrada     match.AlgorithmID = "infostrada"
	AlgOTE            match.AlgorithmID = "ote"
	AlgMegared        match.AlgorithmID = "megared"
	AlgTecom          match.AlgorithmID = "tecom"
	AlgComtrend       match.AlgorithmID = "comtrend"
	AlgSkyV1          match.AlgorithmID = "sky-v1"
	AlgPIN24          match.AlgorithmID = "wps-pin24"
	AlgPIN28          match.AlgorithmID = "wps-pin28"
	AlgPIN32          match.AlgorithmID = "wps-pin32"
	AlgDLinkPIN       match.AlgorithmID = "wps-dlink"
	AlgDLinkPIN1      match.AlgorithmID = "wps-dlink1"
	AlgASUSPIN        match.AlgorithmID = "wps-asus"
)

// DefaultAlgorithms returns the built-in recipes in catalogue order.
func DefaultAlgorithms() []Algorithm {
	return []Algorithm{
		NewAlgorithm(AlgUPC24GHz, "UPC (2.4 GHz)", FamilySSIDSerial, KindWPA, InputSSID, upcDerive(upcBand24GHz)),
		NewAlgorithm(AlgUPC5GHz, "UPC (5 GHz)", FamilySSIDSerial, KindWPA, InputSSID, upcDerive(upcBand5GHz)),
		NewAlgorithm(AlgFastwebPirelli, "Fastweb Pirelli", FamilyMACHash, KindWPA, InputSSID, fastwebDerive),
		NewAlgorithm(AlgPirelliDiscus, "Pirelli Discus", FamilySSIDSerial, KindWPA, InputSSID, discusDerive),
		NewAlgorithm(AlgEasyBox, "Arcadyan EasyBox", FamilyMACHash, KindWPA, InputBSSID, easyboxDerive),
		NewAlgorithm(AlgBelkinUpper, "Belkin (Belkin.XXXX)", FamilyTableLookup, KindWPA, InputBSSID, belkinDerive(belkinUpperCharset)),
		NewAlgorithm(AlgBelkinLower, "Belkin (belkin.xxxx)", FamilyTableLookup, KindWPA, InputBSSID, belkinDerive(belkinLowerCharset)),
		NewAlgorithm(AlgTPLink, "TP-Link", FamilyMACHash, KindWPA, InputBSSID, tplinkDerive),
		NewAlgorithm(AlgInfostrada, "Infostrada", FamilyMACHash, KindWPA, InputBSSID, infostradaDerive),
		NewAlgorithm(AlgOTE, "OTE", FamilyMACHash, KindWPA, InputBSSID, oteDerive),
		NewAlgorithm(AlgMegared, "Megared", FamilyMACHash, KindWPA, InputBSSID, megaredDerive),
		NewAlgorithm(AlgTecom, "Tecom", FamilySSIDSerial, KindWEP, InputSSID, tecomDerive),
		NewAlgorithm(AlgComtrend, "Comtrend", FamilyMACHash, KindWPA, InputSSID|InputBSSID, comtrendDerive),
		NewAlgorithm(AlgSkyV1, "Sky V1", FamilyTableLookup, KindWPA, InputBSSID, skyV1Derive),
		NewAlgorithm(AlgPIN24, "WPS PIN (24-bit MAC)", FamilyWPSPin, KindWPSPIN, InputBSSID, macPINDerive(24)),
		NewAlgorithm(AlgPIN28, "WPS PIN (28-bit MAC)", FamilyWPSPin, KindWPSPIN, InputBSSID, macPINDerive(28)),
		NewAlgorithm(AlgPIN32, "WPS PIN (32-bit MAC)", FamilyWPSPin, KindWPSPIN, InputBSSID, macPINDerive(32)),
		NewAlgorithm(AlgDLinkPIN, "WPS PIN (D-Link)", FamilyWPSPin, KindWPSPIN, InputBSSID, dlinkDerive(0)),
		NewAlgorithm(AlgDLinkPIN1, "WPS PIN (D-Link, BSSID+1)", FamilyWPSPin, KindWPSPIN, InputBSSID, dlinkDerive(1)),
		NewAlgorithm(AlgASUSPIN, "WPS PIN (ASUS)", FamilyWPSPin, KindWPSPIN, InputBSSID, asusDerive),
	}
}

func ouis(prefixes ...string) []wifi.OUI {
	out := make([]wifi.OUI, len(prefixes))
	for i, p := range prefixes {
		out[i] = wifi.MustParseOUI(p)
	}
	return out
}

var (
	easyboxOUIs = []string{
		"00:12:BF", "00:1A:2A", "00:1D:19", "00:23:08", "00:26:4D",
		"1C:C6:3C", "74:31:70", "7C:4F:B5", "88:25:2C",
	}
	belkinOUIs  = []string{"08:86:3B", "94:44:52", "EC:1A:59"}
	comtrendOUI = []string{"00:1D:20", "64:68:0C"}
	pin24OUIs   = []string{"00:14:D1", "00:B0:0C", "08:10:75", "C8:3A:35", "D8:EB:97"}
	pin28OUIs   = []string{"20:0B:C7", "48:46:FB", "D4:6A:A8"}
	pin32OUIs   = []string{"00:07:26", "00:0B:2B", "00:0E:F4"}
	dlinkOUIs   = []string{
		"00:24:01", "14:D6:4D", "1C:7E:E5", "1C:BD:B9", "28:10:7B",
		"84:C9:B2", "90:94:E4", "B8:A3:86", "BC:F6:85", "C0:A0:BB",
		"C8:BE:19", "CC:B2:55", "F0:7D:68", "FC:75:16",
	}
	asusOUIs = []string{
		"04:92:26", "08:60:6E", "10:7B:44", "10:BF:48", "14:DD:A9",
		"1C:87:2C", "2C:56:DC", "30:5A:3A", "38:D5:47", "40:16:7E",
		"50:46:5D", "54:A0:50", "60:45:CB", "AC:22:0B", "BC:EE:7B",
		"D8:50:E6", "E0:3F:49", "F8:32:E4",
	}
)

// DefaultSignatures returns the built-in vendor table. Callers get a fresh
// copy; the matcher freezes whatever it is given.
func DefaultSignatures() []match.Signature {
	return []match.Signature{
		{ID: "upc-2g", SSID: match.Pattern(`UPC[0-9]{7}`), Algorithm: AlgUPC24GHz},
		{ID: "upc-5g", SSID: match.Pattern(`UPC[0-9]{7}`), Algorithm: AlgUPC5GHz},
		{ID: "fastweb", SSID: match.Pattern(`FASTWEB-1-[0-9A-Fa-f]{12}`), Algorithm: AlgFastwebPirelli},
		{ID: "discus", SSID: match.Prefix("Discus--"), Algorithm: AlgPirelliDiscus},
		{ID: "easybox-ssid", SSID: match.Pattern(`(EasyBox|Arcor|Vodafone)-[0-9A-F]{6}`), Algorithm: AlgEasyBox},
		{ID: "easybox-oui", OUIs: ouis(easyboxOUIs...), Algorithm: AlgEasyBox},
		{ID: "belkin-upper-ssid", SSID: match.Pattern(`Belkin[._].+`), Algorithm: AlgBelkinUpper},
		{ID: "belkin-lower-ssid", SSID: match.Prefix("belkin."), Algorithm: AlgBelkinLower},
		{ID: "belkin-upper-oui", OUIs: ouis(belkinOUIs...), Algorithm: AlgBelkinUpper},
		{ID: "belkin-lower-oui", OUIs: ouis(belkinOUIs...), Algorithm: AlgBelkinLower},
		{ID: "tplink", SSID: match.Prefix("TP-LINK_"), Algorithm: AlgTPLink},
		{ID: "infostrada", SSID: match.Prefix("InfostradaWiFi-"), Algorithm: AlgInfostrada},
		{ID: "ote", SSID: match.Pattern(`OTE[0-9a-fA-F]{6}`), Algorithm: AlgOTE},
		{ID: "megared", SSID: match.Pattern(`Megared[0-9a-fA-F]{4}`), Algorithm: AlgMegared},
		{ID: "tecom-ah4021", SSID: match.Prefix("TECOM-AH4021-"), Algorithm: AlgTecom},
		{ID: "tecom-ah4222", SSID: match.Prefix("TECOM-AH4222-"), Algorithm: AlgTecom},
		{
			ID:         "comtrend",
			SSID:       match.Pattern(`(WLAN|JAZZTEL)_[0-9A-Fa-f]{4}`),
			OUIs:       ouis(comtrendOUI...),
			RequireOUI: true,
			Algorithm:  AlgComtrend,
		},
		{ID: "sky-v1", SSID: match.Pattern(`SKY[0-9]{5}`), Algorithm: AlgSkyV1},
		{ID: "wps-pin24", OUIs: ouis(pin24OUIs...), Algorithm: AlgPIN24},
		{ID: "wps-pin28", OUIs: ouis(pin28OUIs...), Algorithm: AlgPIN28},
		{ID: "wps-pin32", OUIs: ouis(pin32OUIs...), Algorithm: AlgPIN32},
		{ID: "wps-dlink", OUIs: ouis(dlinkOUIs...), Algorithm: AlgDLinkPIN},
		{ID: "wps-dlink1", OUIs: ouis(dlinkOUIs...), Algorithm: AlgDLinkPIN1},
		{ID: "wps-asus", OUIs: ouis(asusOUIs...), Algorithm: AlgASUSPIN},
	}
}
