package scan

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/wifibear/keybear/pkg/wifi"
)

const (
	pcapngMagic = 0x0A0D0D0A

	capabilityPrivacy = 0x0010
	rsnAKMSAE         = 8
)

var (
	pcapMagics = []uint32{0xA1B2C3D4, 0xD4C3B2A1, 0xA1B23C4D, 0x4D3CB2A1}

	vendorWPA = []byte{0x00, 0x50, 0xF2, 0x01}
	vendorWPS = []byte{0x00, 0x50, 0xF2, 0x04}
)

// ErrUnsupportedLinkType is returned for captures that carry no 802.11 frames.
var ErrUnsupportedLinkType = errors.New("capture is not 802.11")

func isPcapMagic(head []byte) bool {
	if len(head) < 4 {
		return false
	}
	m := binary.BigEndian.Uint32(head)
	for _, want := range pcapMagics {
		if m == want {
			return true
		}
	}
	return false
}

func isPcapNGMagic(head []byte) bool {
	return len(head) >= 4 && binary.BigEndian.Uint32(head) == pcapngMagic
}

// ReadCapture extracts access points from beacons and probe responses in a
// pcap or pcapng stream. Both raw 802.11 and radiotap link types are
// accepted.
func ReadCapture(r io.Reader) ([]Network, []SkipError, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil {
		return nil, nil, fmt.Errorf("read capture header: %w", err)
	}

	var (
		source   gopacket.PacketDataSource
		linkType layers.LinkType
	)
	switch {
	case isPcapNGMagic(head):
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("open pcapng: %w", err)
		}
		source, linkType = ng, ng.LinkType()
	case isPcapMagic(head):
		pr, err := pcapgo.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("open pcap: %w", err)
		}
		source, linkType = pr, pr.LinkType()
	default:
		return nil, nil, fmt.Errorf("not a pcap or pcapng stream")
	}

	switch linkType {
	case layers.LinkTypeIEEE802_11, layers.LinkTypeIEEE80211Radio:
	default:
		return nil, nil, fmt.Errorf("%w: link type %s", ErrUnsupportedLinkType, linkType)
	}

	packets := gopacket.NewPacketSource(source, linkType)
	packets.NoCopy = true

	db := NewNetworkDB()
	var skipped []SkipError
	frame := 0
	for {
		packet, err := packets.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		frame++
		if err != nil {
			// A truncated or corrupt record ends the capture; what was
			// decoded so far is kept.
			skipped = append(skipped, SkipError{Record: frame, Err: err})
			break
		}

		n, ok, err := accessPointFromPacket(packet)
		if err != nil {
			skipped = append(skipped, SkipError{Record: frame, Err: err})
		}
		if ok {
			db.Update(n)
		}
	}

	return db.Networks(), skipped, nil
}

// accessPointFromPacket decodes a beacon or probe response. A malformed
// element list is reported as an error alongside whatever was read before
// the damage; ok is false only when the frame names no access point.
func accessPointFromPacket(packet gopacket.Packet) (Network, bool, error) {
	dot11, ok := packet.Layer(layers.LayerTypeDot11).(*layers.Dot11)
	if !ok {
		if el := packet.ErrorLayer(); el != nil {
			return Network{}, false, fmt.Errorf("decode frame: %w", el.Error())
		}
		return Network{}, false, nil
	}

	var (
		capability uint16
		body       []byte
	)
	switch dot11.Type {
	case layers.Dot11TypeMgmtBeacon:
		beacon, ok := packet.Layer(layers.LayerTypeDot11MgmtBeacon).(*layers.Dot11MgmtBeacon)
		if !ok {
			return Network{}, false, errors.New("truncated beacon")
		}
		capability, body = beacon.Flags, beacon.Payload
	case layers.Dot11TypeMgmtProbeResp:
		resp, ok := packet.Layer(layers.LayerTypeDot11MgmtProbeResp).(*layers.Dot11MgmtProbeResp)
		if !ok {
			return Network{}, false, errors.New("truncated probe response")
		}
		capability, body = resp.Flags, resp.Payload
	default:
		return Network{}, false, nil
	}

	bssid, ok := macFromHardwareAddr(dot11.Address3)
	if !ok || bssid.IsBroadcast() || bssid.IsZero() {
		return Network{}, false, nil
	}

	// Extract radiotap info for signal strength
	power := 0
	if rt, ok := packet.Layer(layers.LayerTypeRadioTap).(*layers.RadioTap); ok {
		if rt.Present.DBMAntennaSignal() {
			power = int(rt.DBMAntennaSignal)
		}
	}

	var (
		ssid    string
		channel int
		enc     = wifi.EncOpen
		wps     bool
	)
	// gopacket's element decoder rejects short trailing elements such as a
	// 3-byte DS Parameter Set, so the list is walked here.
	ies, ieErr := informationElements(body)
	for _, ie := range ies {
		switch ie.id {
		case layers.Dot11InformationElementIDSSID:
			ssid = strings.Trim(string(ie.info), "\x00")
		case layers.Dot11InformationElementIDDSSet:
			if len(ie.info) > 0 {
				channel = int(ie.info[0])
			}
		case layers.Dot11InformationElementIDRSNInfo:
			enc = parseRSN(ie.info)
		case layers.Dot11InformationElementIDVendor:
			switch {
			case bytes.HasPrefix(ie.info, vendorWPS):
				wps = true
			case bytes.HasPrefix(ie.info, vendorWPA) && enc == wifi.EncOpen:
				enc = wifi.EncWPA
			}
		}
	}

	if enc == wifi.EncOpen && capability&capabilityPrivacy != 0 {
		enc = wifi.EncWEP
	}

	seen := packet.Metadata().Timestamp
	return Network{
		Identity:   wifi.NewIdentity(ssid, bssid),
		Channel:    channel,
		Power:      power,
		Encryption: enc,
		WPS:        wps,
		FirstSeen:  seen,
		LastSeen:   seen,
	}, true, ieErr
}

type informationElement struct {
	id   layers.Dot11InformationElementID
	info []byte
}

// informationElements splits a management frame body into (id, len, info)
// elements. Vendor elements keep their OUI and type octet in info. On a
// truncated element the elements before it are returned with an error.
func informationElements(body []byte) ([]informationElement, error) {
	var ies []informationElement
	for off := 0; off < len(body); {
		if len(body)-off < 2 {
			return ies, fmt.Errorf("information element at offset %d: header truncated", off)
		}
		id, n := body[off], int(body[off+1])
		off += 2
		if len(body)-off < n {
			return ies, fmt.Errorf("information element %d at offset %d: %d bytes declared, %d left",
				id, off-2, n, len(body)-off)
		}
		ies = append(ies, informationElement{
			id:   layers.Dot11InformationElementID(id),
			info: body[off : off+n],
		})
		off += n
	}
	return ies, nil
}

func macFromHardwareAddr(hw net.HardwareAddr) (wifi.MAC, bool) {
	var m wifi.MAC
	if len(hw) != len(m) {
		return m, false
	}
	copy(m[:], hw)
	return m, true
}

// parseRSN reads the AKM suites of an RSN element: SAE means WPA3,
// anything else WPA2.
func parseRSN(data []byte) wifi.EncryptionType {
	// version(2) group cipher(4) pairwise count(2)
	if len(data) < 8 {
		return wifi.EncWPA2
	}
	off := 6
	pairwise := int(binary.LittleEndian.Uint16(data[off:]))
	off += 2 + 4*pairwise
	if len(data) < off+2 {
		return wifi.EncWPA2
	}
	akms := int(binary.LittleEndian.Uint16(data[off:]))
	off += 2
	for i := 0; i < akms && off+4 <= len(data); i++ {
		if data[off+3] == rsnAKMSAE {
			return wifi.EncWPA3
		}
		off += 4
	}
	return wifi.EncWPA2
}
