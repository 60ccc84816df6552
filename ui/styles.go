package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorBear    = lipgloss.Color("#FF6B35")
	colorGreen   = lipgloss.Color("#00B894")
	colorRed     = lipgloss.Color("#D63031")
	colorYellow  = lipgloss.Color("#FDCB6E")
	colorPurple  = lipgloss.Color("#6C5CE7")
	colorCyan    = lipgloss.Color("#00CEC9")
	colorGray    = lipgloss.Color("#636E72")
	colorDimGray = lipgloss.Color("#2D3436")
	colorWhite   = lipgloss.Color("#DFE6E9")

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingRight(1)

	// Table styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				Background(colorDimGray)

	// Network encryption colors
	encWPA3Style = lipgloss.NewStyle().Foreground(colorPurple)
	encWPA2Style = lipgloss.NewStyle().Foreground(colorGreen)
	encWPAStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	encWEPStyle  = lipgloss.NewStyle().Foreground(colorRed)
	encOpenStyle = lipgloss.NewStyle().Foreground(colorGray)

	// Derivation status
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// Key bindings help
	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Borders
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray)

	// Banner
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBear)

	// Info text
	infoStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// SignalBar returns a visual signal strength indicator.
func SignalBar(power int) string {
	// power is negative dBm, higher (less negative) = stronger
	bars := 0
	switch {
	case power >= -50:
		bars = 4
	case power >= -60:
		bars = 3
	case power >= -70:
		bars = 2
	case power >= -80:
		bars = 1
	}

	result := ""
	for i := 0; i < 4; i++ {
		if i < bars {
			result += lipgloss.NewStyle().Foreground(colorGreen).Render("█")
		} else {
			result += lipgloss.NewStyle().Foreground(colorDimGray).Render("░")
		}
	}
	return result
}

// EncryptionColor returns styled encryption text padded to the table column.
// Unknown or empty encryption renders as a dash.
func EncryptionColor(enc string) string {
	if enc == "" || enc == "Unknown" {
		return dimStyle.Render("-     ")
	}
	padded := enc
	for len(padded) < 6 {
		padded += " "
	}
	switch enc {
	case "WPA3":
		return encWPA3Style.Render(padded)
	case "WPA2":
		return encWPA2Style.Render(padded)
	case "WPA":
		return encWPAStyle.Render(padded)
	case "WEP":
		return encWEPStyle.Render(padded)
	case "Open":
		return encOpenStyle.Render(padded)
	default:
		return padded
	}
}
