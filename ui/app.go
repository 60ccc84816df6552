package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wifibear/keybear/internal/result"
	"github.com/wifibear/keybear/pkg/wifi"
)

// View represents which screen the TUI is showing.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewHelp
)

// Item is one row of the browser: a derived report plus what the import
// source knew about the radio.
type Item struct {
	Report  result.Report
	Channel int
	Power   int
}

// App is the main Bubble Tea model.
type App struct {
	items []Item
	store *result.Store

	view   View
	width  int
	height int

	// List view state
	cursor    int
	foundOnly bool

	// Detail view state
	keyCursor int
	showPSK   bool

	status string
}

func NewApp(items []Item, store *result.Store) *App {
	return &App{
		items: items,
		store: store,
		view:  ViewList,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) View() string {
	switch a.view {
	case ViewDetail:
		return a.renderDetailView()
	case ViewHelp:
		return a.renderHelpView()
	default:
		return a.renderListView()
	}
}

// visible returns the rows shown by the list view.
func (a *App) visible() []Item {
	if !a.foundOnly {
		return a.items
	}
	var out []Item
	for _, it := range a.items {
		if it.Report.Found() {
			out = append(out, it)
		}
	}
	return out
}

// Selected returns the item under the list cursor.
func (a *App) Selected() (Item, bool) {
	rows := a.visible()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return Item{}, false
	}
	return rows[a.cursor], true
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "?":
		if a.view == ViewHelp {
			a.view = ViewList
		} else {
			a.view = ViewHelp
		}
		return a, nil

	case "esc":
		if a.view != ViewList {
			a.view = ViewList
		}
		return a, nil
	}

	switch a.view {
	case ViewList:
		return a.handleListKey(msg)
	case ViewDetail:
		return a.handleDetailKey(msg)
	}

	return a, nil
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := a.visible()
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(rows)-1 {
			a.cursor++
		}
	case "f":
		a.foundOnly = !a.foundOnly
		a.cursor = 0
	case "enter":
		if len(rows) > 0 {
			a.view = ViewDetail
			a.keyCursor = 0
			a.showPSK = false
		}
	case "s":
		a.saveSelected()
	}
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	it, ok := a.Selected()
	if !ok {
		a.view = ViewList
		return a, nil
	}
	switch msg.String() {
	case "up", "k":
		if a.keyCursor > 0 {
			a.keyCursor--
		}
	case "down", "j":
		if a.keyCursor < len(it.Report.Candidates)-1 {
			a.keyCursor++
		}
	case "p":
		a.showPSK = !a.showPSK
	case "s":
		a.saveSelected()
	}
	return a, nil
}

func (a *App) saveSelected() {
	it, ok := a.Selected()
	if !ok {
		return
	}
	if a.store == nil {
		a.status = "history is disabled"
		return
	}
	if !it.Report.Found() {
		a.status = "nothing to save for " + it.Report.BSSID
		return
	}
	if err := a.store.Add(it.Report); err != nil {
		a.status = "save failed: " + err.Error()
		return
	}
	a.status = "saved " + it.Report.BSSID
}

// Rendering

func (a *App) renderHeader() string {
	found := 0
	for _, it := range a.items {
		if it.Report.Found() {
			found++
		}
	}
	title := bannerStyle.Render("KeyBear")
	status := statusBarStyle.Render(fmt.Sprintf(
		"Networks: %d | With keys: %d", len(a.items), found,
	))

	gap := " "
	if a.width > 0 {
		gapLen := a.width - len("KeyBear") - len(status) - 4
		if gapLen > 1 {
			gap = strings.Repeat(" ", gapLen)
		}
	}

	return borderStyle.Render(title + gap + status)
}

func (a *App) renderListView() string {
	s := a.renderHeader() + "\n"

	rows := a.visible()
	if len(rows) == 0 {
		s += "\n" + dimStyle.Render("  No networks to show.") + "\n"
	} else {
		s += headerStyle.Render(fmt.Sprintf(
			"%-4s %-22s %-19s %3s %-6s %4s %-5s %s",
			"#", "SSID", "BSSID", "CH", "ENC", "SIG", "KEYS", "SCHEME",
		))
		s += "\n"

		for i, it := range rows {
			r := it.Report
			ssid := r.SSID
			if ssid == "" {
				ssid = "<hidden>"
			}
			if rs := []rune(ssid); len(rs) > 20 {
				ssid = string(rs[:20]) + ".."
			}

			keys := failStyle.Render(fmt.Sprintf("%-5s", "-"))
			if r.Found() {
				keys = successStyle.Render(fmt.Sprintf("%-5d", len(r.Candidates)))
			}

			scheme := dimStyle.Render("none")
			if len(r.Matched) > 0 {
				scheme = strings.Join(r.Matched, ",")
			}

			signal := "    "
			if it.Power != 0 {
				signal = SignalBar(it.Power)
			}

			line := fmt.Sprintf("  %-4d %-22s %-19s %3d %s %s %s %s",
				i+1, ssid, r.BSSID, it.Channel, EncryptionColor(r.Encryption), signal, keys, scheme)

			if i == a.cursor {
				line = selectedRowStyle.Render(line)
			}
			s += line + "\n"
		}
	}

	s += a.renderStatus()
	s += "\n" + a.renderFooter([]keyHelp{
		{"Enter", "Keys"},
		{"f", "Filter"},
		{"s", "Save"},
		{"?", "Help"},
		{"q", "Quit"},
	})
	return s
}

func (a *App) renderDetailView() string {
	s := a.renderHeader() + "\n\n"

	it, ok := a.Selected()
	if !ok {
		return s
	}
	r := it.Report

	ssid := r.SSID
	if ssid == "" {
		ssid = "<hidden>"
	}
	s += infoStyle.Render(fmt.Sprintf("  Network: %s (%s)", ssid, r.BSSID))
	s += "\n"
	if len(r.Matched) > 0 {
		s += dimStyle.Render("  Matched: "+strings.Join(r.Matched, ", ")) + "\n"
	}
	s += "\n"

	if !r.Found() {
		s += failStyle.Render("  No candidate keys.") + "\n"
	} else {
		s += headerStyle.Render(fmt.Sprintf("%-8s %-28s %-18s %-7s %s", "KIND", "KEY", "ALGORITHM", "CONF", "NOTE"))
		s += "\n"
		for i, c := range r.Candidates {
			conf := successStyle.Render(fmt.Sprintf("%-7s", "exact"))
			if c.Of > 1 {
				conf = encWPAStyle.Render(fmt.Sprintf("%-7s", fmt.Sprintf("1/%d", c.Of)))
			}
			line := fmt.Sprintf("  %-8s %-28s %-18s %s %s", c.Kind, c.Value, c.Algorithm, conf, c.Note)
			if i == a.keyCursor {
				line = selectedRowStyle.Render(line)
			}
			s += line + "\n"
		}

		if a.showPSK {
			s += "\n" + a.renderPSK(r)
		}
	}

	for _, f := range r.Failures {
		s += failStyle.Render(fmt.Sprintf("  [-] %s: %s", f.Algorithm, f.Error)) + "\n"
	}

	s += a.renderStatus()
	s += "\n" + a.renderFooter([]keyHelp{
		{"p", "PSK"},
		{"s", "Save"},
		{"Esc", "Back"},
		{"q", "Quit"},
	})
	return s
}

func (a *App) renderPSK(r result.Report) string {
	if a.keyCursor >= len(r.Candidates) {
		return ""
	}
	c := r.Candidates[a.keyCursor]
	psk := c.PSK
	if psk == "" && c.Kind == "wpa" {
		psk, _ = wifi.PSK(c.Value, r.SSID)
	}
	if psk == "" {
		return dimStyle.Render("  No PSK for this key.") + "\n"
	}
	return infoStyle.Render("  PSK: ") + psk + "\n"
}

func (a *App) renderHelpView() string {
	s := a.renderHeader() + "\n\n"
	s += bannerStyle.Render("  Keyboard Shortcuts") + "\n\n"

	help := []keyHelp{
		{"j/k or Up/Down", "Navigate"},
		{"Enter", "Show candidate keys"},
		{"f", "Only networks with keys"},
		{"p", "Show WPA PSK of selected key"},
		{"s", "Save network to history"},
		{"?", "Toggle help"},
		{"Esc", "Go back"},
		{"q / Ctrl+C", "Quit"},
	}

	for _, h := range help {
		s += fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-20s", h.key)),
			helpStyle.Render(h.desc),
		)
	}

	s += "\n"
	s += borderStyle.Render("  " + keyStyle.Render("[Esc]") + " " + helpStyle.Render("Back"))

	return s
}

type keyHelp struct{ key, desc string }

func (a *App) renderFooter(keys []keyHelp) string {
	s := "  "
	for i, k := range keys {
		if i > 0 {
			s += "  "
		}
		s += keyStyle.Render("["+k.key+"]") + " " + helpStyle.Render(k.desc)
	}
	return borderStyle.Render(s)
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	return "\n" + dimStyle.Render("  "+a.status) + "\n"
}

// Run starts the Bubble Tea program.
func Run(app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
