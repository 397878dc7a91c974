package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jmylchreest/carlogos/internal/grid"
)

// Card geometry, borders included.
const (
	cardWidth  = 20
	cardHeight = 4
	cardInner  = cardWidth - 2

	// header, search bar and footer
	chromeLines = 3
)

func cardZoneID(i int) string {
	return fmt.Sprintf("card-%d", i)
}

// previewPaneWidth is the width of the preview column, or 0 when hidden.
func (m Model) previewPaneWidth() int {
	if !m.cfg.TUI.Preview {
		return 0
	}
	w := m.cfg.TUI.PreviewWidth + 4
	if m.width < w+2*cardWidth {
		return 0
	}
	return w
}

// columns is the number of cards per grid row.
func (m Model) columns() int {
	return max(1, (m.width-m.previewPaneWidth())/cardWidth)
}

// visibleRows is the number of card rows that fit on screen.
func (m Model) visibleRows() int {
	return max(1, (m.height-chromeLines)/cardHeight)
}

// visibleRange returns the [first, last) card indexes on screen.
func (m Model) visibleRange() (int, int) {
	cols := m.columns()
	first := m.topRow * cols
	last := min(len(m.view.cards), (m.topRow+m.visibleRows())*cols)
	if first > last {
		first = last
	}
	return first, last
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var s string
	switch m.mode {
	case ModeHelp:
		s = m.viewHelp()
	case ModeDetail:
		s = m.viewDetail()
	default:
		s = m.viewMain()
	}
	return zone.Scan(s)
}

func (m Model) viewMain() string {
	body := m.viewBody()
	if pw := m.previewPaneWidth(); pw > 0 && len(m.view.cards) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.width-pw).Render(body),
			m.viewPreviewPane(pw),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.search.View(),
		lipgloss.NewStyle().Height(m.height-chromeLines).MaxHeight(m.height-chromeLines).Render(body),
		m.viewFooter("grid"),
	)
}

func (m Model) viewHeader() string {
	p := m.view.palette
	title := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render("Car Logos")
	count := lipgloss.NewStyle().Foreground(p.TextMuted).Render(m.view.count)
	left := title
	if m.view.count != "" {
		left += "  " + count
	}

	icon := zone.Mark(zoneThemeToggle, m.view.icon)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(icon)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + icon
}

// viewBody renders the grid, or the indicator that replaces it.
func (m Model) viewBody() string {
	p := m.view.palette
	muted := lipgloss.NewStyle().Foreground(p.TextMuted).Padding(1, 2)

	switch {
	case m.view.loading:
		return muted.Render("Loading logos...")
	case m.view.failed:
		msg := "Failed to load logos. Press r to retry."
		if err := m.ctrl.Err(); err != nil {
			msg += "\n" + err.Error()
		}
		return lipgloss.NewStyle().Foreground(p.Error).Padding(1, 2).Render(msg)
	case m.view.empty:
		return muted.Render("No logos found matching your search.")
	}

	cols := m.columns()
	first, last := m.visibleRange()
	var rows []string
	for start := first; start < last; start += cols {
		end := min(start+cols, last)
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCard(i, m.view.cards[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(i int, c grid.Card) string {
	if !m.revealed(c) {
		return lipgloss.NewStyle().Width(cardWidth).Height(cardHeight).Render("")
	}

	p := m.view.palette
	border := p.Border
	if i == m.cursor {
		border = p.BorderFocused
	}

	initials := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render(c.Logo.Initials())
	name := lipgloss.NewStyle().Foreground(p.Text).Render(truncate(c.Name, cardInner))

	card := lipgloss.NewStyle().
		Width(cardInner).
		Height(cardHeight-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(initials + "\n" + name)

	return zone.Mark(cardZoneID(i), card)
}

func (m Model) viewPreviewPane(width int) string {
	p := m.view.palette
	c, ok := m.view.card(m.cursor)
	if !ok {
		return ""
	}

	var art string
	switch {
	case m.previewRes == nil || m.previewKey != m.currentPreviewKey():
		art = lipgloss.NewStyle().Foreground(p.TextMuted).Render("Loading image...")
	default:
		art = m.previewRes.Art
	}

	lines := []string{
		art,
		"",
		lipgloss.NewStyle().Bold(true).Foreground(p.Text).Render(truncate(c.Name, width-4)),
	}
	if host := c.Logo.SourceHost(); host != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.TextMuted).Render(truncate(host, width-4)))
	}
	if m.previewRes != nil && m.previewRes.Fallback {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.TextMuted).Render("(fallback image)"))
	}

	return lipgloss.NewStyle().
		Width(width-2).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter(mode string) string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(m.view.palette.Success)
		if m.statusErr {
			style = style.Foreground(m.view.palette.Error)
		}
		return style.Render(m.statusMsg)
	}
	// The line stays reserved for status messages.
	if !m.cfg.TUI.ShowHelp {
		return ""
	}
	if m.mode == ModeSearch {
		mode = "search"
	}
	return m.buildKeybindBar(m.width, mode)
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(m.view.palette.Accent).
		Render("Logo Detail")

	return header + "\n" + m.viewport.View() + "\n" + m.viewFooter("detail")
}

// renderDetail renders the detail view for the selected logo.
func (m Model) renderDetail() string {
	c, ok := m.view.card(m.cursor)
	if !ok {
		return ""
	}
	p := m.view.palette
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	labelStyle := lipgloss.NewStyle().Foreground(p.TextMuted)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(c.Name) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label+":")) + " " + value + "\n")
	}
	field("Slug", c.Logo.Slug)
	field("Image", c.Image)
	field("Fallback", c.FallbackImage)
	field("Original", c.Logo.Image.Original)
	field("Source", c.Logo.Image.Source)
	field("Host", c.Logo.SourceHost())

	if m.previewRes != nil && m.previewKey == m.currentPreviewKey() {
		sb.WriteString("\n" + m.previewRes.Art + "\n")
		switch {
		case m.previewRes.Placeholder:
			sb.WriteString(labelStyle.Render("No image could be loaded") + "\n")
		case m.previewRes.Fallback:
			sb.WriteString(labelStyle.Render("Showing fallback "+m.previewRes.URL) + "\n")
		}
	}

	return sb.String()
}

func (m Model) viewHelp() string {
	p := m.view.palette
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		MarginBottom(1).
		Render("Keyboard Shortcuts")

	return title + "\n\n" + m.help.View(m.keys) + "\n\n" +
		lipgloss.NewStyle().Foreground(p.TextMuted).Render("Press ? or esc to return")
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "grid", "detail", "search"
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(m.view.palette.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(m.view.palette.Accent)

	var binds []keybind

	switch mode {
	case "grid":
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "open", 2},
			{"ctrl+k", "search", 3},
			{"?", "help", 4},
			{"t", "theme", 5},
			{"i", "details", 6},
			{"c", "copy URL", 7},
			{"hjkl", "move", 8},
			{"r", "reload", 9},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"enter", "open", 3},
			{"c", "copy URL", 4},
			{"j/k", "scroll", 5},
		}
	case "search":
		binds = []keybind{
			{"enter", "apply", 1},
			{"esc", "clear", 2},
			{"↑/↓", "navigate", 3},
		}
	}

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		plainItem := b.key + " " + b.desc
		testLen := len(plainItem)
		if result != "" {
			testLen += lipgloss.Width(result) + len(separator)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
