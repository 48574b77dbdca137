package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/labyrinth/internal/grid"
)

// Grid geometry: the header takes one line, the box border one line and
// one column, and the box padding one more column.
const (
	gridOriginX = 2
	gridOriginY = 2
	cellWidth   = 2
)

var (
	headerAppStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	headerValue    = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	gridBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	lockedBoxStyle = gridBoxStyle.BorderForeground(colorWarning)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	modalTitleStyle = lipgloss.NewStyle().Bold(true)
	modalHintStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
)

// cellStyles is indexed by grid.Cell.
var cellStyles = func() []lipgloss.Style {
	kinds := []grid.Cell{grid.Empty, grid.Wall, grid.Start, grid.End, grid.Path}
	out := make([]lipgloss.Style, len(kinds))
	for _, c := range kinds {
		out[c] = lipgloss.NewStyle().Background(cellColor(c)).Foreground(colorMantle)
	}
	return out
}()

var cellGlyphs = [...]string{
	grid.Empty: " ·",
	grid.Wall:  "██",
	grid.Start: "S ",
	grid.End:   "E ",
	grid.Path:  "••",
}

func (a *App) View() string {
	box := gridBoxStyle
	if a.ctrl.Locked() {
		box = lockedBoxStyle
	}
	body := a.renderHeader() + "\n" + box.Render(a.renderGrid())
	view := body + "\n" + a.renderStatus() + "\n" + a.renderFooter(a.keys.HelpBindings(a.scope()))
	if a.notice == nil {
		return view
	}
	lines := splitLines(view)
	width := max(a.width, maxLineWidth(lines))
	height := max(a.height, len(lines))
	return centerOver(view, a.renderNotice(), width, height)
}

func (a *App) renderHeader() string {
	field := func(name, value string) string {
		return headerStyle.Render(name+" ") + headerValue.Render(value)
	}
	parts := []string{
		headerAppStyle.Render("Labyrinth"),
		field("algorithm", a.algorithm.Label()),
		field("mode", a.ctrl.Mode().String()),
		field("cursor", a.cursor.String()),
	}
	if a.pending != 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorWarning).Render("running"))
	}
	return strings.Join(parts, "  ")
}

func (a *App) renderGrid() string {
	g := a.ctrl.Grid()
	var b strings.Builder
	for r := 0; r < g.Rows(); r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, cell := range g.Row(r) {
			style := cellStyles[cell]
			if a.cursor.Row == r && a.cursor.Col == c {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(cellGlyphs[cell]))
		}
	}
	return b.String()
}

func (a *App) renderStatus() string {
	flat := strings.ReplaceAll(a.status, "\n", " ")
	if a.width == 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(a.width).Render(flat)
}

func (a *App) renderFooter(bindings []key.Binding) string {
	// every character carries the footer background
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)
	if a.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(a.width).Render(content)
}

func (a *App) renderNotice() string {
	n := a.notice
	content := fmt.Sprintf("%s\n\n%s\n\n%s",
		modalTitleStyle.Foreground(noticeColor(n.level)).Render(n.title),
		lipgloss.NewStyle().Width(44).Render(n.body),
		modalHintStyle.Render("[enter] ok"))
	return modalStyle.BorderForeground(noticeColor(n.level)).Render(content)
}
