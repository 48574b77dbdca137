package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/labyrinth/internal/grid"
)

// Catppuccin Mocha, the subset the maze view uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorBrand   = colorPink
	colorAccent  = colorPink
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// cellColor is the fill of each cell kind.
func cellColor(c grid.Cell) lipgloss.Color {
	switch c {
	case grid.Wall:
		return colorSubtext1
	case grid.Start:
		return colorSuccess
	case grid.End:
		return colorError
	case grid.Path:
		return colorWarning
	default:
		return colorSurface0
	}
}

// noticeColor is the modal border for each notice level.
func noticeColor(l noticeLevel) lipgloss.Color {
	switch l {
	case noticeError:
		return colorError
	case noticeWarning:
		return colorPeach
	default:
		return colorInfo
	}
}
