// Package tui implements an interactive terminal front end using tcell.
package tui

import "github.com/gdamore/tcell/v2"

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare  tcell.Color
	DarkSquare   tcell.Color
	WhitePiece   tcell.Color
	BlackPiece   tcell.Color
	PendingColor tcell.Color
	CheckColor   tcell.Color
	CheckerColor tcell.Color
	Background   tcell.Color
	TextColor    tcell.Color
	ErrorColor   tcell.Color
	OKColor      tcell.Color
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:  tcell.NewRGBColor(240, 217, 181), // Tan
		DarkSquare:   tcell.NewRGBColor(181, 136, 99),  // Brown
		WhitePiece:   tcell.NewRGBColor(250, 250, 250),
		BlackPiece:   tcell.NewRGBColor(38, 38, 38),
		PendingColor: tcell.NewRGBColor(217, 59, 59),
		CheckColor:   tcell.NewRGBColor(255, 100, 100),
		CheckerColor: tcell.NewRGBColor(230, 160, 60),
		Background:   tcell.NewRGBColor(40, 44, 52),
		TextColor:    tcell.NewRGBColor(220, 220, 220),
		ErrorColor:   tcell.NewRGBColor(255, 120, 120),
		OKColor:      tcell.NewRGBColor(130, 200, 130),
	}
}

func (t *Theme) text() tcell.Style {
	return tcell.StyleDefault.Background(t.Background).Foreground(t.TextColor)
}
