package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessrelay/internal/board"
)

// Colors used for the board image.
var (
	lightSquare = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	darkSquare  = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	whitePiece  = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	blackPiece  = color.RGBA{0x26, 0x26, 0x26, 0xff}
	pendingRing = color.RGBA{0xd9, 0x3b, 0x3b, 0xff}
)

// Options controls PNG output.
type Options struct {
	Size        int  // Edge length in pixels; rounded down to a multiple of 8
	Flip        bool // Draw from Black's side
	Coordinates bool // Label files and ranks along the edges
}

// DefaultOptions returns a 480 pixel board with coordinates.
func DefaultOptions() Options {
	return Options{Size: 480, Coordinates: true}
}

// minSize keeps every square large enough for a letter.
const minSize = 64

// PNG writes the board as a PNG image.
func PNG(w io.Writer, b *board.Board, opts Options) error {
	img, err := Image(b, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image rasterizes the board. Squares and piece discs are laid out as an SVG
// document; piece letters and coordinates are drawn on top with a TrueType face.
func Image(b *board.Board, opts Options) (*image.RGBA, error) {
	if opts.Size < minSize {
		return nil, fmt.Errorf("render: size %d below minimum %d", opts.Size, minSize)
	}
	sq := opts.Size / 8
	size := sq * 8

	icon, err := oksvg.ReadIconStream(strings.NewReader(boardSVG(b, opts.Flip)))
	if err != nil {
		return nil, fmt.Errorf("render: parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceFace, err := newFace(float64(sq) * 0.5)
	if err != nil {
		return nil, err
	}
	defer pieceFace.Close()

	for s := board.A1; s <= board.H8; s++ {
		pt, c := b.PieceAt(s)
		if pt == board.NoPieceType {
			continue
		}
		letter, err := pt.Symbol(board.White)
		if err != nil {
			return nil, err
		}
		ink := blackPiece
		if c == board.Black {
			ink = whitePiece
		}
		x, y := squareOrigin(s, sq, opts.Flip)
		drawCentered(rgba, pieceFace, string(letter), ink, x, y, sq)
	}

	if opts.Coordinates {
		if err := drawCoordinates(rgba, sq, opts.Flip); err != nil {
			return nil, err
		}
	}
	return rgba, nil
}

// boardSVG lays out the board in a 0..8 viewBox, one unit per square.
func boardSVG(b *board.Board, flip bool) string {
	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 8 8" width="8" height="8">`)
	for s := board.A1; s <= board.H8; s++ {
		col, row := gridPos(s, flip)
		fill := lightSquare
		if (s.File()+s.Rank())%2 == 0 {
			fill = darkSquare
		}
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="1" height="1" fill="%s"/>`, col, row, hex(fill))

		pt, c := b.PieceAt(s)
		if pt == board.NoPieceType {
			continue
		}
		disc, edge := whitePiece, blackPiece
		if c == board.Black {
			disc, edge = blackPiece, whitePiece
		}
		if s == b.PendingPromotion() {
			edge = pendingRing
		}
		fmt.Fprintf(&sb, `<circle cx="%g" cy="%g" r="0.38" fill="%s" stroke="%s" stroke-width="0.05"/>`,
			float64(col)+0.5, float64(row)+0.5, hex(disc), hex(edge))
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}

// gridPos returns the column and row of a square, row 0 at the top.
func gridPos(s board.Square, flip bool) (col, row int) {
	col, row = s.File(), 7-s.Rank()
	if flip {
		col, row = 7-col, 7-row
	}
	return col, row
}

func squareOrigin(s board.Square, sq int, flip bool) (x, y int) {
	col, row := gridPos(s, flip)
	return col * sq, row * sq
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func newFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawCentered draws s centered in the sq-sized cell whose top-left is x, y.
func drawCentered(dst draw.Image, face font.Face, s string, ink color.Color, x, y, sq int) {
	m := face.Metrics()
	width := font.MeasureString(face, s)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
	}
	d.Dot = fixed.Point26_6{
		X: fixed.I(x) + (fixed.I(sq)-width)/2,
		Y: fixed.I(y) + (fixed.I(sq)+m.Ascent-m.Descent)/2,
	}
	d.DrawString(s)
}

// drawCoordinates labels files along the bottom row and ranks along the left
// column, in the corner of each edge square.
func drawCoordinates(dst *image.RGBA, sq int, flip bool) error {
	face, err := newFace(float64(sq) * 0.2)
	if err != nil {
		return err
	}
	defer face.Close()

	pad := sq / 16
	d := font.Drawer{Dst: dst, Face: face}
	for i := 0; i < 8; i++ {
		file, rank := i, 7-i
		if flip {
			file, rank = 7-i, i
		}

		d.Src = image.NewUniform(labelInk(i, 7))
		d.Dot = fixed.P(i*sq+sq-pad-font.MeasureString(face, "h").Ceil(), 8*sq-pad)
		d.DrawString(string(rune('a' + file)))

		d.Src = image.NewUniform(labelInk(0, i))
		d.Dot = fixed.P(pad, i*sq+pad+face.Metrics().Ascent.Ceil())
		d.DrawString(string(rune('1' + rank)))
	}
	return nil
}

// labelInk contrasts a label with the cell it sits on. Flipping the board
// keeps every cell's shade, so only the grid position matters.
func labelInk(col, row int) color.Color {
	if (col+7-row)%2 == 0 {
		return lightSquare
	}
	return darkSquare
}

// EncodePNG is PNG into a byte slice.
func EncodePNG(b *board.Board, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, b, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
