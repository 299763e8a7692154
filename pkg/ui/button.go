package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per press.
type Button struct {
	Label   string
	OnClick func()

	X, Y  float64
	W, H  float64
	hover bool
	press

	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewButton creates an unplaced button.
func NewButton(label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		OnClick:    onClick,
		H:          20,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) Update(in Input) {
	b.hover = in.over(b.X, b.Y, b.W, b.H)
	if b.clicked(in, b.hover) && b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if b.hover {
		bg = b.HoverColor
	}
	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		bg, true)
	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X+6), int(b.Y+3))
}

func (b *Button) Height() float64 { return b.H + 6 }

func (b *Button) place(x, y, width float64) {
	b.X, b.Y, b.W = x, y, width
}
