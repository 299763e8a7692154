package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean and reports changes through OnChange.
type Checkbox struct {
	Label    string
	Value    bool
	OnChange func(bool)

	X, Y float64
	Size float64
	press
}

// NewCheckbox creates an unplaced checkbox.
func NewCheckbox(label string, value bool, onChange func(bool)) *Checkbox {
	return &Checkbox{
		Label:    label,
		Value:    value,
		OnChange: onChange,
		Size:     16,
	}
}

// Update toggles the value on a click over the box or its label.
func (c *Checkbox) Update(in Input) {
	if c.clicked(in, in.over(c.X, c.Y, c.Size+8+float64(len(c.Label))*6, c.Size)) {
		c.Value = !c.Value
		if c.OnChange != nil {
			c.OnChange(c.Value)
		}
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

func (c *Checkbox) Height() float64 { return c.Size + 6 }

func (c *Checkbox) place(x, y, _ float64) { c.X, c.Y = x, y }
