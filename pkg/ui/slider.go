package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider picks a value in [Min, Max] by dragging along its bar.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	OnChange func(float64)

	X, Y float64
	W, H float64
}

// NewSlider creates an unplaced slider. value is clamped to [min, max].
func NewSlider(label string, min, max, value float64, onChange func(float64)) *Slider {
	s := &Slider{Label: label, Min: min, Max: max, OnChange: onChange, H: 12}
	s.Value = s.clamp(value)
	return s
}

// Update moves the value under the cursor while the button is held on the bar.
func (s *Slider) Update(in Input) {
	if !in.Pressed || !in.over(s.X, s.Y, s.W, s.H) || s.W <= 0 {
		return
	}
	v := s.clamp(s.Min + (in.X-s.X)/s.W*(s.Max-s.Min))
	if v != s.Value {
		s.Value = v
		if s.OnChange != nil {
			s.OnChange(v)
		}
	}
}

func (s *Slider) clamp(v float64) float64 {
	return max(s.Min, min(v, s.Max))
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.2f", s.Label, s.Value), int(s.X), int(s.Y-16))
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) Height() float64 { return s.H + 22 }

// the label is drawn above the bar
func (s *Slider) place(x, y, width float64) {
	s.X, s.Y, s.W = x, y+16, width
}
