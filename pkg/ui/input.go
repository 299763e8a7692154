// Package ui holds the small immediate-mode widgets of the flock viewer's
// control panel, drawn with ebiten's vector package.
package ui

import "github.com/hajimehoshi/ebiten/v2"

// Input is the pointer state of one frame. Widgets read it instead of
// polling ebiten so they can be driven from tests.
type Input struct {
	X, Y    float64
	Pressed bool    // left button held
	WheelY  float64 // vertical wheel delta
}

// ReadInput samples ebiten's cursor, left button and wheel.
func ReadInput() Input {
	mx, my := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()
	return Input{
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		WheelY:  dy,
	}
}

func (in Input) over(x, y, w, h float64) bool {
	return in.X >= x && in.X <= x+w && in.Y >= y && in.Y <= y+h
}

// Widget is anything a Panel can lay out.
type Widget interface {
	Update(in Input)
	Draw(screen *ebiten.Image)
	Height() float64
	place(x, y, width float64)
}

// press tracks a click edge so a held button fires once.
type press struct {
	held bool
}

// clicked reports true on the first frame in is pressed over the area.
func (p *press) clicked(in Input, over bool) bool {
	if over && in.Pressed {
		if !p.held {
			p.held = true
			return true
		}
		return false
	}
	p.held = false
	return false
}
