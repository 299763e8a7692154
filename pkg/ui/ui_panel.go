package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	panelTitleHeight   = 30.0
	sectionHeaderSpace = 25.0
	panelMargin        = 10.0
)

// section is a titled run of widgets.
type section struct {
	title   string
	widgets []Widget
}

// Panel lays out widgets in titled sections and scrolls them with the wheel.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []*section
}

// NewPanel creates an empty panel.
func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section; widgets added afterwards belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, &section{title: title})
}

// Add appends w to the current section, starting an untitled one if needed,
// and returns w.
func (p *Panel) Add(w Widget) Widget {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	s := p.sections[len(p.sections)-1]
	s.widgets = append(s.widgets, w)
	p.layout()
	return w
}

// AddCheckbox adds a checkbox to the current section.
func (p *Panel) AddCheckbox(label string, value bool, onChange func(bool)) *Checkbox {
	c := NewCheckbox(label, value, onChange)
	p.Add(c)
	return c
}

// AddButton adds a button to the current section.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(label, onClick)
	p.Add(b)
	return b
}

// AddSlider adds a slider to the current section.
func (p *Panel) AddSlider(label string, min, max, value float64, onChange func(float64)) *Slider {
	s := NewSlider(label, min, max, value, onChange)
	p.Add(s)
	return s
}

// Contains reports whether (x, y) is over the panel.
func (p *Panel) Contains(x, y float64) bool {
	return Input{X: x, Y: y}.over(p.X, p.Y, p.Width, p.Height)
}

// ContentHeight is the height of everything the panel holds, unscrolled.
func (p *Panel) ContentHeight() float64 {
	h := panelTitleHeight
	for _, s := range p.sections {
		h += sectionHeaderSpace
		for _, w := range s.widgets {
			h += w.Height()
		}
	}
	return h
}

// Update scrolls when the wheel turns over the panel, then feeds in to every
// widget. Widgets scrolled out of view ignore the pointer.
func (p *Panel) Update(in Input) {
	if in.WheelY != 0 && p.Contains(in.X, in.Y) {
		maxScroll := max(0, p.ContentHeight()-p.Height+40)
		p.ScrollOffset = max(0, min(p.ScrollOffset-in.WheelY*20, maxScroll))
		p.layout()
	}

	for _, s := range p.sections {
		for _, w := range s.widgets {
			if p.visible(w) {
				w.Update(in)
			} else {
				w.Update(Input{X: -1, Y: -1})
			}
		}
	}
}

// layout places every widget at its scrolled position.
func (p *Panel) layout() {
	y := p.Y + panelTitleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeaderSpace
		for _, w := range s.widgets {
			w.place(p.X+panelMargin, y, p.Width-2*panelMargin)
			y += w.Height()
		}
	}
}

func (p *Panel) visible(w Widget) bool {
	_, y := widgetOrigin(w)
	return y >= p.Y+panelTitleHeight && y+w.Height() <= p.Y+p.Height
}

func widgetOrigin(w Widget) (float64, float64) {
	switch w := w.(type) {
	case *Checkbox:
		return w.X, w.Y
	case *Button:
		return w.X, w.Y
	case *Slider:
		return w.X, w.Y - 16
	}
	return 0, 0
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+panelMargin), int(p.Y+5))

	headerBG := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	y := p.Y + panelTitleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if y >= p.Y+panelTitleHeight && y <= p.Y+p.Height-20 && s.title != "" {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				headerBG, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+panelMargin), int(y+3))
		}
		y += sectionHeaderSpace
		for _, w := range s.widgets {
			if p.visible(w) {
				w.Draw(screen)
			}
			y += w.Height()
		}
	}
}
