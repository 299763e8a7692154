package ui

import "testing"

func TestCheckbox_TogglesOncePerPress(t *testing.T) {
	var changes []bool
	p := NewPanel("Flock", 0, 0, 200, 300)
	p.AddSection("Steering")
	c := p.AddCheckbox("Separation", true, func(v bool) { changes = append(changes, v) })

	on := Input{X: c.X + 2, Y: c.Y + 2, Pressed: true}
	p.Update(on)
	p.Update(on) // still held
	p.Update(Input{X: on.X, Y: on.Y})
	p.Update(on)

	if len(changes) != 2 || changes[0] != false || changes[1] != true {
		t.Errorf("changes = %v; want [false true]", changes)
	}
	if !c.Value {
		t.Error("Value = false after two toggles from true")
	}
}

func TestButton_ClickOutsideIgnored(t *testing.T) {
	clicks := 0
	p := NewPanel("Flock", 10, 10, 200, 300)
	b := p.AddButton("Reset", func() { clicks++ })

	p.Update(Input{X: b.X + b.W + 5, Y: b.Y + 1, Pressed: true})
	if clicks != 0 {
		t.Fatalf("click beside the button fired")
	}
	p.Update(Input{})
	p.Update(Input{X: b.X + 1, Y: b.Y + 1, Pressed: true})
	if clicks != 1 {
		t.Errorf("clicks = %d; want 1", clicks)
	}
}

func TestSlider_MapsAndClamps(t *testing.T) {
	var last float64
	p := NewPanel("Flock", 0, 0, 220, 300)
	s := p.AddSlider("Time scale", 0, 2, 1, func(v float64) { last = v })

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"Left edge", s.X, 0},
		{"Quarter", s.X + s.W/4, 0.5},
		{"Right edge", s.X + s.W, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.Update(Input{X: tt.x, Y: s.Y + 1, Pressed: true})
			if s.Value != tt.want || last != tt.want {
				t.Errorf("Value = %v (callback %v); want %v", s.Value, last, tt.want)
			}
		})
	}

	if got := NewSlider("x", 0, 1, 5, nil).Value; got != 1 {
		t.Errorf("initial value not clamped: %v", got)
	}
}

func TestPanel_LayoutAndScroll(t *testing.T) {
	p := NewPanel("Flock", 0, 0, 200, 120)
	p.AddSection("Steering")
	first := p.AddCheckbox("A", false, nil)
	for i := 0; i < 10; i++ {
		p.AddCheckbox("filler", false, nil)
	}
	if first.Y != panelTitleHeight+sectionHeaderSpace {
		t.Fatalf("first widget at y=%v; want %v", first.Y, panelTitleHeight+sectionHeaderSpace)
	}

	p.Update(Input{X: 50, Y: 50, WheelY: -1})
	if p.ScrollOffset != 20 {
		t.Fatalf("ScrollOffset = %v; want 20", p.ScrollOffset)
	}
	if first.Y != panelTitleHeight+sectionHeaderSpace-20 {
		t.Errorf("first widget did not scroll: y=%v", first.Y)
	}

	// scrolled under the title: clicks must not reach it
	p.Update(Input{X: 50, Y: 50, WheelY: -1})
	p.Update(Input{X: first.X + 1, Y: first.Y + 1, Pressed: true})
	if first.Value {
		t.Error("hidden checkbox toggled")
	}

	for i := 0; i < 100; i++ {
		p.Update(Input{X: 50, Y: 50, WheelY: -1})
	}
	if want := p.ContentHeight() - p.Height + 40; p.ScrollOffset != want {
		t.Errorf("ScrollOffset = %v; want clamp at %v", p.ScrollOffset, want)
	}
	if p.Contains(250, 50) {
		t.Error("Contains reported a point right of the panel")
	}
}
