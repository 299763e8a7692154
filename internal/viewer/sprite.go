package viewer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// fishDesign faces "up" (towards -Y on screen).
var fishDesign = []string{
	"....W....",
	"...WBW...",
	"..BBBBB..",
	"..BEBEB..",
	".BBBBBBB.",
	".BBBBBBB.",
	"..BBBBB..",
	"...BBB...",
	"....B....",
	"...T.T...",
	"..T...T..",
}

var fishPalette = map[rune]color.RGBA{
	'W': {R: 255, G: 255, B: 255, A: 255},
	'B': {R: 255, G: 255, B: 255, A: 220}, // tinted per boid with ColorScale
	'E': {R: 20, G: 20, B: 20, A: 255},
	'T': {R: 255, G: 255, B: 255, A: 140},
}

// generateSprite paints design pixel by pixel; unknown runes stay transparent.
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := 0
	for _, row := range design {
		w = max(w, len(row))
	}
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}
