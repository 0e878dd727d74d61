// Package render turns run artifacts into shaded map images.
package render

import (
	"image"
	"image/color"

	"terrasim/internal/pipeline"
)

const (
	seaShades  = 16
	landShades = 48
	riverIndex = seaShades + landShades
	lakeIndex  = riverIndex + 1
)

// Overlay colours for extracted features.
var (
	RiverColor = color.RGBA{R: 40, G: 110, B: 230, A: 255}
	LakeColor  = color.RGBA{R: 70, G: 150, B: 210, A: 255}
)

// palette lays out sea shades, then land shades, then the river and lake
// overlay colours.
var palette = func() []color.RGBA {
	p := gradient(seaShades,
		color.RGBA{R: 8, G: 24, B: 72, A: 255},
		color.RGBA{R: 36, G: 92, B: 160, A: 255},
	)
	p = append(p, gradient(landShades,
		color.RGBA{R: 196, G: 186, B: 130, A: 255},
		color.RGBA{R: 70, G: 130, B: 60, A: 255},
		color.RGBA{R: 120, G: 96, B: 70, A: 255},
		color.RGBA{R: 245, G: 245, B: 245, A: 255},
	)...)
	return append(p, RiverColor, LakeColor)
}()

// Terrain shades the final heights of art. Cells at or below seaLevel are
// drawn as sea; rivers and lakes are painted over the terrain.
func Terrain(art *pipeline.Artifacts, seaLevel float32) *image.RGBA {
	w, h := art.Size.W, art.Size.H
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(art.Heights) != w*h {
		return img
	}

	cells := make([]uint8, w*h)
	for i, v := range art.Heights {
		cells[i] = shade(v, seaLevel)
	}
	for _, l := range art.Lakes {
		for _, c := range l.Cells {
			cells[c.Index(w)] = lakeIndex
		}
	}
	for _, r := range art.Rivers {
		for _, c := range r.Cells {
			cells[c.Index(w)] = riverIndex
		}
	}

	fillPaletteRGBA(img.Pix, cells, palette)
	return img
}

func shade(v, seaLevel float32) uint8 {
	if v <= seaLevel {
		if seaLevel <= 0 {
			return seaShades - 1
		}
		return uint8(clamp01(v/seaLevel) * (seaShades - 1))
	}
	span := 1 - seaLevel
	if span <= 0 {
		return seaShades
	}
	return seaShades + uint8(clamp01((v-seaLevel)/span)*(landShades-1))
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
