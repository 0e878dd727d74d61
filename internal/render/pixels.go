package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// gradient returns n colours blending linearly through stops.
func gradient(n int, stops ...color.RGBA) []color.RGBA {
	out := make([]color.RGBA, n)
	if len(stops) == 0 {
		return out
	}
	if len(stops) == 1 || n == 1 {
		for i := range out {
			out[i] = stops[0]
		}
		return out
	}
	segs := float64(len(stops) - 1)
	for i := range out {
		t := float64(i) / float64(n-1) * segs
		s := min(int(t), len(stops)-2)
		f := t - float64(s)
		a, b := stops[s], stops[s+1]
		out[i] = color.RGBA{
			R: lerp8(a.R, b.R, f),
			G: lerp8(a.G, b.G, f),
			B: lerp8(a.B, b.B, f),
			A: lerp8(a.A, b.A, f),
		}
	}
	return out
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}
