package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrasim/internal/core"
	"terrasim/internal/hydrology"
	"terrasim/internal/pipeline"
)

func TestTerrainShadesAndOverlays(t *testing.T) {
	art := &pipeline.Artifacts{
		Size:    core.Size{W: 4, H: 2},
		Heights: []float32{0, 0.2, 0.6, 1, 0.1, 0.3, 0.5, 0.9},
		Rivers:  []hydrology.River{{Cells: []core.Cell{{X: 2, Y: 1}}}},
		Lakes:   []hydrology.Lake{{Cells: []core.Cell{{X: 3, Y: 1}}}},
	}
	img := Terrain(art, 0.2)
	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())

	assert.Equal(t, palette[0], img.RGBAAt(0, 0))
	assert.Equal(t, palette[seaShades-1], img.RGBAAt(1, 0))
	assert.Equal(t, palette[seaShades+landShades-1], img.RGBAAt(3, 0))
	assert.Equal(t, RiverColor, img.RGBAAt(2, 1))
	assert.Equal(t, LakeColor, img.RGBAAt(3, 1))
}

func TestTerrainMismatchedHeights(t *testing.T) {
	img := Terrain(&pipeline.Artifacts{Size: core.Size{W: 3, H: 3}}, 0.1)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(1, 1))
}

func TestShade(t *testing.T) {
	assert.Equal(t, uint8(seaShades-1), shade(0, 0))
	assert.Equal(t, uint8(seaShades), shade(1.5, 1))
	assert.Equal(t, uint8(7), shade(0.5, 1))
	assert.Less(t, shade(0.4, 0.2), shade(0.8, 0.2))
}

func TestFillPaletteRGBA(t *testing.T) {
	pal := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 7}, pal)
	assert.Equal(t, []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}, buf)

	fillPaletteRGBA(buf, []uint8{0, 1, 7}, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestGradient(t *testing.T) {
	g := gradient(3, color.RGBA{A: 255}, color.RGBA{R: 200, A: 255})
	assert.Equal(t, []color.RGBA{{A: 255}, {R: 100, A: 255}, {R: 200, A: 255}}, g)
	assert.Len(t, gradient(4), 4)
	assert.Equal(t, []color.RGBA{{R: 9}}, gradient(1, color.RGBA{R: 9}, color.RGBA{R: 50}))
}
