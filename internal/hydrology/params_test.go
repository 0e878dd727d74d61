package hydrology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMap(t *testing.T) {
	p := FromMap(map[string]string{
		"sea_level":       "0.35",
		"min_river_accum": "-1",
		"max_lake_slope":  "0.02",
		"max_river_len":   "abc",
	})
	def := DefaultParams()
	assert.Equal(t, float32(0.35), p.SeaLevel)
	assert.Equal(t, def.MinRiverAccum, p.MinRiverAccum)
	assert.Equal(t, float32(0.02), p.MaxLakeSlope)
	assert.Equal(t, def.MaxRiverLen, p.MaxRiverLen)
	assert.Equal(t, def, FromMap(nil))
}

func TestParametersKeys(t *testing.T) {
	assert.Equal(t,
		[]string{"sea_level", "min_river_accum", "max_lake_slope", "max_river_len"},
		DefaultParams().Parameters().Keys())
}
