package viz

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// spikeNoise is a fixed-seed normalized (0..1) simplex source. Package
// level and immutable, so field evaluation stays a pure function of its
// arguments.
var spikeNoise = opensimplex.NewNormalized(1337)

// SpikeSample blends two octaves of simplex noise over a direction and
// time, then sharpens the result so peaks become spikes and valleys stay
// rounded. Output is in [0,1].
func SpikeSample(dir mgl32.Vec3, t float32) float32 {
	tt := float64(t * SpikeTimeScale)
	low := spikeNoise.Eval3(
		float64(dir[0])*SpikeFreqLow+tt,
		float64(dir[1])*SpikeFreqLow+tt*0.9,
		float64(dir[2])*SpikeFreqLow,
	)
	high := spikeNoise.Eval3(
		float64(dir[0])*SpikeFreqHigh-tt*1.7,
		float64(dir[1])*SpikeFreqHigh+tt*1.3,
		float64(dir[2])*SpikeFreqHigh+tt,
	)
	n := SpikeOctaveLow*float32(low) + (1-SpikeOctaveLow)*float32(high)
	return math32.Pow(clampF(n, 0, 1), SpikeSharpness)
}
