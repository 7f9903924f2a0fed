package viz

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// AudioFrame is the per-frame analysis result the engine consumes. All
// bands are normalized to [0,1]; Spectrum holds SpectrumBands normalized
// magnitudes for collaborators that want the raw shape.
type AudioFrame struct {
	Bass     float32
	Mid      float32
	Treble   float32
	Volume   float32
	Spectrum []float32
}

// Analyzer turns raw PCM into AudioFrames: Hann window, FFT, band
// bucketing with automatic gain control, and per-band smoothing. Sources
// push samples from their own goroutines; Frame is safe to call from the
// render loop.
type Analyzer struct {
	mu sync.Mutex

	window []float64
	buf    []float64 // mono accumulation, processed per FFTSize block

	bass, mid, treble, volume float64
	maxLevel                  float64
	spectrum                  []float32

	tap func([]float32) // receives every ingested mono block
}

func NewAnalyzer() *Analyzer {
	window := make([]float64, FFTSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(FFTSize-1)))
	}
	return &Analyzer{
		window:   window,
		buf:      make([]float64, 0, FFTSize*2),
		maxLevel: 0.1,
		spectrum: make([]float32, SpectrumBands),
	}
}

// SetTap registers a callback that receives every mono block the
// analyzer ingests, after downmixing. Collaborators that need the raw
// signal (the speech sidecar) attach here. The callback runs on the
// pushing goroutine, outside the analyzer lock.
func (a *Analyzer) SetTap(fn func([]float32)) {
	a.mu.Lock()
	a.tap = fn
	a.mu.Unlock()
}

// PushStereo feeds interleaved stereo sample pairs in [-1,1].
func (a *Analyzer) PushStereo(samples [][2]float64) {
	a.mu.Lock()
	tap := a.tap
	for _, s := range samples {
		a.buf = append(a.buf, (s[0]+s[1])*0.5)
	}
	a.drain()
	a.mu.Unlock()

	if tap != nil && len(samples) > 0 {
		mono := make([]float32, len(samples))
		for i, s := range samples {
			mono[i] = float32((s[0] + s[1]) * 0.5)
		}
		tap(mono)
	}
}

// PushMono feeds mono float32 samples in [-1,1].
func (a *Analyzer) PushMono(samples []float32) {
	a.mu.Lock()
	tap := a.tap
	for _, s := range samples {
		a.buf = append(a.buf, float64(s))
	}
	a.drain()
	a.mu.Unlock()

	if tap != nil && len(samples) > 0 {
		mono := make([]float32, len(samples))
		copy(mono, samples)
		tap(mono)
	}
}

// drain processes every complete FFTSize block. Caller holds mu.
func (a *Analyzer) drain() {
	for len(a.buf) >= FFTSize {
		a.process(a.buf[:FFTSize])
		a.buf = a.buf[:copy(a.buf, a.buf[FFTSize:])]
	}
}

func (a *Analyzer) process(block []float64) {
	windowed := make([]float64, FFTSize)
	rms := 0.0
	for i, v := range block {
		windowed[i] = v * a.window[i]
		rms += v * v
	}
	rms = math.Sqrt(rms / FFTSize)

	spectrum := fft.FFTReal(windowed)

	bassSum, midSum, trebleSum := 0.0, 0.0, 0.0
	for i := 1; i < FFTSize/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < BassBinMax:
			bassSum += mag
		case i < MidBinMax:
			midSum += mag
		case i < TrebleBinMax:
			trebleSum += mag
		}
	}

	// AGC: track the running peak across bands, decay slowly so quiet
	// passages regain sensitivity.
	peak := math.Max(bassSum/100.0, math.Max(midSum/500.0, trebleSum/1000.0))
	if peak > a.maxLevel {
		a.maxLevel = peak
	} else {
		a.maxLevel *= AGCDecay
	}
	gain := 1.0
	if a.maxLevel > 0.001 {
		gain = 1.0 / a.maxLevel
	}
	if gain > AGCMaxGain {
		gain = AGCMaxGain
	}

	keep := BandSmoothing
	a.bass = a.bass*keep + math.Min(bassSum/100.0*gain, 1.0)*(1-keep)
	a.mid = a.mid*keep + math.Min(midSum/500.0*gain, 1.0)*(1-keep)
	a.treble = a.treble*keep + math.Min(trebleSum/1000.0*gain, 1.0)*(1-keep)
	a.volume = a.volume*keep + math.Min(rms*4.0*gain, 1.0)*(1-keep)

	// Coarse spectrum: SpectrumBands buckets over the lower half of the
	// bins, where nearly all musical content lives.
	binsPer := (FFTSize / 4) / SpectrumBands
	for b := 0; b < SpectrumBands; b++ {
		sum := 0.0
		for i := 0; i < binsPer; i++ {
			sum += cmplx.Abs(spectrum[1+b*binsPer+i])
		}
		v := math.Min(sum/float64(binsPer)*gain*0.05, 1.0)
		a.spectrum[b] = float32(v)
	}
}

// Frame snapshots the current analysis. The returned Spectrum slice is a
// copy; callers may hold it across frames.
func (a *Analyzer) Frame() AudioFrame {
	a.mu.Lock()
	defer a.mu.Unlock()
	spec := make([]float32, len(a.spectrum))
	copy(spec, a.spectrum)
	return AudioFrame{
		Bass:     float32(a.bass),
		Mid:      float32(a.mid),
		Treble:   float32(a.treble),
		Volume:   float32(a.volume),
		Spectrum: spec,
	}
}
