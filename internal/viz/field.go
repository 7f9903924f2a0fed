package viz

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Field is an immutable snapshot of everything the distance query needs.
// Distance is pure: the raymarch loop and its finite-difference normal
// estimation call the same function and must agree.
type Field struct {
	Blobs []Blob
	Time  float32

	SpikeDrive float32 // bass * sensitivity * spike intensity
	BlendK     float32 // smooth-min radius
}

// FieldFrom builds the frame's field snapshot. The slice aliases the
// store; the store must not mutate until rendering is done.
func FieldFrom(store *BlobStore, frame AudioFrame, time float32, cfg Config) Field {
	return Field{
		Blobs:      store.blobs[:store.n],
		Time:       time,
		SpikeDrive: frame.Bass * cfg.Sensitivity * cfg.SpikeIntensity,
		BlendK:     cfg.Smoothness * SminBlendBase,
	}
}

// smin is the polynomial smooth minimum: a continuous min(a,b) that
// blends the two surfaces over radius k instead of creasing.
func smin(a, b, k float32) float32 {
	h := clampF(0.5+0.5*(b-a)/k, 0, 1)
	return lerp(b, a, h) - k*h*(1-h)
}

// blobDistance is the spike-displaced sphere SDF for one blob. Quiet
// audio leaves a smooth dome; bass erupts the surface outward along the
// noise peaks.
func (f *Field) blobDistance(p mgl32.Vec3, b *Blob) float32 {
	if b.Radius <= 0 {
		// Degenerate blob: contributes nothing, never drawn.
		return MarchMaxDist
	}
	rel := p.Sub(b.Pos)
	dist := rel.Len()
	d := dist - b.Radius
	if f.SpikeDrive > 0 && dist > 1e-5 {
		dir := rel.Mul(1 / dist)
		d -= SpikeSample(dir, f.Time) * f.SpikeDrive * b.Radius * SpikeGain
	}
	return d
}

// Distance returns the scene's distance estimate at p: all blob SDFs
// folded left to right through smin, so nearby blobs fuse into one
// surface.
func (f *Field) Distance(p mgl32.Vec3) float32 {
	if len(f.Blobs) == 0 {
		return MarchMaxDist
	}
	d := f.blobDistance(p, &f.Blobs[0])
	for i := 1; i < len(f.Blobs); i++ {
		d = smin(d, f.blobDistance(p, &f.Blobs[i]), f.BlendK)
	}
	return d
}

// Nearest returns the index of the blob whose base sphere is closest to
// p, and the signed distance to it. Shading uses this to measure how far
// a hit point sits outside its blob (the spike proxy).
func (f *Field) Nearest(p mgl32.Vec3) (int, float32) {
	best := 0
	bestD := float32(MarchMaxDist)
	for i := range f.Blobs {
		b := &f.Blobs[i]
		if b.Radius <= 0 {
			continue
		}
		d := p.Sub(b.Pos).Len() - b.Radius
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, bestD
}
