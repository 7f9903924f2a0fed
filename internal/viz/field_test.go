package viz

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// singleBlobField builds a field with one blob at the origin.
func singleBlobField(bass, sensitivity, spike float32) Field {
	store := NewBlobStore(1, 1)
	b := store.At(0)
	b.Pos = mgl32.Vec3{}
	b.Radius = BaseRadiusUnit
	cfg := DefaultConfig()
	cfg.Sensitivity = sensitivity
	cfg.SpikeIntensity = spike
	return FieldFrom(store, AudioFrame{Bass: bass}, 1.5, cfg)
}

// TestDistance_QuietSphereIsExact: with zero bass there is no spike
// displacement, so the field is the plain sphere SDF.
func TestDistance_QuietSphereIsExact(t *testing.T) {
	f := singleBlobField(0, 1, 1)

	points := []mgl32.Vec3{
		{1, 0, 0}, {0, 2, 0}, {0, 0, -3}, {0.7, 0.7, 0.7},
	}
	for _, p := range points {
		want := p.Len() - BaseRadiusUnit
		if got := f.Distance(p); math32.Abs(got-want) > 1e-6 {
			t.Errorf("Distance(%v) = %v, want sphere SDF %v", p, got, want)
		}
	}
}

// TestDistance_SpikeMonotoneInIntensity: for a fixed sample point under
// sustained bass, the surface reaches further out (distance shrinks) as
// SpikeIntensity rises.
func TestDistance_SpikeMonotoneInIntensity(t *testing.T) {
	p := mgl32.Vec3{0.9, 0.3, 0.2}
	dir := p.Normalize()
	if SpikeSample(dir, 1.5) <= 1e-6 {
		t.Skip("noise sample is flat at this direction; pick another point")
	}

	base := singleBlobField(1, 1, 0.1)
	prev := base.Distance(p)
	for _, intensity := range []float32{0.5, 1.0, 1.5, 2.0, 2.5, 3.0} {
		f := singleBlobField(1, 1, intensity)
		d := f.Distance(p)
		if d >= prev {
			t.Fatalf("distance %v at intensity %v not below %v at lower intensity", d, intensity, prev)
		}
		prev = d
	}
}

func TestDistance_ZeroRadiusBlobNotDrawn(t *testing.T) {
	store := NewBlobStore(2, 1)
	store.At(0).Pos = mgl32.Vec3{}
	store.At(0).Radius = 0
	store.At(1).Pos = mgl32.Vec3{1, 0, 0}
	store.At(1).Radius = 0.5

	f := FieldFrom(store, AudioFrame{}, 0, DefaultConfig())

	// At the degenerate blob's center the field must see only the live
	// blob (smin pulls the value slightly below the exact SDF, never above).
	want := float32(0.5) // |(0,0,0)-(1,0,0)| - 0.5
	if got := f.Distance(mgl32.Vec3{}); got > want+1e-6 || got < want-f.BlendK {
		t.Errorf("Distance at degenerate blob = %v, want ≈ %v from the live blob", got, want)
	}
}

// TestDistance_Continuity: the smin fold keeps the field continuous; a
// small move must produce a proportionally small change in distance.
func TestDistance_Continuity(t *testing.T) {
	store := NewBlobStore(5, 9)
	f := FieldFrom(store, AudioFrame{Bass: 1}, 2.0, DefaultConfig())

	const eps = 1e-4
	const lipschitz = 50.0 // generous: spikes steepen the field locally
	rng := NewRand(31)

	tested := 0
	for tested < 500 {
		p := mgl32.Vec3{
			rng.RangeF(-BoundExtent, BoundExtent),
			rng.RangeF(-BoundExtent, BoundExtent),
			rng.RangeF(-BoundExtent, BoundExtent),
		}
		// Near a blob center the spike direction flips arbitrarily fast;
		// the bound only holds away from those singular points.
		tooClose := false
		for i := range f.Blobs {
			if p.Sub(f.Blobs[i].Pos).Len() < 0.25 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		tested++

		q := mgl32.Vec3{p[0] + eps, p[1], p[2]}
		if diff := math32.Abs(f.Distance(p) - f.Distance(q)); diff > lipschitz*eps {
			t.Fatalf("discontinuity at %v: |Δd| = %v over ε = %v", p, diff, float32(eps))
		}
	}
}

func TestSmin_BlendsBelowMin(t *testing.T) {
	cases := []struct{ a, b float32 }{
		{1, 1}, {0.5, 0.6}, {-0.2, 0.1}, {3, 0.01},
	}
	for _, tc := range cases {
		got := smin(tc.a, tc.b, 0.5)
		if min := math32.Min(tc.a, tc.b); got > min {
			t.Errorf("smin(%v, %v) = %v, above min %v", tc.a, tc.b, got, min)
		}
		if got < math32.Min(tc.a, tc.b)-0.5 {
			t.Errorf("smin(%v, %v) = %v, blended more than k below min", tc.a, tc.b, got)
		}
	}
}

// Far apart, smin degrades to plain min: distant blobs must not deform
// each other.
func TestSmin_FarApartIsMin(t *testing.T) {
	if got := smin(0.1, 5.0, 0.5); got != 0.1 {
		t.Errorf("smin with far-apart operands = %v, want 0.1", got)
	}
	if got := smin(5.0, 0.1, 0.5); got != 0.1 {
		t.Errorf("smin is asymmetric for far-apart operands: %v", got)
	}
}
