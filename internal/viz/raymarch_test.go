package viz

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TestMarch_QuietSphereHitDistance: one blob, zero bass. The center ray
// must hit the smooth sphere at cameraDistance - baseRadius.
func TestMarch_QuietSphereHitDistance(t *testing.T) {
	f := singleBlobField(0, 1, 1)
	origin, dir := CameraRay(50, 50, 101, 101) // exact center pixel

	if dir != (mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("center ray direction = %v, want (0,0,-1)", dir)
	}

	tHit, hit, _ := March(&f, origin, dir)
	if !hit {
		t.Fatal("center ray missed a centered sphere")
	}
	want := float32(CameraDistance - BaseRadiusUnit)
	if math32.Abs(tHit-want) > 0.02 {
		t.Errorf("hit at t = %v, want ≈ %v", tHit, want)
	}
}

// TestShade_Deterministic: identical snapshot, ray, and params must give
// bitwise identical output.
func TestShade_Deterministic(t *testing.T) {
	store := NewBlobStore(5, 123)
	frame := AudioFrame{Bass: 0.8, Treble: 0.4, Volume: 0.6}
	cfg := DefaultConfig()
	f := FieldFrom(store, frame, 3.7, cfg)
	sp := ShadeParamsFrom(frame, cfg)

	rays := [][2]int{{10, 10}, {50, 50}, {90, 20}, {33, 77}}
	for _, r := range rays {
		origin, dir := CameraRay(r[0], r[1], 101, 101)
		a := Shade(&f, origin, dir, sp)
		b := Shade(&f, origin, dir, sp)
		if a != b {
			t.Errorf("ray %v: Shade not deterministic: %v vs %v", r, a, b)
		}
	}
}

func TestShade_MissProducesGlow(t *testing.T) {
	f := singleBlobField(0, 1, 1)
	sp := ShadeParams{Volume: 1, GlowStrength: 1, Colors: SchemeColors("plasma")}

	// A ray that passes near the sphere but misses it.
	origin := mgl32.Vec3{0, 0, CameraDistance}
	dir := mgl32.Vec3{0.12, 0, -1}.Normalize()

	out := Shade(&f, origin, dir, sp)
	if out[3] <= 0 {
		t.Error("near-miss ray produced no glow")
	}
	if out[3] > 1 {
		t.Errorf("glow alpha %v out of range", out[3])
	}
}

func TestShade_GlowScalesWithStrength(t *testing.T) {
	f := singleBlobField(0, 1, 1)
	origin := mgl32.Vec3{0, 0, CameraDistance}
	dir := mgl32.Vec3{0.15, 0, -1}.Normalize()

	weak := Shade(&f, origin, dir, ShadeParams{Volume: 1, GlowStrength: 0.2, Colors: SchemeColors("plasma")})
	strong := Shade(&f, origin, dir, ShadeParams{Volume: 1, GlowStrength: 2.0, Colors: SchemeColors("plasma")})

	if strong[3] <= weak[3] {
		t.Errorf("glow alpha did not scale with strength: %v vs %v", strong[3], weak[3])
	}
}

func TestShade_HitAlphaInRange(t *testing.T) {
	f := singleBlobField(1, 2, 2)
	frame := AudioFrame{Bass: 1, Treble: 1, Volume: 1}
	sp := ShadeParamsFrom(frame, DefaultConfig())

	for px := 0; px < 101; px += 10 {
		for py := 0; py < 101; py += 10 {
			origin, dir := CameraRay(px, py, 101, 101)
			out := Shade(&f, origin, dir, sp)
			if out[3] < 0 || out[3] > 1 {
				t.Fatalf("pixel (%d,%d): alpha %v outside [0,1]", px, py, out[3])
			}
			for c := 0; c < 3; c++ {
				if math32.IsNaN(out[c]) {
					t.Fatalf("pixel (%d,%d): NaN channel %d", px, py, c)
				}
			}
		}
	}
}

func TestEstimateNormal_PointsOutward(t *testing.T) {
	f := singleBlobField(0, 1, 1)

	surface := mgl32.Vec3{BaseRadiusUnit, 0, 0}
	n := EstimateNormal(&f, surface)
	if n.Dot(mgl32.Vec3{1, 0, 0}) < 0.99 {
		t.Errorf("sphere normal at +X surface = %v, want ≈ (1,0,0)", n)
	}
}

// An empty field has a flat distance everywhere, so the gradient is
// zero. The fallback must kick in instead of normalizing a zero vector.
func TestEstimateNormal_ZeroGradientFallback(t *testing.T) {
	f := Field{}
	n := EstimateNormal(&f, mgl32.Vec3{0.3, -0.1, 0.2})
	for i := 0; i < 3; i++ {
		if math32.IsNaN(n[i]) {
			t.Fatalf("normal %v contains NaN", n)
		}
	}
	if math32.Abs(n.Len()-1) > 1e-5 {
		t.Errorf("fallback normal %v not unit length", n)
	}
}

func TestCameraRay_Normalized(t *testing.T) {
	for _, px := range []int{0, 25, 99} {
		_, dir := CameraRay(px, px, 100, 100)
		if math32.Abs(dir.Len()-1) > 1e-5 {
			t.Errorf("ray dir %v not unit length", dir)
		}
		if dir[2] >= 0 {
			t.Errorf("ray dir %v does not point into the scene", dir)
		}
	}
}
