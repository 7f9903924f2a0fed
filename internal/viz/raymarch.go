package viz

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// This is the CPU reference implementation of the render pass. The
// production path is the GLSL twin in shaders.go; these functions exist
// so the surface math has a testable, single-threaded form. Everything
// here is a pure function of its arguments.

// ShadeParams is the per-frame shading input alongside the field.
type ShadeParams struct {
	Treble       float32
	Volume       float32
	GlowStrength float32
	Colors       ColorScheme
}

func ShadeParamsFrom(frame AudioFrame, cfg Config) ShadeParams {
	return ShadeParams{
		Treble:       frame.Treble,
		Volume:       frame.Volume,
		GlowStrength: cfg.GlowStrength,
		Colors:       SchemeColors(cfg.Scheme),
	}
}

// CameraRay builds the primary ray for pixel (px,py) in a w×h viewport.
// The camera sits at +Z on the axis looking at the origin.
func CameraRay(px, py, w, h int) (origin, dir mgl32.Vec3) {
	aspect := float32(w) / float32(h)
	u := (2*(float32(px)+0.5)/float32(w) - 1) * FOVScale * aspect
	v := (1 - 2*(float32(py)+0.5)/float32(h)) * FOVScale
	origin = mgl32.Vec3{0, 0, CameraDistance}
	dir = mgl32.Vec3{u, v, -1}.Normalize()
	return
}

// March sphere-traces the field. Returns the marched distance, whether
// the surface was hit, and the closest approach seen along the ray (the
// miss branch turns that into a halo).
func March(f *Field, origin, dir mgl32.Vec3) (t float32, hit bool, minDist float32) {
	minDist = MarchMaxDist
	for i := 0; i < MarchMaxSteps; i++ {
		p := origin.Add(dir.Mul(t))
		d := f.Distance(p)
		if d < minDist {
			minDist = d
		}
		if d < MarchEpsilon {
			return t, true, minDist
		}
		// Spike displacement breaks the true-distance bound; understep
		// so the ray cannot tunnel through thin spikes.
		t += d * MarchUnderStep
		if t > MarchMaxDist {
			break
		}
	}
	return t, false, minDist
}

// EstimateNormal is the central-difference gradient of the field.
func EstimateNormal(f *Field, p mgl32.Vec3) mgl32.Vec3 {
	e := float32(NormalEpsilon)
	n := mgl32.Vec3{
		f.Distance(mgl32.Vec3{p[0] + e, p[1], p[2]}) - f.Distance(mgl32.Vec3{p[0] - e, p[1], p[2]}),
		f.Distance(mgl32.Vec3{p[0], p[1] + e, p[2]}) - f.Distance(mgl32.Vec3{p[0], p[1] - e, p[2]}),
		f.Distance(mgl32.Vec3{p[0], p[1], p[2] + e}) - f.Distance(mgl32.Vec3{p[0], p[1], p[2] - e}),
	}
	if n.Len() < 1e-8 {
		return mgl32.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

// Fixed directional lights.
var (
	lightA = mgl32.Vec3{0.6, 0.7, 0.5}.Normalize()
	lightB = mgl32.Vec3{-0.5, -0.3, 0.6}.Normalize()
)

// Shade casts one ray and returns premultipliable RGBA. Hit: two-light
// diffuse, Fresnel rim, treble-driven specular, core→tip ramp by spike
// height. Miss: closest-approach halo scaled by glow strength and volume.
func Shade(f *Field, origin, dir mgl32.Vec3, sp ShadeParams) mgl32.Vec4 {
	t, hit, minDist := March(f, origin, dir)
	if !hit {
		glow := math32.Exp(-minDist*GlowFalloff) * sp.GlowStrength * (0.35 + 0.65*sp.Volume)
		glow = clampF(glow, 0, 1)
		c := sp.Colors.Glow.Mul(glow)
		return mgl32.Vec4{c[0], c[1], c[2], glow * 0.85}
	}

	p := origin.Add(dir.Mul(t))
	n := EstimateNormal(f, p)
	view := dir.Mul(-1)

	// How far outside its blob's base sphere the hit point sits, relative
	// to the maximum spike reach: the proxy for "how spiky is this point".
	idx, _ := f.Nearest(p)
	b := &f.Blobs[idx]
	spikeT := float32(0)
	if b.Radius > 0 {
		spikeT = clampF((p.Sub(b.Pos).Len()-b.Radius)/(b.Radius*SpikeGain), 0, 1)
	}
	var ramp mgl32.Vec3
	if spikeT < 0.5 {
		ramp = vecLerp(sp.Colors.Core, sp.Colors.Mid, spikeT*2)
	} else {
		ramp = vecLerp(sp.Colors.Mid, sp.Colors.Tip, (spikeT-0.5)*2)
	}

	diff := 0.9*math32.Max(n.Dot(lightA), 0) + 0.45*math32.Max(n.Dot(lightB), 0)

	fresnel := math32.Pow(1-clampF(n.Dot(view), 0, 1), 3)

	half := lightA.Add(view).Normalize()
	spec := math32.Pow(math32.Max(n.Dot(half), 0), 32) * (0.4 + 0.8*sp.Treble)

	col := ramp.Mul(0.15 + diff)
	col = col.Add(sp.Colors.Glow.Mul(fresnel * 0.6))
	col = col.Add(mgl32.Vec3{spec, spec, spec})

	alpha := clampF(BaseOpacity+fresnel*0.3+sp.Volume*0.15, 0, 1)
	return mgl32.Vec4{col[0], col[1], col[2], alpha}
}

func vecLerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
