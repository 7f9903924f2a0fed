package viz

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Step advances every blob by dt seconds. Mutates in place; allocates
// nothing. Order per blob: orbit advance, spring toward the orbit
// target, audio impulses, integration, bounds, radius relaxation.
func Step(store *BlobStore, frame AudioFrame, dt float32, cfg Config) {
	if dt <= 0 {
		return
	}
	if dt > MaxStepDT {
		// A huge dt (pause, debugger, window drag) would explode the
		// spring integrator; run one safe-sized step instead.
		dt = MaxStepDT
	}

	bassDrive := frame.Bass * cfg.Sensitivity
	trebleDrive := frame.Treble * cfg.Sensitivity
	damp := math32.Pow(VelocityDamping, dt*60)

	for i := 0; i < store.n; i++ {
		b := &store.blobs[i]

		b.OrbitPhase += b.OrbitSpeed * dt
		target := orbitTarget(b)

		// Critically damped spring toward the orbit target.
		acc := target.Sub(b.Pos).Mul(SpringK).Sub(b.Vel.Mul(SpringDamp))

		// Bass pushes the blob outward along its orbital angle: the
		// whole cluster breathes on beats.
		if bassDrive > 0 {
			radial := mgl32.Vec3{math32.Cos(b.OrbitPhase), math32.Sin(b.OrbitPhase), 0}
			acc = acc.Add(radial.Mul(bassDrive * BassPush))
		}

		// Treble reads as agitation: small random jitter.
		if trebleDrive > 0 {
			j := trebleDrive * TrebleJitter
			acc = acc.Add(mgl32.Vec3{
				store.rng.RangeF(-j, j),
				store.rng.RangeF(-j, j),
				store.rng.RangeF(-j, j),
			})
		}

		b.Vel = b.Vel.Add(acc.Mul(dt)).Mul(damp)
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))

		// Keep all mass inside the camera frustum.
		for axis := 0; axis < 3; axis++ {
			if b.Pos[axis] > BoundExtent {
				b.Pos[axis] = BoundExtent
				b.Vel[axis] = -b.Vel[axis] * BoundRebound
			} else if b.Pos[axis] < -BoundExtent {
				b.Pos[axis] = -BoundExtent
				b.Vel[axis] = -b.Vel[axis] * BoundRebound
			}
		}

		// Integrator blow-up defense: recover locally, never interrupt
		// the frame loop.
		if !isFinite3(b.Pos[0], b.Pos[1], b.Pos[2]) || !isFinite3(b.Vel[0], b.Vel[1], b.Vel[2]) {
			b.Pos = target
			b.Vel = mgl32.Vec3{}
		}

		// Radius pulses toward the bass-swollen target with a first-order
		// lag so onsets read as a swell, not a pop.
		radTarget := b.BaseRadius * (1 + bassDrive*RadiusBassGain)
		if radTarget < 0 {
			radTarget = 0
		}
		rate := RadiusRelax * dt
		if rate > 1 {
			rate = 1
		}
		b.Radius = lerp(b.Radius, radTarget, rate)
		if b.Radius < 0 || math32.IsNaN(b.Radius) {
			b.Radius = 0
		}
	}
}
