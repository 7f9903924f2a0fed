package viz

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Topology mutates the blob count from audio energy: quiet passages let
// slow, touching blobs coalesce; loud passages tear the biggest blob in
// two. A shared cooldown keeps merges and splits from thrashing.
type Topology struct {
	lastChange float64
}

// Manage applies at most one merge or one split per cooldown window.
// energy is combined band energy in [0,1], now is simulated time.
func (tp *Topology) Manage(store *BlobStore, energy float32, now float64, cfg Config) {
	if now-tp.lastChange < TopologyCooldown {
		return
	}
	if energy < MergeEnergyMax && store.n > MergeCountFloor {
		if tp.mergeOnce(store) {
			tp.lastChange = now
			return
		}
	}
	if energy > SplitEnergyMin && store.n < MaxBlobs {
		if tp.splitOnce(store) {
			tp.lastChange = now
		}
	}
}

// mergeOnce absorbs the first qualifying pair in insertion order: both
// partners slow and overlapping. Projected mass is conserved
// (r² = r1² + r2²); velocity is the pair average.
func (tp *Topology) mergeOnce(store *BlobStore) bool {
	for i := 0; i < store.n; i++ {
		a := &store.blobs[i]
		if a.Vel.Len() >= MergeSpeedMax {
			continue
		}
		for j := i + 1; j < store.n; j++ {
			b := &store.blobs[j]
			if b.Vel.Len() >= MergeSpeedMax {
				continue
			}
			if a.Pos.Sub(b.Pos).Len() >= MergeDistFactor*(a.Radius+b.Radius) {
				continue
			}
			a.Radius = math32.Sqrt(a.Radius*a.Radius + b.Radius*b.Radius)
			a.BaseRadius = math32.Sqrt(a.BaseRadius*a.BaseRadius + b.BaseRadius*b.BaseRadius)
			a.Vel = a.Vel.Add(b.Vel).Mul(0.5)
			store.Remove(j)
			return true
		}
	}
	return false
}

// splitOnce halves the largest blob if it has grown past the split
// threshold. Both halves keep projected mass (r/√2) and fly apart along
// the orbit tangent.
func (tp *Topology) splitOnce(store *BlobStore) bool {
	largest := 0
	for i := 1; i < store.n; i++ {
		if store.blobs[i].Radius > store.blobs[largest].Radius {
			largest = i
		}
	}
	parent := &store.blobs[largest]
	if parent.Radius <= SplitRadiusMin*BaseRadiusUnit {
		return false
	}

	invSqrt2 := float32(1 / math32.Sqrt2)
	parent.Radius *= invSqrt2
	parent.BaseRadius *= invSqrt2

	child := *parent
	child.OrbitPhase = parent.OrbitPhase + SplitPhaseOffset
	child.OrbitSpeed = -parent.OrbitSpeed

	tangent := mgl32.Vec3{-math32.Sin(parent.OrbitPhase), math32.Cos(parent.OrbitPhase), 0}
	kick := tangent.Mul(SplitSeparation * 0.5)
	parent.Vel = parent.Vel.Add(kick)
	child.Vel = child.Vel.Sub(kick)

	return store.Add(child)
}
