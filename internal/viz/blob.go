package viz

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Blob is one soft body in the field. Blobs are value-like; the store
// owns them exclusively and hands out indices, never pointers.
type Blob struct {
	Pos mgl32.Vec3
	Vel mgl32.Vec3

	BaseRadius float32 // rest size
	Radius     float32 // current, audio-modulated; never negative

	OrbitPhase  float32
	OrbitSpeed  float32
	OrbitRadius float32
}

// BlobStore is a bounded arena of blobs. Removal is swap-remove (last
// element moves into the freed slot) so storage stays contiguous.
type BlobStore struct {
	blobs [MaxBlobs]Blob
	n     int
	rng   *Rand
}

// NewBlobStore seeds count blobs on an orbiting ring. count is clamped
// to [1, MaxBlobs].
func NewBlobStore(count int, seed uint64) *BlobStore {
	s := &BlobStore{rng: NewRand(seed)}
	s.Reset(count)
	return s
}

// Reset reseeds the ring, discarding all current blobs.
func (s *BlobStore) Reset(count int) {
	count = clamp(count, 1, MaxBlobs)
	s.n = count
	for i := 0; i < count; i++ {
		phase := 2 * math32.Pi * float32(i) / float32(count)
		orbitR := SeedRingRadius * s.rng.RangeF(0.85, 1.15)
		b := Blob{
			BaseRadius:  BaseRadiusUnit,
			Radius:      BaseRadiusUnit,
			OrbitPhase:  phase,
			OrbitSpeed:  s.rng.RangeF(0.25, 0.6),
			OrbitRadius: orbitR,
		}
		// Alternate orbit direction so the cluster churns instead of
		// rotating as a rigid ring.
		if i%2 == 1 {
			b.OrbitSpeed = -b.OrbitSpeed
		}
		b.Pos = orbitTarget(&b)
		s.blobs[i] = b
	}
}

// Len returns the live blob count.
func (s *BlobStore) Len() int { return s.n }

// At returns a mutable reference to blob i.
func (s *BlobStore) At(i int) *Blob { return &s.blobs[i] }

// Add appends a blob if there is room and reports success.
func (s *BlobStore) Add(b Blob) bool {
	if s.n >= MaxBlobs {
		return false
	}
	s.blobs[s.n] = b
	s.n++
	return true
}

// Remove swap-removes blob i. Index order past i is not preserved.
func (s *BlobStore) Remove(i int) {
	if i < 0 || i >= s.n {
		return
	}
	s.n--
	if i != s.n {
		s.blobs[i] = s.blobs[s.n]
	}
}

// orbitTarget is the point on the loose orbit ellipse for the blob's
// current phase.
func orbitTarget(b *Blob) mgl32.Vec3 {
	return mgl32.Vec3{
		math32.Cos(b.OrbitPhase) * b.OrbitRadius * OrbitEllipseX,
		math32.Sin(b.OrbitPhase) * b.OrbitRadius * OrbitEllipseY,
		math32.Sin(b.OrbitPhase*0.7) * b.OrbitRadius * OrbitWobbleZ,
	}
}
