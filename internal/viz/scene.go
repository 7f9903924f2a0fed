package viz

// SceneState is the simulation's whole mutable state: accumulated time,
// EMA-smoothed audio bands, and the live store. Owned by the
// orchestrator; reset only on explicit reconfiguration.
type SceneState struct {
	Time   float64
	Bass   float32
	Mid    float32
	Treble float32
	Volume float32
	Store  *BlobStore
}

// FrameSnapshot is the settled per-frame data handed to the renderer:
// blob positions/radii packed for the uniform array plus the scalar
// uniforms. The orchestrator reuses one snapshot; the renderer must not
// hold it across frames.
type FrameSnapshot struct {
	Blobs [MaxBlobs * 4]float32 // xyz position, w radius
	Count int

	Time         float32
	Treble       float32
	Volume       float32
	SpikeDrive   float32
	BlendK       float32
	GlowStrength float32
	Colors       ColorScheme
}

// Orchestrator drives one frame: smooth the audio, step the dynamics,
// manage topology, then pack the snapshot. The renderer only ever sees
// one full, consistent generation of blob state.
type Orchestrator struct {
	cfg       Config
	scene     SceneState
	topo      Topology
	snap      FrameSnapshot
	seed      uint64
	wordPulse float32
}

func NewOrchestrator(cfg Config, seed uint64) *Orchestrator {
	cfg.Clamp()
	return &Orchestrator{
		cfg:  cfg,
		seed: seed,
		scene: SceneState{
			Store: NewBlobStore(cfg.BlobCount, seed),
		},
	}
}

// Config returns the current (clamped) configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// Scene exposes the state for tests and debug overlays.
func (o *Orchestrator) Scene() *SceneState { return &o.scene }

// SetWordPulse feeds the decayed speech pulse for the coming frame.
// Stays zero when no sidecar is attached.
func (o *Orchestrator) SetWordPulse(v float32) {
	o.wordPulse = clampF(v, 0, 1)
}

// Reconfigure merges new settings. A blob-count change reseeds the
// simulation; everything else applies live.
func (o *Orchestrator) Reconfigure(cfg Config) {
	cfg.Clamp()
	reseed := cfg.BlobCount != o.cfg.BlobCount
	o.cfg = cfg
	if reseed {
		o.scene = SceneState{Store: NewBlobStore(cfg.BlobCount, o.seed)}
		o.topo = Topology{}
	}
}

// Advance runs one frame of simulation and returns the settled snapshot.
// dtMs is the collaborator-supplied frame delta in milliseconds.
func (o *Orchestrator) Advance(raw AudioFrame, dtMs float32) *FrameSnapshot {
	dt := dtMs / 1000
	if dt < 0 {
		dt = 0
	}
	if dt > MaxStepDT {
		dt = MaxStepDT
	}
	o.scene.Time += float64(dt)

	// Per-band EMA: the raw frame may jump per hop; the scene bands lag
	// just enough to keep motion from strobing.
	rate := SceneBandRate * dt
	if rate > 1 {
		rate = 1
	}
	o.scene.Bass = lerp(o.scene.Bass, raw.Bass, rate)
	o.scene.Mid = lerp(o.scene.Mid, raw.Mid, rate)
	o.scene.Treble = lerp(o.scene.Treble, raw.Treble, rate)
	o.scene.Volume = lerp(o.scene.Volume, raw.Volume, rate)

	smoothed := AudioFrame{
		Bass:     o.scene.Bass,
		Mid:      o.scene.Mid,
		Treble:   o.scene.Treble,
		Volume:   o.scene.Volume,
		Spectrum: raw.Spectrum,
	}

	// Ordering contract: dynamics settle before topology inspects
	// positions and velocities, and both before the snapshot is taken.
	Step(o.scene.Store, smoothed, dt, o.cfg)
	energy := (smoothed.Bass+smoothed.Mid+smoothed.Treble)/3 + o.wordPulse*WordEnergyBoost
	o.topo.Manage(o.scene.Store, clampF(energy, 0, 1), o.scene.Time, o.cfg)

	o.pack(smoothed)
	return &o.snap
}

func (o *Orchestrator) pack(frame AudioFrame) {
	store := o.scene.Store
	for i := 0; i < store.n; i++ {
		b := &store.blobs[i]
		o.snap.Blobs[i*4+0] = b.Pos[0]
		o.snap.Blobs[i*4+1] = b.Pos[1]
		o.snap.Blobs[i*4+2] = b.Pos[2]
		o.snap.Blobs[i*4+3] = b.Radius
	}
	for i := store.n * 4; i < len(o.snap.Blobs); i++ {
		o.snap.Blobs[i] = 0
	}
	o.snap.Count = store.n
	o.snap.Time = float32(o.scene.Time)
	o.snap.Treble = frame.Treble
	o.snap.Volume = frame.Volume
	o.snap.SpikeDrive = frame.Bass * o.cfg.Sensitivity * o.cfg.SpikeIntensity
	o.snap.BlendK = o.cfg.Smoothness * SminBlendBase
	o.snap.GlowStrength = o.cfg.GlowStrength * (1 + o.wordPulse*WordGlowBoost)
	o.snap.Colors = SchemeColors(o.cfg.Scheme)
}

// Field builds the CPU field for the current state (test and tooling
// path; the GPU consumes the packed snapshot instead).
func (o *Orchestrator) Field() Field {
	frame := AudioFrame{Bass: o.scene.Bass, Mid: o.scene.Mid, Treble: o.scene.Treble, Volume: o.scene.Volume}
	return FieldFrom(o.scene.Store, frame, float32(o.scene.Time), o.cfg)
}
