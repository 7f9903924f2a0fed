package viz

// Window defaults.
const (
	WindowWidth  = 1024
	WindowHeight = 768
	WindowTitle  = "blobfield"
)

// Blob arena.
const (
	MaxBlobs       = 16
	BaseRadiusUnit = 0.45 // rest radius of a freshly seeded blob
	SeedRingRadius = 1.1  // radius of the initial orbit ring
)

// Camera (fixed, looking down -Z at the origin).
const (
	CameraDistance = 6.0
	FOVScale       = 0.9 // tan(fov/2); rays span [-FOVScale, FOVScale] vertically
)

// Spring-to-orbit dynamics. SpringDamp is the critical damping for
// SpringK with unit mass; changing one without the other makes the
// cluster ring or crawl.
const (
	SpringK    = 16.0
	SpringDamp = 8.0

	OrbitEllipseX = 1.0
	OrbitEllipseY = 0.72
	OrbitWobbleZ  = 0.35 // out-of-plane wobble fraction of orbit radius

	VelocityDamping = 0.985 // per frame at 60 fps, raised to dt*60
	BassPush        = 3.2   // radial impulse per unit bass*sensitivity
	TrebleJitter    = 0.9   // random agitation per unit treble*sensitivity

	RadiusBassGain = 0.6 // radius swell fraction at full bass
	RadiusRelax    = 6.0 // 1/s first-order rate toward target radius

	BoundExtent  = 2.5 // half-extent of the containment cube
	BoundRebound = 0.6 // velocity retained after reflecting off a wall

	MaxStepDT = 0.1 // clamp for pathological dt (pause, debugger)
)

// Topology management.
const (
	TopologyCooldown = 0.2 // seconds of simulated time between mutations

	MergeEnergyMax  = 0.25 // combined band energy below this allows merging
	MergeCountFloor = 4    // never merge below this many blobs
	MergeSpeedMax   = 0.35 // both partners must be slower than this
	MergeDistFactor = 0.8  // centers closer than factor*(r1+r2)

	SplitEnergyMin   = 0.6 // combined band energy above this allows splitting
	SplitRadiusMin   = 1.5 // largest blob must exceed factor*BaseRadiusUnit
	SplitSeparation  = 1.2 // tangential fly-apart speed
	SplitPhaseOffset = 0.7 // orbit phase nudge so halves settle on distinct arcs
)

// Distance field.
const (
	SpikeFreqLow   = 3.0
	SpikeFreqHigh  = 7.0
	SpikeOctaveLow = 0.65 // amplitude of the low-frequency octave
	SpikeSharpness = 3.0  // pow() exponent; higher = needler spikes
	SpikeTimeScale = 0.8
	SpikeGain      = 0.35 // displacement fraction of blob radius at full drive

	SminBlendBase = 0.7 // smooth-min k at Smoothness=1
)

// Raymarch loop.
const (
	MarchMaxSteps  = 80
	MarchEpsilon   = 0.005
	MarchMaxDist   = 20.0
	MarchUnderStep = 0.8 // spikes break the distance bound; understep to compensate
	NormalEpsilon  = 0.01

	GlowFalloff = 3.0 // exp(-minDist*GlowFalloff) halo on miss
	BaseOpacity = 0.82
)

// Audio analysis.
const (
	SampleRate   = 44100
	ChannelCount = 2
	FFTSize      = 1024

	// Band bucket edges in FFT bins (SampleRate/FFTSize ≈ 43 Hz per bin).
	BassBinMax   = 5   // < ~215 Hz
	MidBinMax    = 46  // < ~2 kHz
	TrebleBinMax = 460 // < ~20 kHz

	SpectrumBands = 64

	AGCDecay      = 0.999
	AGCMaxGain    = 50.0
	BandSmoothing = 0.9 // analyzer EMA retention per hop

	SceneBandRate = 8.0 // 1/s EMA rate for SceneState smoothed bands
)

// Speech sidecar. Handshake defaults match the sidecar's own, the pulse
// constants shape how word events reach the scene.
const (
	SpeechModel       = "small"
	SpeechDemucs      = "htdemucs"
	SpeechSegmentSecs = 6.0
	SpeechStepSecs    = 1.5

	WordConfidenceMin = 0.4
	WordPulseDecay    = 3.0 // 1/s exponential decay of the word pulse
	WordGlowBoost     = 0.5 // glow multiplier at full pulse
	WordEnergyBoost   = 0.4 // topology energy added at full pulse
)
