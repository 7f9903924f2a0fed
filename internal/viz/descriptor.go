package viz

import "github.com/go-gl/mathgl/mgl32"

// VisualizationDescriptor identifies a visualization to the host shell.
type VisualizationDescriptor struct {
	ID             string
	Name           string
	RendererKind   string // "raymarch" for this engine
	TransitionKind string // how the shell cross-fades to/from it
}

// DescribeBlobField returns the descriptor for this engine.
func DescribeBlobField() VisualizationDescriptor {
	return VisualizationDescriptor{
		ID:             "blob-field",
		Name:           "Blob Field",
		RendererKind:   "raymarch",
		TransitionKind: "fade",
	}
}

// Config holds the user-tunable parameters. All values are clamped,
// never rejected; see Clamp.
type Config struct {
	Sensitivity    float32 `json:"sensitivity"`
	SpikeIntensity float32 `json:"spike_intensity"`
	BlobCount      int     `json:"blob_count"`
	GlowStrength   float32 `json:"glow_strength"`
	Smoothness     float32 `json:"smoothness"`
	Scheme         string  `json:"scheme"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Sensitivity:    1.0,
		SpikeIntensity: 1.0,
		BlobCount:      6,
		GlowStrength:   1.0,
		Smoothness:     0.5,
		Scheme:         "plasma",
	}
}

// Clamp forces every field into its documented range in place.
func (c *Config) Clamp() {
	c.Sensitivity = clampF(c.Sensitivity, 0.1, 3.0)
	c.SpikeIntensity = clampF(c.SpikeIntensity, 0.1, 3.0)
	c.BlobCount = clamp(c.BlobCount, 2, MaxBlobs)
	c.GlowStrength = clampF(c.GlowStrength, 0.1, 3.0)
	c.Smoothness = clampF(c.Smoothness, 0.1, 1.0)
	if _, ok := schemes[c.Scheme]; !ok {
		c.Scheme = "plasma"
	}
}

// Patch is a partial Config; nil fields leave the target untouched.
type Patch struct {
	Sensitivity    *float32
	SpikeIntensity *float32
	BlobCount      *int
	GlowStrength   *float32
	Smoothness     *float32
	Scheme         *string
}

// Merge applies a patch field by field and re-clamps the result.
func (c *Config) Merge(p Patch) {
	if p.Sensitivity != nil {
		c.Sensitivity = *p.Sensitivity
	}
	if p.SpikeIntensity != nil {
		c.SpikeIntensity = *p.SpikeIntensity
	}
	if p.BlobCount != nil {
		c.BlobCount = *p.BlobCount
	}
	if p.GlowStrength != nil {
		c.GlowStrength = *p.GlowStrength
	}
	if p.Smoothness != nil {
		c.Smoothness = *p.Smoothness
	}
	if p.Scheme != nil {
		c.Scheme = *p.Scheme
	}
	c.Clamp()
}

// ColorScheme is a four-stop ramp: surface core, surface mid, spike tip,
// and the miss-branch halo.
type ColorScheme struct {
	Core mgl32.Vec3
	Mid  mgl32.Vec3
	Tip  mgl32.Vec3
	Glow mgl32.Vec3
}

var schemes = map[string]ColorScheme{
	"plasma": {
		Core: mgl32.Vec3{0.18, 0.02, 0.38},
		Mid:  mgl32.Vec3{0.78, 0.12, 0.42},
		Tip:  mgl32.Vec3{1.00, 0.82, 0.30},
		Glow: mgl32.Vec3{0.62, 0.20, 0.80},
	},
	"ocean": {
		Core: mgl32.Vec3{0.01, 0.09, 0.22},
		Mid:  mgl32.Vec3{0.05, 0.45, 0.62},
		Tip:  mgl32.Vec3{0.65, 0.95, 1.00},
		Glow: mgl32.Vec3{0.15, 0.55, 0.85},
	},
	"ember": {
		Core: mgl32.Vec3{0.12, 0.02, 0.01},
		Mid:  mgl32.Vec3{0.85, 0.25, 0.05},
		Tip:  mgl32.Vec3{1.00, 0.90, 0.55},
		Glow: mgl32.Vec3{0.95, 0.45, 0.10},
	},
	"toxic": {
		Core: mgl32.Vec3{0.02, 0.10, 0.03},
		Mid:  mgl32.Vec3{0.25, 0.80, 0.15},
		Tip:  mgl32.Vec3{0.90, 1.00, 0.45},
		Glow: mgl32.Vec3{0.35, 0.95, 0.30},
	},
}

// SchemeColors resolves a scheme name, falling back to plasma.
func SchemeColors(name string) ColorScheme {
	if s, ok := schemes[name]; ok {
		return s
	}
	return schemes["plasma"]
}

// SchemeNames lists the available schemes (order unspecified).
func SchemeNames() []string {
	out := make([]string, 0, len(schemes))
	for name := range schemes {
		out = append(out, name)
	}
	return out
}
