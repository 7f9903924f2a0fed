package viz

import (
	"os"
	"testing"
)

// chdirTemp is a stand-in for t.Chdir(t.TempDir()), which requires Go 1.24.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestConfig_ClampRanges(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			"all below range",
			Config{Sensitivity: 0, SpikeIntensity: -1, BlobCount: 0, GlowStrength: 0, Smoothness: 0, Scheme: "plasma"},
			Config{Sensitivity: 0.1, SpikeIntensity: 0.1, BlobCount: 2, GlowStrength: 0.1, Smoothness: 0.1, Scheme: "plasma"},
		},
		{
			"all above range",
			Config{Sensitivity: 10, SpikeIntensity: 99, BlobCount: MaxBlobs * 2, GlowStrength: 5, Smoothness: 3, Scheme: "ocean"},
			Config{Sensitivity: 3, SpikeIntensity: 3, BlobCount: MaxBlobs, GlowStrength: 3, Smoothness: 1, Scheme: "ocean"},
		},
		{
			"unknown scheme falls back",
			Config{Sensitivity: 1, SpikeIntensity: 1, BlobCount: 4, GlowStrength: 1, Smoothness: 0.5, Scheme: "no-such"},
			Config{Sensitivity: 1, SpikeIntensity: 1, BlobCount: 4, GlowStrength: 1, Smoothness: 0.5, Scheme: "plasma"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Clamp()
			if got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_MergePartialPatch(t *testing.T) {
	cfg := DefaultConfig()
	glow := float32(2.5)
	count := 10

	cfg.Merge(Patch{GlowStrength: &glow, BlobCount: &count})

	if cfg.GlowStrength != 2.5 || cfg.BlobCount != 10 {
		t.Errorf("patched fields not applied: %+v", cfg)
	}
	def := DefaultConfig()
	if cfg.Sensitivity != def.Sensitivity || cfg.Scheme != def.Scheme {
		t.Errorf("unpatched fields changed: %+v", cfg)
	}
}

func TestConfig_MergeClampsPatchedValues(t *testing.T) {
	cfg := DefaultConfig()
	count := MaxBlobs + 50
	cfg.Merge(Patch{BlobCount: &count})

	if cfg.BlobCount != MaxBlobs {
		t.Errorf("BlobCount = %d after out-of-range patch, want %d", cfg.BlobCount, MaxBlobs)
	}
}

func TestSchemeColors_Fallback(t *testing.T) {
	if SchemeColors("nope") != SchemeColors("plasma") {
		t.Error("unknown scheme did not fall back to plasma")
	}
}

func TestDescribeBlobField(t *testing.T) {
	d := DescribeBlobField()
	if d.ID == "" || d.Name == "" || d.RendererKind != "raymarch" {
		t.Errorf("descriptor incomplete: %+v", d)
	}
}

func TestPrefs_RoundTrip(t *testing.T) {
	chdirTemp(t)

	cfg := DefaultConfig()
	cfg.GlowStrength = 2.25
	cfg.Scheme = "ember"
	if err := SavePrefs(cfg); err != nil {
		t.Fatalf("SavePrefs: %v", err)
	}

	if got := LoadPrefs(); got != cfg {
		t.Errorf("LoadPrefs = %+v, want %+v", got, cfg)
	}
}

func TestPrefs_MissingFileDefaults(t *testing.T) {
	chdirTemp(t)

	if got := LoadPrefs(); got != DefaultConfig() {
		t.Errorf("LoadPrefs with no file = %+v, want defaults", got)
	}
}
