package viz

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Options selects the audio source and initial tuning overrides.
type Options struct {
	Seed      uint64
	FilePath  string // audio file to play; empty + !Live → file dialog
	Live      bool   // capture the default input device instead
	Scheme    string // color scheme override, "" keeps prefs
	BlobCount int    // 0 keeps prefs
	SpeechCmd string // speech sidecar command line; empty disables
}

// audioSource is whichever collaborator is feeding the analyzer.
type audioSource interface {
	Close()
}

// RunDesktop owns the window, the audio source, and the frame loop.
// Resource errors (GL program, window) are fatal and returned; audio
// failure is not, the loop just runs on a silent signal.
func RunDesktop(opts Options) error {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	analyzer := NewAnalyzer()
	var source audioSource
	if opts.Live {
		source, err = StartLiveSource(analyzer)
	} else {
		path := opts.FilePath
		if path == "" {
			path, err = PickAudioFile()
		}
		if err == nil {
			source, err = StartPlaybackSource(path, analyzer)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio unavailable (continuing silent): %v\n", err)
		source = nil
	}
	if source != nil {
		defer source.Close()
	}

	// Optional speech sidecar: word events pump a pulse the orchestrator
	// drains every frame. Spawn failure follows the audio policy.
	var pulse WordPulse
	if opts.SpeechCmd != "" {
		speech, err := StartSpeechSource(opts.SpeechCmd, func(ev WordEvent) {
			pulse.Hit(ev.Confidence)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "speech unavailable (continuing without): %v\n", err)
		} else {
			defer speech.Close()
			analyzer.SetTap(func(mono []float32) {
				speech.PushAudio(mono, SampleRate)
			})
		}
	}

	cfg := LoadPrefs()
	patch := Patch{}
	if opts.Scheme != "" {
		patch.Scheme = &opts.Scheme
	}
	if opts.BlobCount > 0 {
		patch.BlobCount = &opts.BlobCount
	}
	cfg.Merge(patch)

	orch := NewOrchestrator(cfg, opts.Seed)

	fbW, fbH := window.GetFramebufferSize()
	rend, err := NewRenderer(fbW, fbH)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	// Resize updates projection only; the simulation keeps running.
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		rend.Resize(w, h)
	})

	schemeKeys := SchemeNames()
	sort.Strings(schemeKeys)
	prev := map[glfw.Key]bool{}
	justPressed := func(k glfw.Key) bool {
		down := window.GetKey(k) == glfw.Press
		was := prev[k]
		prev[k] = down
		return down && !was
	}

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		// Live tuning: number keys pick a scheme, brackets change the
		// blob count target (reseeds the store).
		cur := orch.Config()
		for i, name := range schemeKeys {
			if i < 9 && justPressed(glfw.Key1+glfw.Key(i)) {
				cur.Scheme = name
				orch.Reconfigure(cur)
			}
		}
		if justPressed(glfw.KeyRightBracket) {
			cur.BlobCount++
			orch.Reconfigure(cur)
		}
		if justPressed(glfw.KeyLeftBracket) {
			cur.BlobCount--
			orch.Reconfigure(cur)
		}

		orch.SetWordPulse(pulse.Decay(float32(dt)))
		snap := orch.Advance(analyzer.Frame(), float32(dt*1000))
		rend.Draw(snap)
		window.SwapBuffers()
	}

	if err := SavePrefs(orch.Config()); err != nil {
		fmt.Fprintf(os.Stderr, "save prefs: %v\n", err)
	}
	return nil
}
