package viz

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/chewxy/math32"
)

// sinkCloser is an in-memory stdin stand-in for the sidecar process.
type sinkCloser struct{ bytes.Buffer }

func (*sinkCloser) Close() error { return nil }

func (s *sinkCloser) commands(t *testing.T) []sidecarCmd {
	t.Helper()
	var out []sidecarCmd
	for _, line := range strings.Split(strings.TrimSpace(s.String()), "\n") {
		if line == "" {
			continue
		}
		var c sidecarCmd
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			t.Fatalf("stdin line %q: %v", line, err)
		}
		out = append(out, c)
	}
	return out
}

func TestSpeechSource_ReadLoopHandshakeAndWords(t *testing.T) {
	stdin := &sinkCloser{}
	var got []WordEvent
	s := &SpeechSource{stdin: stdin, onWord: func(ev WordEvent) { got = append(got, ev) }}

	lines := strings.Join([]string{
		`{"type":"status","status":"loading-demucs","progress":10}`,
		`{"type":"ready"}`,
		`not json at all`,
		`{"type":"word","word":"hello","timestamp":1234,"confidence":0.91}`,
		`{"type":"word","word":"(music)","timestamp":1235,"confidence":0.2}`,
		`{"type":"transcript","text":"hello"}`,
	}, "\n")
	s.readLoop(strings.NewReader(lines))

	if !s.enabled {
		t.Error("ready line did not enable the source")
	}
	cmds := stdin.commands(t)
	if len(cmds) != 1 || cmds[0].Type != "enable" {
		t.Fatalf("stdin commands after ready = %+v, want one enable", cmds)
	}

	if len(got) != 1 {
		t.Fatalf("word events = %+v, want exactly the confident one", got)
	}
	if got[0].Word != "hello" || got[0].Timestamp != 1234 || math32.Abs(got[0].Confidence-0.91) > 1e-6 {
		t.Errorf("event = %+v", got[0])
	}
}

func TestSpeechSource_PushAudioGatedUntilReady(t *testing.T) {
	stdin := &sinkCloser{}
	s := &SpeechSource{stdin: stdin}

	s.PushAudio([]float32{0.5, -0.25}, SampleRate)
	if stdin.Len() != 0 {
		t.Fatalf("audio sent before ready: %q", stdin.String())
	}

	s.readLoop(strings.NewReader(`{"type":"ready"}`))
	s.PushAudio([]float32{0.5, -0.25}, SampleRate)

	cmds := stdin.commands(t)
	last := cmds[len(cmds)-1]
	if last.Type != "audio" || last.SampleRate != SampleRate {
		t.Fatalf("last command = %+v, want audio at %d Hz", last, SampleRate)
	}
	raw, err := base64.StdEncoding.DecodeString(last.Samples)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0.5, -0.25}
	if len(raw) != len(want)*4 {
		t.Fatalf("payload %d bytes, want %d", len(raw), len(want)*4)
	}
	for i, w := range want {
		v := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		if v != w {
			t.Errorf("sample %d = %v, want %v", i, v, w)
		}
	}
}

func TestWordPulse_HitAndDecay(t *testing.T) {
	var p WordPulse

	p.Hit(0.8)
	if got := p.Decay(0); got != 0.8 {
		t.Fatalf("pulse after hit = %v, want 0.8", got)
	}

	// A weaker word never lowers the level.
	p.Hit(0.3)
	if got := p.Decay(0); got != 0.8 {
		t.Errorf("weaker hit lowered pulse to %v", got)
	}

	got := p.Decay(1)
	want := 0.8 * math32.Exp(-WordPulseDecay)
	if math32.Abs(got-want) > 1e-4 {
		t.Errorf("pulse after 1s = %v, want %v", got, want)
	}

	p.Hit(5)
	if got := p.Decay(0); got != 1 {
		t.Errorf("pulse clamp = %v, want 1", got)
	}

	for i := 0; i < 100; i++ {
		p.Decay(0.1)
	}
	if got := p.Decay(0); got != 0 {
		t.Errorf("pulse did not settle to zero, got %v", got)
	}
}

func TestStartSpeechSource_EmptyCommand(t *testing.T) {
	if _, err := StartSpeechSource("  ", nil); err == nil {
		t.Fatal("empty command did not error")
	}
}
