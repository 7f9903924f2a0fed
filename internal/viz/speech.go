package viz

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/chewxy/math32"
)

// WordEvent is one recognized word reported by the speech sidecar.
type WordEvent struct {
	Word       string
	Timestamp  int64
	Confidence float32
}

// sidecarMsg is the JSON-line envelope the sidecar writes on stdout.
type sidecarMsg struct {
	Type       string  `json:"type"`
	Word       string  `json:"word"`
	Timestamp  int64   `json:"timestamp"`
	Confidence float32 `json:"confidence"`
	Status     string  `json:"status"`
	Message    string  `json:"message"`
}

// sidecarCmd is the JSON-line command format the sidecar reads on stdin.
type sidecarCmd struct {
	Type        string  `json:"type"`
	Model       string  `json:"model,omitempty"`
	DemucsModel string  `json:"demucsModel,omitempty"`
	SegmentSecs float64 `json:"segmentSeconds,omitempty"`
	StepSecs    float64 `json:"stepSeconds,omitempty"`
	Samples     string  `json:"samples,omitempty"`
	SampleRate  int     `json:"sampleRate,omitempty"`
}

// SpeechSource spawns the transcription sidecar process and turns its
// word events into onWord calls. Audio reaches the sidecar as base64
// float32 chunks over the same stdin pipe, but only after the sidecar
// has reported ready; everything before that is dropped.
type SpeechSource struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu      sync.Mutex
	enabled bool
	closed  bool

	onWord func(WordEvent)
}

// StartSpeechSource launches command (split on whitespace), performs the
// init handshake, and reads word events until the process exits.
func StartSpeechSource(command string, onWord func(WordEvent)) (*SpeechSource, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("speech: empty command")
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("speech stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("speech stdout: %w", err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("speech start: %w", err)
	}

	s := &SpeechSource{cmd: cmd, stdin: stdin, onWord: onWord}
	if err := s.send(sidecarCmd{
		Type:        "init",
		Model:       SpeechModel,
		DemucsModel: SpeechDemucs,
		SegmentSecs: SpeechSegmentSecs,
		StepSecs:    SpeechStepSecs,
	}); err != nil {
		s.Close()
		return nil, err
	}
	go s.readLoop(stdout)
	return s, nil
}

func (s *SpeechSource) send(c sidecarCmd) error {
	line, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if _, err := s.stdin.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("speech write: %w", err)
	}
	return nil
}

// readLoop consumes stdout JSON lines until EOF. Malformed lines and
// unknown message types are skipped.
func (s *SpeechSource) readLoop(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg sidecarMsg
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}
		s.handle(msg)
	}
}

func (s *SpeechSource) handle(msg sidecarMsg) {
	switch msg.Type {
	case "ready":
		s.mu.Lock()
		s.enabled = true
		s.mu.Unlock()
		if err := s.send(sidecarCmd{Type: "enable"}); err != nil {
			fmt.Fprintf(os.Stderr, "speech enable: %v\n", err)
		}
	case "word":
		if msg.Confidence < WordConfidenceMin {
			return
		}
		if s.onWord != nil {
			s.onWord(WordEvent{Word: msg.Word, Timestamp: msg.Timestamp, Confidence: msg.Confidence})
		}
	case "error":
		fmt.Fprintf(os.Stderr, "speech sidecar: %s\n", msg.Message)
	}
}

// PushAudio forwards a mono block to the sidecar.
func (s *SpeechSource) PushAudio(samples []float32, sampleRate int) {
	s.mu.Lock()
	ok := s.enabled && !s.closed
	s.mu.Unlock()
	if !ok || len(samples) == 0 {
		return
	}
	raw := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	if err := s.send(sidecarCmd{
		Type:       "audio",
		Samples:    base64.StdEncoding.EncodeToString(raw),
		SampleRate: sampleRate,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "speech audio: %v\n", err)
	}
}

// Close asks the sidecar to shut down and reaps the process. Safe to
// call more than once.
func (s *SpeechSource) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	line, _ := json.Marshal(sidecarCmd{Type: "shutdown"})
	s.stdin.Write(append(line, '\n'))
	s.stdin.Close()
	if s.cmd != nil {
		s.cmd.Wait()
	}
}

// WordPulse accumulates word hits into a level that decays over time.
// Hits arrive from the sidecar goroutine; the frame loop drains it.
type WordPulse struct {
	mu    sync.Mutex
	level float32
}

// Hit raises the pulse to at least the word's confidence.
func (w *WordPulse) Hit(confidence float32) {
	c := clampF(confidence, 0, 1)
	w.mu.Lock()
	if c > w.level {
		w.level = c
	}
	w.mu.Unlock()
}

// Decay advances the pulse by dt seconds and returns the new level.
func (w *WordPulse) Decay(dt float32) float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dt > 0 {
		w.level *= math32.Exp(-WordPulseDecay * dt)
	}
	if w.level < 1e-4 {
		w.level = 0
	}
	return w.level
}
