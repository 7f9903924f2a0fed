package viz

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/hajimehoshi/oto/v2"
	"github.com/ncruces/zenity"
)

// BitDepth 0 selects 32-bit float output (oto.FormatFloat32LE).
const playerBitDepth = 0

// PlaybackSource decodes an audio file with beep and streams it through
// an oto player, tapping every sample into the Analyzer on the way so
// the visualization reacts to what the speakers are playing.
type PlaybackSource struct {
	stream beep.StreamSeekCloser
	player oto.Player
}

// PickAudioFile opens a file dialog when no path was given on the
// command line.
func PickAudioFile() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.mp3", "*.wav", "*.flac"},
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", errors.New("no file selected")
	}
	return path, err
}

// StartPlaybackSource decodes path, resamples to the engine rate if
// needed, and starts playback.
func StartPlaybackSource(path string, an *Analyzer) (*PlaybackSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}

	var stream beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	var src beep.Streamer = stream
	if format.SampleRate != SampleRate {
		src = beep.Resample(4, format.SampleRate, SampleRate, stream)
	}

	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, playerBitDepth)
	if err != nil {
		stream.Close()
		return nil, fmt.Errorf("audio context: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(&tapReader{src: src, analyzer: an})
	player.Play()

	return &PlaybackSource{stream: stream, player: player}, nil
}

// Close stops playback and releases the decoder. Idempotent.
func (p *PlaybackSource) Close() {
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
}

// tapReader adapts a beep.Streamer to the float32-LE stereo io.Reader
// oto consumes, pushing every pulled chunk into the analyzer.
type tapReader struct {
	src      beep.Streamer
	analyzer *Analyzer
	scratch  [][2]float64
}

func (t *tapReader) Read(p []byte) (int, error) {
	frames := len(p) / 8 // 2 channels × 4 bytes
	if frames == 0 {
		return 0, nil
	}
	if cap(t.scratch) < frames {
		t.scratch = make([][2]float64, frames)
	}
	buf := t.scratch[:frames]
	n, ok := t.src.Stream(buf)
	if n == 0 && !ok {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		putStereoF32LR(p, i, buf[i][0], buf[i][1])
	}
	t.analyzer.PushStereo(buf[:n])
	return n * 8, nil
}

// putStereoF32LR writes independent left/right samples in [-1,1] as
// float32 LE at frame i.
func putStereoF32LR(buf []byte, i int, left, right float64) {
	l := math.Float32bits(float32(left))
	r := math.Float32bits(float32(right))
	buf[i*8] = byte(l)
	buf[i*8+1] = byte(l >> 8)
	buf[i*8+2] = byte(l >> 16)
	buf[i*8+3] = byte(l >> 24)
	buf[i*8+4] = byte(r)
	buf[i*8+5] = byte(r >> 8)
	buf[i*8+6] = byte(r >> 16)
	buf[i*8+7] = byte(r >> 24)
}
