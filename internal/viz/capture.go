package viz

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// LiveSource feeds the default input device into an Analyzer. The
// portaudio callback runs on its own thread; the analyzer does its own
// locking.
type LiveSource struct {
	stream *portaudio.Stream
}

// StartLiveSource opens and starts the default mono input stream.
func StartLiveSource(an *Analyzer) (*LiveSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, FFTSize, func(in []float32) {
		an.PushMono(in)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	return &LiveSource{stream: stream}, nil
}

// Close stops the stream and tears down portaudio. Idempotent.
func (s *LiveSource) Close() {
	if s.stream == nil {
		return
	}
	s.stream.Stop()
	s.stream.Close()
	s.stream = nil
	portaudio.Terminate()
}
