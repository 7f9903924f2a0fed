package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"blobfield/internal/viz"
)

func main() {
	var opts viz.Options
	var seed uint64
	flag.Uint64Var(&seed, "seed", 0, "simulation seed (0 = clock)")
	flag.StringVar(&opts.FilePath, "file", "", "audio file to play (mp3/wav/flac); empty opens a picker")
	flag.BoolVar(&opts.Live, "live", false, "react to the default input device instead of a file")
	flag.StringVar(&opts.Scheme, "scheme", "", "color scheme override")
	flag.IntVar(&opts.BlobCount, "blobs", 0, "blob count target override")
	flag.StringVar(&opts.SpeechCmd, "speech", "", "speech sidecar command (e.g. \"python sidecar.py\"); empty disables")
	flag.Parse()

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts.Seed = seed

	if err := viz.RunDesktop(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
