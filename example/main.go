// Example program: analyze the files given on the command line and
// print a short summary per file.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	mediaprobe "github.com/bbidwell85/Totality-sub002"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <media files...>\n", os.Args[0])
		os.Exit(2)
	}

	zl, err := logger.New(true)
	if err != nil {
		log.Fatal(err)
	}

	analyzer, err := mediaprobe.New(mediaprobe.Config{
		MaxWorkers: 4,
		Logger:     zl,
	})
	if err != nil {
		log.Fatalf("create analyzer: %v", err)
	}
	defer func() {
		_ = analyzer.Shutdown(context.Background())
		analyzer.Close()
	}()

	results, err := analyzer.AnalyzeFiles(context.Background(), os.Args[1:],
		func(completed, total int, basename string) {
			fmt.Printf("  completed %d/%d: %s\n", completed, total, basename)
		})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	for _, path := range os.Args[1:] {
		res := results[path]
		if res == nil {
			continue
		}
		if !res.Success {
			fmt.Printf("%s: FAILED: %s\n", path, res.Error)
			continue
		}

		fmt.Printf("%s: container=%s", path, res.Container)
		if res.Video != nil {
			fmt.Printf(" video=%s %dx%d", res.Video.Codec, res.Video.Width, res.Video.Height)
			if res.Video.HDRFormat != "" {
				fmt.Printf(" hdr=%s", res.Video.HDRFormat)
			}
		}
		fmt.Printf(" audio_tracks=%d subtitle_tracks=%d\n",
			len(res.AudioTracks), len(res.SubtitleTracks))
	}

	stats := analyzer.Stats()
	fmt.Printf("pool: max=%d active=%d queued=%d\n",
		stats.MaxWorkers, stats.ActiveWorkers, stats.QueuedTasks)
}
