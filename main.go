// Command vimeo-transcript extracts the transcript of a Vimeo video.
//
// It renders the video page in a headless browser, locates the WebVTT caption
// track URL (checking the page itself, then the embedded player frame),
// downloads the caption file, and prints either a plain-text transcript or
// the raw VTT.
//
// Usage:
//
//	vimeo-transcript https://vimeo.com/123456789
//	vimeo-transcript -o transcript.txt https://vimeo.com/123456789
//	vimeo-transcript -f vtt https://vimeo.com/123456789
//	vimeo-transcript -lang fr "https://vimeo.com/showcase/MyShowcase?video=123456789"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/feamster/vimeo-transcript/pkg/renderer"
	"github.com/feamster/vimeo-transcript/pkg/transcriptservice"
	"github.com/feamster/vimeo-transcript/pkg/vtt"
)

const (
	formatText = "text"
	formatVTT  = "vtt"
)

func main() {
	log.SetFlags(0)

	var (
		output string
		format string
		lang   string
	)
	flag.StringVar(&output, "output", "", "Output file (default: stdout)")
	flag.StringVar(&output, "o", "", "Output file (shorthand)")
	flag.StringVar(&format, "format", formatText, "Output format: text or vtt")
	flag.StringVar(&format, "f", formatText, "Output format (shorthand)")
	flag.StringVar(&lang, "lang", "", "Preferred caption language code (e.g. en); default is the first track found")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	videoURL := flag.Arg(0)

	if format != formatText && format != formatVTT {
		log.Fatalf("Invalid format %q: must be %q or %q", format, formatText, formatVTT)
	}

	if _, err := renderer.FindBrowser(); err != nil {
		log.Printf("Error: %v", err)
		log.Fatalf("%s", renderer.InstallHint)
	}

	if err := run(videoURL, output, format, lang); err != nil {
		if errors.Is(err, transcriptservice.ErrNoCaptions) {
			log.Printf("Error: could not find transcript/captions for this video.")
			log.Fatalf("The video may not have captions enabled.")
		}
		log.Fatalf("Error: %v", err)
	}
}

// run executes one extraction so deferred cleanup (the browser session) fires
// on every exit path before main decides the process exit code.
func run(videoURL, output, format, lang string) error {
	ctx := context.Background()

	r := renderer.NewChrome(ctx, renderer.DefaultOptions())
	defer r.Close()

	var opts []transcriptservice.Option
	if lang != "" {
		opts = append(opts, transcriptservice.WithTrackSelector(transcriptservice.PreferLanguage(lang)))
	}

	svc := transcriptservice.New(r, opts...)
	result, err := svc.Extract(ctx, videoURL)
	if err != nil {
		return err
	}

	out := result.RawVTT
	if format == formatText {
		out = vtt.ToText(result.RawVTT)
	}

	if output == "" {
		fmt.Println(out)
		return nil
	}

	if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Printf("Transcript saved to: %s", output)
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: vimeo-transcript [flags] <video-url>\n\nFlags:\n")
	flag.PrintDefaults()
}
