// Package transcriptservice runs the caption extraction pipeline for one
// video URL: render the page, locate the caption track URL (main document
// first, then the embedded player frame), and download the raw WebVTT.
package transcriptservice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/feamster/vimeo-transcript/pkg/captions"
	"github.com/feamster/vimeo-transcript/pkg/domain"
	"github.com/feamster/vimeo-transcript/pkg/httpclient"
	"github.com/feamster/vimeo-transcript/pkg/renderer"
	"github.com/feamster/vimeo-transcript/pkg/vtt"
)

var (
	ErrEmptyVideoURL = errors.New("video URL is empty")

	// ErrNoCaptions is the terminal outcome when neither the main document nor
	// the player frame yields a caption URL. The video most likely has no
	// captions enabled; it is not a transport failure.
	ErrNoCaptions = errors.New("no caption track found on video page or player frame")
)

// TrackSelector picks one caption URL when a video carries several tracks
// (e.g., multiple languages). candidates is non-empty and in document order.
// Returning "" falls back to the first candidate.
type TrackSelector func(candidates []string) string

// FirstTrack selects the first caption URL in document order. This mirrors
// the upstream page's ordering and makes no language guarantee.
func FirstTrack(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// PreferLanguage returns a selector that picks the first track whose URL
// carries the given language code as a dot-separated token (Vimeo track URLs
// look like ".../12345.en.vtt?..."). Falls back to document order when no
// track matches.
func PreferLanguage(code string) TrackSelector {
	needle := "." + strings.ToLower(code) + ".vtt"
	return func(candidates []string) string {
		for _, u := range candidates {
			if strings.Contains(strings.ToLower(u), needle) {
				return u
			}
		}
		return FirstTrack(candidates)
	}
}

// Service wires the renderer, locator and caption fetch together. One Service
// handles one invocation; it keeps no state between runs.
type Service struct {
	renderer    renderer.Renderer
	client      *httpclient.HTTPClient
	selectTrack TrackSelector
}

// Option configures a Service.
type Option func(*Service)

// WithClient overrides the caption download client (used in tests).
func WithClient(client *httpclient.HTTPClient) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithTrackSelector overrides the default first-in-document-order track
// selection.
func WithTrackSelector(selector TrackSelector) Option {
	return func(s *Service) {
		s.selectTrack = selector
	}
}

// New creates a Service around the given renderer. By default captions are
// downloaded with the TLS-relaxed caption CDN client and the first track in
// document order is used.
func New(r renderer.Renderer, opts ...Option) *Service {
	s := &Service{
		renderer:    r,
		client:      httpclient.NewClient(httpclient.CaptionCDNClient),
		selectTrack: FirstTrack,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract runs the full pipeline for one video URL and returns the raw
// caption payload. Plain-text conversion is left to the caller so raw
// pass-through output skips it entirely.
func (s *Service) Extract(ctx context.Context, videoURL string) (*domain.Transcript, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, ErrEmptyVideoURL
	}

	log.Printf("Loading: %s", videoURL)
	pageHTML, err := s.renderer.RenderPage(videoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render video page: %w", err)
	}

	title := captions.PageTitle(pageHTML)
	if title != "" {
		log.Printf("Page title: %s", title)
	}

	urls := captions.FindCaptionURLs(pageHTML)
	if len(urls) == 0 {
		urls, err = s.searchPlayerFrame(pageHTML)
		if err != nil {
			return nil, err
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoCaptions
	}

	captionURL := s.selectTrack(urls)
	if captionURL == "" {
		captionURL = urls[0]
	}

	log.Printf("Downloading transcript...")
	raw, err := s.client.Get(ctx, captionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download captions: %w", err)
	}
	if !vtt.IsWellFormed(raw) {
		log.Printf("Warning: caption file does not start with a WEBVTT header")
	}

	return &domain.Transcript{
		VideoURL:   videoURL,
		Title:      title,
		CaptionURL: captionURL,
		RawVTT:     raw,
	}, nil
}

// searchPlayerFrame is the second discovery stage: when the main document has
// no caption URL, look for the embedded player iframe and scan its rendered
// content. Returns nil with no error when the page embeds no player frame.
func (s *Service) searchPlayerFrame(pageHTML string) ([]string, error) {
	if !captions.HasPlayerFrame(pageHTML) {
		return nil, nil
	}

	frameHTML, found, err := s.renderer.RenderFrame(captions.PlayerFrameSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to render player frame: %w", err)
	}
	if !found {
		return nil, nil
	}

	return captions.FindCaptionURLs(frameHTML), nil
}
