package transcriptservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeRenderer satisfies renderer.Renderer with canned page and frame content.
type fakeRenderer struct {
	pageHTML   string
	frameHTML  string
	frameFound bool

	frameRequested bool
}

func (f *fakeRenderer) RenderPage(url string) (string, error) {
	return f.pageHTML, nil
}

func (f *fakeRenderer) RenderFrame(selector string) (string, bool, error) {
	f.frameRequested = true
	return f.frameHTML, f.frameFound, nil
}

func (f *fakeRenderer) Close() {}

const sampleVTT = "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\nHello world\n"

// captionServer serves a VTT body over self-signed TLS, matching the caption
// CDN's broken-certificate behavior.
func captionServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// pageWithCaptionURL embeds a caption URL in an inline player-config blob the
// way Vimeo pages carry it.
func pageWithCaptionURL(u string) string {
	return `<html><body><script>{"text_tracks":"` + u + `"}</script></body></html>`
}

func TestExtract_MainDocumentHit(t *testing.T) {
	srv := captionServer(t, sampleVTT)
	captionURL := srv.URL + "/captions/1.en.vtt?a=1"

	// The locator pattern requires https + "captions" + ".vtt"; the TLS test
	// server URL satisfies https, the path supplies the rest.
	fake := &fakeRenderer{pageHTML: pageWithCaptionURL(captionURL)}
	svc := New(fake)

	got, err := svc.Extract(context.Background(), "https://vimeo.com/123456789")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.CaptionURL != captionURL {
		t.Fatalf("Extract CaptionURL = %q, want %q", got.CaptionURL, captionURL)
	}
	if got.RawVTT != sampleVTT {
		t.Fatalf("Extract RawVTT = %q, want %q", got.RawVTT, sampleVTT)
	}
	if fake.frameRequested {
		t.Fatalf("Extract rendered the player frame despite a main-document hit")
	}
}

func TestExtract_FallsBackToPlayerFrame(t *testing.T) {
	srv := captionServer(t, sampleVTT)
	captionURL := srv.URL + "/captions/1.en.vtt?a=1"

	fake := &fakeRenderer{
		pageHTML:   `<html><body><iframe src="https://player.vimeo.com/video/123"></iframe></body></html>`,
		frameHTML:  pageWithCaptionURL(captionURL),
		frameFound: true,
	}
	svc := New(fake)

	got, err := svc.Extract(context.Background(), "https://vimeo.com/123456789")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !fake.frameRequested {
		t.Fatalf("Extract never asked the renderer for the player frame")
	}
	if got.CaptionURL != captionURL {
		t.Fatalf("Extract CaptionURL = %q, want %q", got.CaptionURL, captionURL)
	}
}

func TestExtract_NoCaptionsAnywhere(t *testing.T) {
	fake := &fakeRenderer{
		pageHTML:   `<html><body><iframe src="https://player.vimeo.com/video/123"></iframe></body></html>`,
		frameHTML:  `<html><body>player without tracks</body></html>`,
		frameFound: true,
	}
	svc := New(fake)

	_, err := svc.Extract(context.Background(), "https://vimeo.com/123456789")
	if !errors.Is(err, ErrNoCaptions) {
		t.Fatalf("Extract error = %v, want ErrNoCaptions", err)
	}
}

func TestExtract_NoPlayerFrameSkipsFrameStage(t *testing.T) {
	fake := &fakeRenderer{
		pageHTML: `<html><body>no player here</body></html>`,
	}
	svc := New(fake)

	_, err := svc.Extract(context.Background(), "https://vimeo.com/123456789")
	if !errors.Is(err, ErrNoCaptions) {
		t.Fatalf("Extract error = %v, want ErrNoCaptions", err)
	}
	if fake.frameRequested {
		t.Fatalf("Extract asked for a player frame on a page without one")
	}
}

func TestExtract_DownloadFailurePropagates(t *testing.T) {
	srv := captionServer(t, sampleVTT)
	captionURL := srv.URL + "/captions/1.en.vtt?a=1"
	srv.Close() // fetch now fails with a connection error

	fake := &fakeRenderer{pageHTML: pageWithCaptionURL(captionURL)}
	svc := New(fake)

	got, err := svc.Extract(context.Background(), "https://vimeo.com/123456789")
	if err == nil {
		t.Fatalf("Extract returned nil error for a dead caption server")
	}
	if got != nil {
		t.Fatalf("Extract = %+v on failure, want nil result", got)
	}
}

func TestExtract_EmptyURL(t *testing.T) {
	svc := New(&fakeRenderer{})
	_, err := svc.Extract(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyVideoURL) {
		t.Fatalf("Extract error = %v, want ErrEmptyVideoURL", err)
	}
}

func TestExtract_PreferLanguageSelectsTrack(t *testing.T) {
	srv := captionServer(t, sampleVTT)
	enURL := srv.URL + "/captions/1.en.vtt?a=1"
	frURL := srv.URL + "/captions/2.fr.vtt?a=1"

	page := `<html><body><script>["` + enURL + `","` + frURL + `"]</script></body></html>`
	fake := &fakeRenderer{pageHTML: page}
	svc := New(fake, WithTrackSelector(PreferLanguage("fr")))

	got, err := svc.Extract(context.Background(), "https://vimeo.com/123456789")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.CaptionURL != frURL {
		t.Fatalf("Extract CaptionURL = %q, want French track %q", got.CaptionURL, frURL)
	}
}

func TestPreferLanguage_FallsBackToFirst(t *testing.T) {
	selector := PreferLanguage("de")
	candidates := []string{
		"https://captions.cloud.vimeo.com/captions/1.en.vtt?a=1",
		"https://captions.cloud.vimeo.com/captions/2.fr.vtt?a=1",
	}

	if got := selector(candidates); got != candidates[0] {
		t.Fatalf("PreferLanguage(de) = %q, want first candidate %q", got, candidates[0])
	}
}
