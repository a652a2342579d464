package captions

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// captionURLRe matches an absolute https URL that contains the "captions"
// marker and a ".vtt" extension, excluding characters that cannot appear
// inside an HTML attribute value. A query string after the extension is
// allowed (Vimeo signs caption URLs with query parameters).
var captionURLRe = regexp.MustCompile(`https://[^"'<>\s]*captions[^"'<>\s]*\.vtt[^"'<>\s]*`)

// PlayerFrameSelector identifies the embedded Vimeo player iframe. The same
// selector is used to inspect rendered markup here and to resolve the frame
// in the browser session.
const PlayerFrameSelector = `iframe[src*="player.vimeo"]`

// ampersandDecoder undoes the ampersand encodings seen in rendered markup:
// HTML entities and JSON-escaped unicode sequences. Rendered pages can
// double-encode the query-string separators of the caption URL.
var ampersandDecoder = strings.NewReplacer("&amp;", "&", "\\u0026", "&")

// FindCaptionURLs scans rendered page content for caption track URLs and
// returns them decoded, in document order. Multiple matches are possible when
// a video carries several caption tracks (e.g., languages); callers pick one.
// An empty slice means the content holds no discoverable caption URL.
//
// Matching and ampersand decoding are deliberately kept together so that
// fixture tests pin the exact URL a given markup snippet produces.
func FindCaptionURLs(html string) []string {
	matches := captionURLRe.FindAllString(html, -1)
	if len(matches) == 0 {
		return nil
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, ampersandDecoder.Replace(m))
	}
	return urls
}

// HasPlayerFrame reports whether the rendered content embeds a Vimeo player
// iframe. Used to decide if the frame fallback is worth asking the renderer
// for; a page without the iframe cannot yield a caption URL on that path.
func HasPlayerFrame(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(PlayerFrameSelector).Length() > 0
}

// PageTitle extracts the video page title for progress logging. Prefers the
// og:title meta tag (Vimeo sets it to the bare video title), falling back to
// the document title. Returns "" when neither is present.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
