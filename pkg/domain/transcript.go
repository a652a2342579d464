package domain

// Transcript represents the result of one caption extraction run: the video
// page it came from and the raw WebVTT payload downloaded from the caption CDN.
//
// Nothing here is persisted; the value lives only for the duration of one
// invocation and is handed to the output writer once.
type Transcript struct {
	// VideoURL is the video page URL supplied by the operator.
	VideoURL string

	// Title is the video page title, when available. Used for progress
	// logging only.
	Title string

	// CaptionURL is the resolved caption track URL, with HTML entities and
	// escaped ampersands already decoded.
	CaptionURL string

	// RawVTT is the unmodified caption file content. Plain-text conversion
	// is applied by the caller only when text output is requested.
	RawVTT string
}
