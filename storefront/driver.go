package storefront

// PageDriver is the element-query capability the page abstractions are built on. The
// harness is not a browser-automation engine; it assumes an external collaborator
// that can navigate pages, query DOM elements by selector, and interact with them.
// Every operation is a suspension point with a bounded wait enforced by the
// implementation; none blocks indefinitely.
type PageDriver interface {
	// Navigate loads the page at the given path relative to the storefront base URL.
	Navigate(path string) error

	// Click clicks the first element matching the selector.
	Click(selector string) error

	// Fill replaces the value of the input matching the selector.
	Fill(selector, value string) error

	// Text returns the text content of the first element matching the selector.
	Text(selector string) (string, error)

	// Texts returns the text content of every element matching the selector, in
	// display order.
	Texts(selector string) ([]string, error)

	// Visible reports whether an element matching the selector is currently visible.
	// An absent element is not an error; it is reported as not visible.
	Visible(selector string) (bool, error)

	// VisibleText is a single combined query returning both the visibility and the
	// text of the first matching element, so that checks against both cannot race
	// with a page update between them.
	VisibleText(selector string) (text string, visible bool, err error)
}

// Screenshotter is an optional capability of a PageDriver. When present, the harness
// captures a still image on terminal scenario failure.
type Screenshotter interface {
	Screenshot() ([]byte, error)
}

// VideoRecorder is an optional capability of a PageDriver. When present, the harness
// retains the recording for scenarios that ultimately fail.
type VideoRecorder interface {
	// VideoFile returns the path of the recording of this session, or "" if the
	// driver did not record one.
	VideoFile() string
}
