package locate

// Page is the slice of a browser tab the wait layer needs.
// Implementations: browser.Session (playwright) and locatetest.Site (in memory).
type Page interface {
	// Navigate loads url and returns once the document has loaded
	Navigate(url string) error
	// URL returns the current document URL
	URL() string
	// QueryAll returns every element currently matching loc, possibly none
	QueryAll(loc Locator) ([]Element, error)
	// PendingDialog returns the oldest native dialog that has not been consumed
	PendingDialog() (Dialog, bool)
}

// Element is a handle to one rendered element
type Element interface {
	Click() error
	// Fill replaces the control's value
	Fill(value string) error
	Clear() error
	Text() (string, error)
	Visible() (bool, error)
	Enabled() (bool, error)
	// QueryAll resolves loc below this element; absolute paths are made relative
	QueryAll(loc Locator) ([]Element, error)
}

// Dialog is a native alert, confirm or prompt raised by the page
type Dialog interface {
	Kind() string
	Message() string
	// Accept consumes the dialog so later waits do not observe it again
	Accept() error
}
