package locatetest

import "errors"

// Dialog is a native dialog raised with Site.Raise
type Dialog struct {
	site     *Site
	kind     string
	message  string
	consumed bool
}

func (d *Dialog) Kind() string {
	return d.kind
}

func (d *Dialog) Message() string {
	return d.message
}

// Accept removes the dialog from the pending queue
func (d *Dialog) Accept() error {
	d.site.mu.Lock()
	defer d.site.mu.Unlock()
	if d.consumed {
		return errors.New("dialog already handled")
	}
	d.consumed = true
	for i, p := range d.site.pending {
		if p == d {
			d.site.pending = append(d.site.pending[:i], d.site.pending[i+1:]...)
			break
		}
	}
	d.site.accepted = append(d.site.accepted, d.message)
	return nil
}
