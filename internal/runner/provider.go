package runner

import (
	"context"
	"fmt"

	"github.com/adyen/storefront-e2e/internal/browser"
)

// BrowserProvider adapts a browser.Manager to SessionProvider
type BrowserProvider struct {
	Manager *browser.Manager
}

func (p BrowserProvider) Acquire(ctx context.Context) (Session, error) {
	s, err := p.Manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p BrowserProvider) Release(s Session) error {
	bs, ok := s.(*browser.Session)
	if !ok {
		return fmt.Errorf("release: unexpected session type %T", s)
	}
	return p.Manager.Release(bs)
}
