package browser

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/locate"
)

// Session is one browser tab. Native dialogs are accepted as soon as they
// open, otherwise the page would block, and are queued for PendingDialog.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	log     *zap.Logger

	mu      sync.Mutex
	dialogs []*dialog

	crashed   atomic.Bool
	releasing atomic.Bool
}

func newSession(b playwright.Browser, bctx playwright.BrowserContext, page playwright.Page, log *zap.Logger) *Session {
	s := &Session{
		browser: b,
		context: bctx,
		page:    page,
		log:     log,
	}

	page.OnDialog(s.handleDialog)
	page.OnCrash(func(playwright.Page) {
		s.crashed.Store(true)
		s.log.Error("page crashed")
	})
	b.OnDisconnected(func(playwright.Browser) {
		if s.releasing.Load() {
			return
		}
		s.crashed.Store(true)
		s.log.Error("browser disconnected")
	})
	return s
}

func (s *Session) handleDialog(d playwright.Dialog) {
	rec := &dialog{session: s, kind: d.Type(), message: d.Message()}
	if err := d.Accept(); err != nil {
		s.log.Warn("failed to accept dialog", zap.String("message", rec.message), zap.Error(err))
		rec.acceptErr = fmt.Errorf("accept %s dialog: %w", rec.kind, s.mapError(err))
	} else {
		s.log.Debug("dialog accepted", zap.String("type", rec.kind), zap.String("message", rec.message))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs = append(s.dialogs, rec)
}

// Crashed reports whether the tab crashed or the browser went away unexpectedly
func (s *Session) Crashed() bool {
	return s.crashed.Load()
}

// Navigate implements locate.Page
func (s *Session) Navigate(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, s.mapError(err))
	}
	return nil
}

// URL implements locate.Page
func (s *Session) URL() string {
	return s.page.URL()
}

// QueryAll implements locate.Page
func (s *Session) QueryAll(loc locate.Locator) ([]locate.Element, error) {
	return s.all(s.page.Locator(selector(loc)))
}

// PendingDialog implements locate.Page
func (s *Session) PendingDialog() (locate.Dialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.dialogs) == 0 {
		return nil, false
	}
	return s.dialogs[0], true
}

func (s *Session) all(l playwright.Locator) ([]locate.Element, error) {
	matches, err := l.All()
	if err != nil {
		return nil, s.mapError(err)
	}
	els := make([]locate.Element, 0, len(matches))
	for _, m := range matches {
		els = append(els, &element{session: s, loc: m})
	}
	return els, nil
}

// mapError turns driver errors for a dead tab into locate.ErrPageClosed
func (s *Session) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTargetClosed) || s.Crashed() || s.page.IsClosed() {
		return fmt.Errorf("%w: %v", locate.ErrPageClosed, err)
	}
	return err
}

func selector(loc locate.Locator) string {
	return "xpath=" + loc.XPath()
}

type element struct {
	session *Session
	loc     playwright.Locator
}

func (e *element) Click() error {
	return e.session.mapError(e.loc.Click())
}

func (e *element) Fill(value string) error {
	return e.session.mapError(e.loc.Fill(value))
}

func (e *element) Clear() error {
	return e.session.mapError(e.loc.Clear())
}

func (e *element) Text() (string, error) {
	text, err := e.loc.TextContent()
	return text, e.session.mapError(err)
}

func (e *element) Visible() (bool, error) {
	ok, err := e.loc.IsVisible()
	return ok, e.session.mapError(err)
}

func (e *element) Enabled() (bool, error) {
	ok, err := e.loc.IsEnabled()
	return ok, e.session.mapError(err)
}

func (e *element) QueryAll(loc locate.Locator) ([]locate.Element, error) {
	return e.session.all(e.loc.Locator(selector(loc.Relative())))
}

// dialog is a dialog the session already tried to accept. Accept dequeues it
// and returns the error the driver gave when accepting.
type dialog struct {
	session   *Session
	kind      string
	message   string
	acceptErr error
}

func (d *dialog) Kind() string {
	return d.kind
}

func (d *dialog) Message() string {
	return d.message
}

func (d *dialog) Accept() error {
	s := d.session
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.dialogs {
		if p == d {
			s.dialogs = append(s.dialogs[:i], s.dialogs[i+1:]...)
			return d.acceptErr
		}
	}
	return errors.New("dialog already handled")
}
