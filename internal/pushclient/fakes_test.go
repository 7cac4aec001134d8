package pushclient

import (
	"context"
	"errors"
	"sync"
)

// fakePlatform scripts the permission flow.
type fakePlatform struct {
	supported  bool
	permission PermissionState
	// promptResult is what RequestPermission resolves to.
	promptResult PermissionState
	promptErr    error
	prompts      int
}

func (p *fakePlatform) Supported() bool             { return p.supported }
func (p *fakePlatform) Permission() PermissionState { return p.permission }

func (p *fakePlatform) RequestPermission(ctx context.Context) (PermissionState, error) {
	p.prompts++
	if p.promptErr != nil {
		return PermissionDefault, p.promptErr
	}
	p.permission = p.promptResult
	return p.promptResult, nil
}

// fakeGateway issues a scripted token and routes deliveries the way the
// platform does: to the foreground receiver when one is attached and the
// app is focused, to the background receiver otherwise.
type fakeGateway struct {
	mu         sync.Mutex
	token      string
	tokenErr   error
	focused    bool
	background Receiver
	foreground Receiver
}

func (g *fakeGateway) Token(ctx context.Context, publicKey string) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	if publicKey == "" {
		return "", errors.New("missing public key")
	}
	return g.token, nil
}

func (g *fakeGateway) SetBackgroundReceiver(r Receiver) {
	g.mu.Lock()
	g.background = r
	g.mu.Unlock()
}

func (g *fakeGateway) SetForegroundReceiver(r Receiver) {
	g.mu.Lock()
	g.foreground = r
	g.mu.Unlock()
}

// Deliver routes one payload to at most one receiver.
func (g *fakeGateway) Deliver(p Payload) {
	g.mu.Lock()
	fg, bg, focused := g.foreground, g.background, g.focused
	g.mu.Unlock()

	if focused && fg != nil {
		fg.Receive(p)
		return
	}
	if bg != nil {
		bg.Receive(p)
	}
}

// fakeNotifier keeps visible notifications keyed by tag, which is exactly
// the collapse behavior of the real surface.
type fakeNotifier struct {
	mu      sync.Mutex
	visible map[string]Rendered
	shown   int
	showErr error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{visible: make(map[string]Rendered)}
}

func (n *fakeNotifier) Show(r Rendered) error {
	if n.showErr != nil {
		return n.showErr
	}
	n.mu.Lock()
	n.visible[r.Tag] = r
	n.shown++
	n.mu.Unlock()
	return nil
}

func (n *fakeNotifier) Close(tag string) {
	n.mu.Lock()
	delete(n.visible, tag)
	n.mu.Unlock()
}

func (n *fakeNotifier) visibleCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.visible)
}

func (n *fakeNotifier) get(tag string) (Rendered, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	r, ok := n.visible[tag]
	return r, ok
}

type fakeWindow struct {
	origin  string
	url     string
	focused int
}

func (w *fakeWindow) Origin() string { return w.origin }
func (w *fakeWindow) Focus()         { w.focused++ }

type fakeWindows struct {
	mu      sync.Mutex
	open    []*fakeWindow
	openErr error
}

func (w *fakeWindows) List() []Window {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Window, len(w.open))
	for i, win := range w.open {
		out[i] = win
	}
	return out
}

func (w *fakeWindows) Open(url string) (Window, error) {
	if w.openErr != nil {
		return nil, w.openErr
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	win := &fakeWindow{origin: originOf(url), url: url}
	w.open = append(w.open, win)
	return win, nil
}

func (w *fakeWindows) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.open)
}

// originOf strips the path from a URL the simple way; test URLs are always
// origin+path.
func originOf(url string) string {
	slashes := 0
	for i := 0; i < len(url); i++ {
		if url[i] == '/' {
			slashes++
			if slashes == 3 {
				return url[:i]
			}
		}
	}
	return url
}
