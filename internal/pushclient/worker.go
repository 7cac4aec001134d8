package pushclient

import (
	"log"
	"sync"
)

// Worker states. The worker sits idle between deliveries; rendering and
// click resolution are short excursions that always return to idle.
const (
	StateIdle           = "idle"
	StateRendering      = "rendering"
	StateResolvingClick = "resolving-click"
)

// Worker is the background delivery path: it receives push payloads while
// no application window has focus and turns them into OS-level
// notifications. It runs in an isolated context; nothing calls it except
// the gateway's delivery and the notification-click event.
type Worker struct {
	notifier Notifier
	windows  Windows
	origin   string

	mu    sync.Mutex
	state string
}

func NewWorker(notifier Notifier, windows Windows, origin string) *Worker {
	return &Worker{
		notifier: notifier,
		windows:  windows,
		origin:   origin,
		state:    StateIdle,
	}
}

// Receive renders a delivered payload. Render failures are logged and
// dropped; there is no caller to propagate to.
func (w *Worker) Receive(p Payload) {
	w.setState(StateRendering)
	defer w.setState(StateIdle)

	if err := w.notifier.Show(Render(p)); err != nil {
		log.Printf("[Worker] Failed to render notification: %v", err)
	}
}

// HandleClick resolves a notification click to in-app navigation: close the
// notification, then focus an already-open application window if one
// exists, else open exactly one new window at the deep-link target.
// Reuse-before-create is the navigation contract: clicks must not
// proliferate windows across a session.
func (w *Worker) HandleClick(n Rendered) {
	w.setState(StateResolvingClick)
	defer w.setState(StateIdle)

	w.notifier.Close(n.Tag)

	target := n.Data["link"]
	if target == "" {
		target = "/"
	}

	for _, win := range w.windows.List() {
		if win.Origin() == w.origin {
			win.Focus()
			return
		}
	}

	if _, err := w.windows.Open(w.origin + target); err != nil {
		log.Printf("[Worker] Failed to open window for %s: %v", target, err)
	}
}

// State reports the current worker state.
func (w *Worker) State() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) setState(s string) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}
