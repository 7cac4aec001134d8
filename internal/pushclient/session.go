package pushclient

import (
	"context"
	"log"
	"sync"

	"localmart-backend/pkg/metrics"
)

// Session is the authenticated identity this subsystem serves. It is passed
// in explicitly; the manager never reads ambient storage to discover who is
// signed in.
type Session struct {
	UserID      string
	AccessToken string
}

// Manager bridges the authentication lifecycle to the device-token
// lifecycle: after every successful sign-in it negotiates permission,
// attaches the delivery paths and registers a fresh device token; before
// sign-out it unregisters. Everything here is best-effort: the surrounding
// auth flow must never be blocked or failed by push infrastructure, so no
// method returns an error.
type Manager struct {
	platform  Platform
	gateway   Gateway
	api       *API
	worker    *Worker
	router    *Router
	publicKey string
	provider  string

	mu    sync.Mutex
	token string
}

func NewManager(platform Platform, gateway Gateway, api *API, notifier Notifier, windows Windows, origin, publicKey, provider string) *Manager {
	return &Manager{
		platform:  platform,
		gateway:   gateway,
		api:       api,
		worker:    NewWorker(notifier, windows, origin),
		router:    NewRouter(notifier),
		publicKey: publicKey,
		provider:  provider,
	}
}

// Worker exposes the background delivery worker, e.g. to wire the platform's
// notification-click event to it.
func (m *Manager) Worker() *Worker {
	return m.worker
}

// InitializeForSession is called after every successful sign-in, sign-up or
// session restore. The gateway may issue a fresh token at any time, so
// registration runs on every call. It is idempotent on the backend.
//
// On an unsupported platform, or once permission is denied, this is a
// silent no-op: no retry is ever scheduled, and the notification center
// keeps working over polling alone.
func (m *Manager) InitializeForSession(ctx context.Context, session Session) {
	m.api.SetAccessToken(session.AccessToken)

	if !m.platform.Supported() {
		return
	}

	perm := m.platform.Permission()
	if perm == PermissionDefault {
		requested, err := m.platform.RequestPermission(ctx)
		if err != nil {
			log.Printf("[PushClient] Permission request failed: %v", err)
			return
		}
		perm = requested
	}
	if perm != PermissionGranted {
		return
	}

	// Attach both delivery paths. The gateway routes any given delivery to
	// exactly one of them depending on focus.
	m.gateway.SetBackgroundReceiver(m.worker)
	m.gateway.SetForegroundReceiver(m.router)

	token, err := m.gateway.Token(ctx, m.publicKey)
	if err != nil {
		log.Printf("[PushClient] Token exchange failed: %v", err)
		return
	}

	if err := m.api.RegisterToken(ctx, token, m.provider, "go-client"); err != nil {
		metrics.RegisterFailures.Inc()
		log.Printf("[PushClient] Token registration failed (will retry on next sign-in): %v", err)
		return
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	log.Printf("[PushClient] Device token registered for user %s", session.UserID)
}

// TeardownForSession is called before sign-out completes. Unregistration is
// best-effort: a failure leaves a stale token behind as a backend
// garbage-collection concern, never a reason to hold up sign-out.
func (m *Manager) TeardownForSession(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.token = ""
	m.mu.Unlock()

	if token != "" {
		if err := m.api.UnregisterToken(ctx, token); err != nil {
			log.Printf("[PushClient] Token unregistration failed: %v", err)
		}
	}

	m.gateway.SetForegroundReceiver(nil)
	m.gateway.SetBackgroundReceiver(nil)
	m.api.SetAccessToken("")
}
