package pushclient

import "context"

// PermissionState mirrors the platform's notification permission. The only
// transitions in practice are default -> granted and default -> denied; a
// denied user can re-grant solely through platform settings, so nothing
// here ever re-prompts after observing denied.
type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// Payload is a push payload as handed over by the gateway. Data carries the
// deep-link target under "link" and the collapse key under "type".
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// Receiver handles a delivered push payload.
type Receiver interface {
	Receive(p Payload)
}

// Platform abstracts the host environment's notification capability and
// permission prompt.
type Platform interface {
	// Supported reports whether the notification surface and the
	// background-worker capability are both present.
	Supported() bool
	Permission() PermissionState
	RequestPermission(ctx context.Context) (PermissionState, error)
}

// Gateway is the client side of the push gateway. It exchanges the
// application's public key for an opaque device token, and routes each
// delivered payload to exactly one receiver: the foreground one while it is
// attached and the application is focused, the background worker otherwise.
type Gateway interface {
	Token(ctx context.Context, publicKey string) (string, error)
	SetBackgroundReceiver(r Receiver)
	SetForegroundReceiver(r Receiver)
}

// Notifier is the OS-level notification surface. Showing a notification
// whose tag matches a visible one replaces it rather than stacking.
type Notifier interface {
	Show(n Rendered) error
	Close(tag string)
}

// Window is an open application browsing context.
type Window interface {
	Origin() string
	Focus()
}

// Windows enumerates open windows and creates new ones.
type Windows interface {
	List() []Window
	Open(url string) (Window, error)
}
