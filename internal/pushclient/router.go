package pushclient

import "log"

// Router is the foreground delivery path. While the application is open and
// focused the platform hands pushes to the attached foreground receiver
// instead of the background worker, so the router renders through the
// direct notification surface using the same normalization rules. The two
// paths are mutually exclusive by construction: the gateway routes any
// given delivery to at most one of them.
type Router struct {
	notifier Notifier
}

func NewRouter(notifier Notifier) *Router {
	return &Router{notifier: notifier}
}

func (r *Router) Receive(p Payload) {
	if err := r.notifier.Show(Render(p)); err != nil {
		log.Printf("[Router] Failed to render notification: %v", err)
	}
}
