package pushclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Exactly one visible notification must result per delivered event,
// whether the tab is focused (foreground router) or not (background
// worker). The gateway routes a delivery to at most one receiver; these
// tests verify the invariant instead of assuming it.

func TestDelivery_UnfocusedGoesToWorker(t *testing.T) {
	notifier := newFakeNotifier()
	gateway := &fakeGateway{focused: false}
	gateway.SetBackgroundReceiver(NewWorker(notifier, &fakeWindows{}, testOrigin))
	gateway.SetForegroundReceiver(NewRouter(notifier))

	gateway.Deliver(Payload{Title: "order shipped", Data: map[string]string{"type": "product"}})

	assert.Equal(t, 1, notifier.shown, "exactly one render per event")
	assert.Equal(t, 1, notifier.visibleCount())
}

func TestDelivery_FocusedGoesToRouter(t *testing.T) {
	notifier := newFakeNotifier()
	gateway := &fakeGateway{focused: true}
	gateway.SetBackgroundReceiver(NewWorker(notifier, &fakeWindows{}, testOrigin))
	gateway.SetForegroundReceiver(NewRouter(notifier))

	gateway.Deliver(Payload{Title: "order shipped", Data: map[string]string{"type": "product"}})

	assert.Equal(t, 1, notifier.shown, "exactly one render per event")
	assert.Equal(t, 1, notifier.visibleCount())
}

func TestDelivery_BothPathsRenderIdentically(t *testing.T) {
	payload := Payload{Data: map[string]string{"type": "coupon", "link": "/coupons/9"}}

	background := newFakeNotifier()
	gw1 := &fakeGateway{focused: false}
	gw1.SetBackgroundReceiver(NewWorker(background, &fakeWindows{}, testOrigin))
	gw1.Deliver(payload)

	foreground := newFakeNotifier()
	gw2 := &fakeGateway{focused: true}
	gw2.SetForegroundReceiver(NewRouter(foreground))
	gw2.Deliver(payload)

	fromWorker, _ := background.get("coupon")
	fromRouter, _ := foreground.get("coupon")
	assert.Equal(t, fromWorker, fromRouter, "both paths share the normalization rules")
	assert.Equal(t, DefaultTitle, fromRouter.Title)
	assert.Equal(t, DefaultBody, fromRouter.Body)
}
