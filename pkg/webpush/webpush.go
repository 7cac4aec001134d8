package webpush

import (
	"context"
	"encoding/json"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"

	"localmart-backend/pkg/push"
)

// Sender delivers pushes through the Web Push protocol with VAPID
// authentication. Device tokens are JSON-marshalled subscriptions
// ({endpoint, keys:{p256dh, auth}}) as handed out by the browser.
type Sender struct {
	publicKey  string
	privateKey string
	subscriber string
}

func NewSender(publicKey, privateKey, subscriber string) *Sender {
	return &Sender{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
	}
}

// GenerateVAPIDKeys creates a fresh key pair for deployments that have none
// configured yet.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}

func (s *Sender) Send(ctx context.Context, tokens []string, msg push.Message) ([]string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title": msg.Title,
		"body":  msg.Body,
		"icon":  msg.Icon,
		"data":  msg.Data,
	})
	if err != nil {
		return nil, err
	}

	var failedTokens []string
	for _, token := range tokens {
		var sub webpush.Subscription
		if err := json.Unmarshal([]byte(token), &sub); err != nil {
			log.Printf("[WebPush] Invalid subscription token, pruning: %v", err)
			failedTokens = append(failedTokens, token)
			continue
		}

		resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
			Subscriber:      s.subscriber,
			VAPIDPublicKey:  s.publicKey,
			VAPIDPrivateKey: s.privateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("[WebPush] Failed to send to %s: %v", sub.Endpoint, err)
			continue
		}
		// 404/410 means the subscription is gone for good.
		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			failedTokens = append(failedTokens, token)
		}
		resp.Body.Close()
	}

	return failedTokens, nil
}
