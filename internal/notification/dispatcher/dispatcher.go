package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"gorm.io/datatypes"

	"localmart-backend/internal/notification/domain"
	"localmart-backend/internal/notification/repository"
	"localmart-backend/pkg/metrics"
	"localmart-backend/pkg/push"
)

// Event is what marketplace services publish when something happened that
// the recipient should hear about (new chat message, review, coupon,
// product update). ID is the dedup key.
type Event struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

// dedupTTL bounds how long an event id is remembered. Publishers retry
// within minutes, not days.
const dedupTTL = 24 * time.Hour

// Dispatcher consumes marketplace events and turns each one into a backlog
// row plus at most one push per device. Push delivery is best-effort: the
// backlog write is the durable half, the push is the doorbell.
type Dispatcher struct {
	pubsubClient *pubsub.Client
	redisClient  *redis.Client
	notifRepo    repository.NotificationRepository
	tokenRepo    repository.DeviceTokenRepository
	sender       push.Sender
	limiter      *rate.Limiter
	topicName    string
	subName      string
}

func New(projectID, topicName, credentialsFile string, redisClient *redis.Client, notifRepo repository.NotificationRepository, tokenRepo repository.DeviceTokenRepository, sender push.Sender, pushesPerSecond int) (*Dispatcher, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	return &Dispatcher{
		pubsubClient: client,
		redisClient:  redisClient,
		notifRepo:    notifRepo,
		tokenRepo:    tokenRepo,
		sender:       sender,
		limiter:      rate.NewLimiter(rate.Limit(pushesPerSecond), pushesPerSecond),
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
	}, nil
}

// Start blocks receiving events until ctx is cancelled. It creates the
// subscription on first run if the topic already exists.
func (d *Dispatcher) Start(ctx context.Context) {
	log.Printf("[Dispatch] Starting with topic: %s, subscription: %s", d.topicName, d.subName)

	sub := d.pubsubClient.Subscription(d.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[Dispatch] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := d.pubsubClient.Topic(d.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[Dispatch] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[Dispatch] Topic %s does not exist, cannot create subscription", d.topicName)
			return
		}

		sub, err = d.pubsubClient.CreateSubscription(ctx, d.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[Dispatch] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[Dispatch] Created subscription: %s", d.subName)
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		d.handleMessage(ctx, msg.Data)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[Dispatch] Error receiving messages: %v", err)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, data []byte) {
	metrics.EventsReceived.Inc()

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("[Dispatch] Failed to unmarshal event: %v", err)
		return
	}

	if event.UserID == "" {
		log.Printf("[Dispatch] Dropping event %q with no recipient", event.ID)
		return
	}

	if d.isDuplicate(ctx, event.ID) {
		metrics.EventsDuplicate.Inc()
		log.Printf("[Dispatch] Skipping duplicate event %s", event.ID)
		return
	}

	notification := notificationFromEvent(event)
	if err := d.notifRepo.Create(ctx, notification); err != nil {
		log.Printf("[Dispatch] Failed to persist notification for event %s: %v", event.ID, err)
		return
	}
	metrics.NotificationsCreated.Inc()

	d.sendPush(ctx, notification)
}

// isDuplicate records the event id and reports whether it was seen before.
// Redis being down degrades to "not a duplicate": double delivery is
// preferable to dropped delivery.
func (d *Dispatcher) isDuplicate(ctx context.Context, eventID string) bool {
	if d.redisClient == nil || eventID == "" {
		return false
	}

	set, err := d.redisClient.SetNX(ctx, "event:"+eventID, 1, dedupTTL).Result()
	if err != nil {
		log.Printf("[Dispatch] Dedup check failed for event %s: %v", eventID, err)
		return false
	}
	return !set
}

// notificationFromEvent normalizes an event into a backlog row. The data
// map carries the click-through target and the collapse key for clients.
func notificationFromEvent(event Event) *domain.Notification {
	notifType := domain.NormalizeType(event.Type)

	link := event.Link
	if link == "" {
		link = "/"
	}

	return &domain.Notification{
		ID:      uuid.New().String(),
		UserID:  event.UserID,
		Type:    notifType,
		Title:   event.Title,
		Message: event.Message,
		Data: datatypes.JSONMap{
			"type": notifType,
			"link": link,
		},
		CreatedAt: time.Now(),
	}
}

func (d *Dispatcher) sendPush(ctx context.Context, n *domain.Notification) {
	if d.sender == nil {
		return
	}

	tokens, err := d.tokenRepo.GetTokensByUserID(ctx, n.UserID)
	if err != nil {
		log.Printf("[Dispatch] Error getting device tokens for user %s: %v", n.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	if err := d.limiter.Wait(ctx); err != nil {
		log.Printf("[Dispatch] Rate limiter interrupted for notification %s: %v", n.ID, err)
		return
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	data := map[string]string{
		"type":           n.Type,
		"notificationId": n.ID,
	}
	if link, ok := n.Data["link"].(string); ok {
		data["link"] = link
	}

	failedTokens, err := d.sender.Send(ctx, tokenStrings, push.Message{
		Title: n.Title,
		Body:  n.Message,
		Data:  data,
	})
	if err != nil {
		log.Printf("[Dispatch] Error sending push for notification %s: %v", n.ID, err)
		return
	}

	metrics.PushesSent.Add(float64(len(tokenStrings) - len(failedTokens)))
	metrics.PushesFailed.Add(float64(len(failedTokens)))

	// Cleanup tokens the gateway rejected
	for _, token := range failedTokens {
		if err := d.tokenRepo.PruneToken(ctx, token); err != nil {
			log.Printf("[Dispatch] Failed to prune token: %v", err)
		}
	}
}
