package caching

import (
	"context"
	"encoding/json"
	"fmt"

	"sally/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AlertEvent is the message relayed to SSE subscribers.
type AlertEvent struct {
	Type  string        `json:"type"`
	Alert *models.Alert `json:"alert"`
}

// AlertBroker relays new alerts to every stream subscribed to a tenant.
type AlertBroker struct {
	client *redis.Client
	log    *zap.Logger
}

func NewAlertBroker(client *redis.Client, log *zap.Logger) *AlertBroker {
	return &AlertBroker{client: client, log: log.Named("alert_broker")}
}

func alertChannel(tenantID string) string {
	return fmt.Sprintf(keyPrefix+"alerts:%s", tenantID)
}

func (b *AlertBroker) PublishAlert(ctx context.Context, tenantID string, alert *models.Alert) error {
	payload, err := json.Marshal(AlertEvent{Type: "alert.created", Alert: alert})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, alertChannel(tenantID), payload).Err()
}

// Subscribe returns raw event payloads for tenantID until ctx is cancelled.
// The returned channel is closed when the subscription ends.
func (b *AlertBroker) Subscribe(ctx context.Context, tenantID string) (<-chan []byte, error) {
	sub := b.client.Subscribe(ctx, alertChannel(tenantID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to alerts: %w", err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				default:
					b.log.Warn("dropping alert event for slow subscriber", zap.String("tenant_id", tenantID))
				}
			}
		}
	}()
	return out, nil
}
