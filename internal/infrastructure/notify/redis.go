package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda360-api/internal/application/events"
)

const publishTimeout = 2 * time.Second

// Publisher lo que usa el notificador de *redis.Client.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publica cada evento como JSON en un canal pub/sub.
type RedisNotifier struct {
	pub     Publisher
	channel string
	fmt     Formatter
}

// payload mensaje publicado.
type payload struct {
	events.Event
	Text string `json:"text"`
}

// NewRedisNotifier construye el notificador sobre un cliente (o cualquier Publisher).
func NewRedisNotifier(pub Publisher, channel string, f Formatter) *RedisNotifier {
	return &RedisNotifier{pub: pub, channel: channel, fmt: f}
}

// NewRedisClient abre el cliente desde una URL redis:// y verifica la conexión.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Notify publica el evento; el timeout es propio para no colgar al llamador.
func (n *RedisNotifier) Notify(ctx context.Context, evt events.Event) error {
	body, err := json.Marshal(payload{Event: evt, Text: n.fmt.Text(evt)})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.pub.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}
