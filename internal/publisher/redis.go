package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

// RedisPublisher pushes every board to a Redis pub/sub channel so remote
// overlays and bots can follow along.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisherFromClient(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// NewRedisPublisher connects and pings before returning.
func NewRedisPublisher(redisURL, channel string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisPublisherFromClient(client, channel), nil
}

func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

type message struct {
	Board     scoreboard.Scoreboard `json:"board"`
	Timestamp int64                 `json:"timestamp"`
}

func encode(board scoreboard.Scoreboard, now time.Time) ([]byte, error) {
	return json.Marshal(message{Board: board, Timestamp: now.Unix()})
}

func (rp *RedisPublisher) Notify(ctx context.Context, board scoreboard.Scoreboard) error {
	data, err := encode(board, time.Now())
	if err != nil {
		return err
	}
	return rp.client.Publish(ctx, rp.channel, data).Err()
}
