// Package rdx carries change notifications between instances over
// Redis pub/sub. Everything here is best-effort: Redis being down never
// fails the write that triggered a notification.
package rdx

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

const changeChannel = "collection_events"

var Conn *redis.Client

// Connect opens the Redis client. An empty REDIS_ADDR leaves Redis
// disabled, which is fine for single-instance deployments.
func Connect() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set; cross-instance notifications disabled")
		return
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

// PublishChange announces that a collection changed.
func PublishChange(collection string) {
	if Conn == nil {
		return
	}
	if err := Conn.Publish(context.Background(), changeChannel, collection).Err(); err != nil {
		log.Println("Failed to publish change event:", err)
	}
}

// SubscribeChanges delivers names of collections changed by other
// instances until ctx is done. The channel is closed when the
// subscription ends.
func SubscribeChanges(ctx context.Context) <-chan string {
	out := make(chan string)
	if Conn == nil {
		close(out)
		return out
	}

	sub := Conn.Subscribe(ctx, changeChannel)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			msg, err := sub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Println("Redis subscribe error:", err)
				}
				return
			}
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
