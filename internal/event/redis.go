package event

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisAnnouncer публикует события в pub/sub канал Redis (по умолчанию
// ticket_events). Доставка не подтверждается: PUBLISH без подписчиков — не ошибка.
type RedisAnnouncer struct {
	client  *redis.Client
	channel string
}

// NewRedisAnnouncer создаёт announcer поверх готового клиента.
func NewRedisAnnouncer(client *redis.Client, channel string) *RedisAnnouncer {
	return &RedisAnnouncer{client: client, channel: channel}
}

func (a *RedisAnnouncer) Announce(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		log.Printf("event: marshal %s: %v", e.Name, err)
		return
	}
	if err := a.client.Publish(ctx, a.channel, body).Err(); err != nil {
		log.Printf("event: publish %s to %s: %v", e.Name, a.channel, err)
	}
}

// Close закрывает клиент Redis.
func (a *RedisAnnouncer) Close() error {
	return a.client.Close()
}
