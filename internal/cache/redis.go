package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const speakersKey = "speakers:active"

// Cache wraps Redis for read-heavy lookups. Every method degrades gracefully
// when Redis is unavailable: a nil client turns reads into misses and writes
// into no-ops, so the database remains the source of truth.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection. Returns a Cache with a
// nil client (still usable, always misses) alongside the error when the ping
// fails.
func New(addr, password string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return &Cache{}, err
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Available() bool {
	return c != nil && c.client != nil
}

// GetSpeakers returns the cached active-speaker roster, unmarshalled into
// dest. ok is false on a miss or when Redis is down.
func (c *Cache) GetSpeakers(ctx context.Context, dest interface{}) bool {
	if !c.Available() {
		return false
	}
	data, err := c.client.Get(ctx, speakersKey).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetSpeakers caches the roster for 10 minutes.
func (c *Cache) SetSpeakers(ctx context.Context, speakers interface{}) {
	if !c.Available() {
		return
	}
	data, err := json.Marshal(speakers)
	if err != nil {
		return
	}
	c.client.Set(ctx, speakersKey, data, 10*time.Minute)
}

// InvalidateSpeakers drops the roster cache after a mutation.
func (c *Cache) InvalidateSpeakers(ctx context.Context) {
	if !c.Available() {
		return
	}
	c.client.Del(ctx, speakersKey)
}

func (c *Cache) Close() {
	if c.Available() {
		c.client.Close()
	}
}
