package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore keeps records in redis and announces every write on a pub/sub
// channel so other panel instances can refresh their working copies.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	instance string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(addr, password, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	log.Info().Str("address", addr).Str("prefix", prefix).Msg("Connected to redis store")
	return &RedisStore{client: client, prefix: prefix, instance: uuid.New().String()}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return err
	}
	// Change notification is best effort; the write itself already succeeded.
	if err := s.client.Publish(ctx, s.channel(), s.instance+" "+key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to publish store change")
	}
	return nil
}

// Changes streams keys written by other instances until ctx is cancelled.
func (s *RedisStore) Changes(ctx context.Context) <-chan string {
	out := make(chan string)
	sub := s.client.Subscribe(ctx, s.channel())

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				origin, key, found := strings.Cut(msg.Payload, " ")
				if !found || origin == s.instance {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) channel() string {
	return s.prefix + "changes"
}
