package services

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	appConfig "github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// RedisStore keeps the order collection as one string value
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisClient builds a client from configuration
func NewRedisClient(cfg *appConfig.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewRedisStore wraps a redis client
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Name identifies the backend
func (s *RedisStore) Name() string { return "redis" }

// Load GETs the collection
func (s *RedisStore) Load(ctx context.Context) ([]models.Order, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, unavailable(s.Name(), "get", err)
	}
	return decodeOrders(data, s.Name()), nil
}

// Save SETs the collection with no expiry
func (s *RedisStore) Save(ctx context.Context, orders []models.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return unavailable(s.Name(), "set", err)
	}
	return nil
}

// Clear DELs the key
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return unavailable(s.Name(), "del", err)
	}
	return nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(s.Name(), "ping", err)
	}
	return nil
}
