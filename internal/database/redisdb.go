package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/y0ug/linkedauth/pkg/auth"
)

// RedisDB implements the Database interface using Redis.
type RedisDB struct {
	client *redis.Client
}

// NewRedisDB initializes a new RedisDB instance.
func NewRedisDB(cfg *DatabaseConfig) (*RedisDB, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass, // no password set
		DB:       cfg.RedisDB,   // use default DB
	})

	// Use context.Background() for initial connection test
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &RedisDB{client: rdb}, nil
}

// Initialize sets up necessary Redis structures if needed.
func (r *RedisDB) Initialize(ctx context.Context) error {
	// Redis is schema-less; initialization is not necessary.
	return nil
}

func (r *RedisDB) Close(ctx context.Context) error {
	return r.client.Close()
}

func userKey(uid string) string {
	return fmt.Sprintf("user:%s", uid)
}

func accessTokenKey(uid string) string {
	return fmt.Sprintf("linkedin_token:%s", uid)
}

// UpsertUser creates or updates the record keyed by user.UID. Concurrent
// upserts for the same uid are last-write-wins.
func (r *RedisDB) UpsertUser(ctx context.Context, user auth.UserRecord) (bool, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("failed to marshal UserRecord: %w", err)
	}

	key := userKey(user.UID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return false, err
	}
	return exists == 0, nil
}

// GetUser retrieves the record for uid.
func (r *RedisDB) GetUser(ctx context.Context, uid string) (auth.UserRecord, error) {
	var user auth.UserRecord
	val, err := r.client.Get(ctx, userKey(uid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user, auth.ErrUserNotFound
		}
		return user, err
	}
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return user, fmt.Errorf("failed to unmarshal UserRecord: %w", err)
	}
	return user, nil
}

// StoreAccessToken persists the provider access token for uid.
func (r *RedisDB) StoreAccessToken(ctx context.Context, uid string, token string) error {
	return r.client.Set(ctx, accessTokenKey(uid), token, 0).Err()
}

// GetAccessToken retrieves the provider access token for uid.
func (r *RedisDB) GetAccessToken(ctx context.Context, uid string) (string, error) {
	val, err := r.client.Get(ctx, accessTokenKey(uid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", auth.ErrTokenNotFound
		}
		return "", err
	}
	return val, nil
}
