package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SphrGhfri/collabhub_golang_nats/internal/domain"
)

const (
	onlineUsersKey   = "collab:online_users"
	identityKeySpace = "collab:identity:token:"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisClient(redisURL string) (*RedisClient, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client, ctx: ctx}, nil
}

// Verify resolves an authenticate payload to a verified identity. When a
// token is present it must match a record written by the identity provider;
// without a token the inline fields are accepted as verified upstream.
func (r *RedisClient) Verify(p domain.AuthenticatePayload) (domain.Identity, error) {
	if p.Token == "" {
		if p.UserID == "" {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			AvatarRef:   p.AvatarRef,
			Role:        p.Role,
		}, nil
	}

	vals, err := r.client.HGetAll(r.ctx, identityKeySpace+p.Token).Result()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to look up identity token: %w", err)
	}
	if len(vals) == 0 || vals["user_id"] == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return domain.Identity{
		UserID:      vals["user_id"],
		DisplayName: vals["display_name"],
		AvatarRef:   vals["avatar_ref"],
		Role:        vals["role"],
	}, nil
}

// AddOnline adds a user to the shared online-roster set.
func (r *RedisClient) AddOnline(userID string) error {
	return r.client.SAdd(r.ctx, onlineUsersKey, userID).Err()
}

// RemoveOnline removes a user from the shared online-roster set.
func (r *RedisClient) RemoveOnline(userID string) error {
	return r.client.SRem(r.ctx, onlineUsersKey, userID).Err()
}

// ListOnline returns the mirrored roster.
func (r *RedisClient) ListOnline() ([]string, error) {
	return r.client.SMembers(r.ctx, onlineUsersKey).Result()
}

// ClearOnline empties the roster, used on startup so a crashed process does
// not leave ghosts behind.
func (r *RedisClient) ClearOnline() error {
	return r.client.Del(r.ctx, onlineUsersKey).Err()
}

// FlushAll clears the entire database. Test helper.
func (r *RedisClient) FlushAll() error {
	return r.client.FlushAll(r.ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
