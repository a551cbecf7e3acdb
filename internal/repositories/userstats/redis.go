package userstats

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	redisclient "github.com/Alily223/red-knight/internal/redis"
)

const saveKeyPrefix = "save:"

type record struct {
	User  *game.User        `json:"user"`
	Stats *game.PlayerStats `json:"stats"`
}

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis user-stats repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed user-stats repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("id cannot be empty")
	}

	data, err := json.Marshal(record{User: input.User, Stats: input.Stats})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal user stats")
	}

	if err := r.client.Set(ctx, saveKeyPrefix+input.ID, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save user stats")
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Load(ctx context.Context, input LoadInput) (*LoadOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("id cannot be empty")
	}

	result, err := r.client.Get(ctx, saveKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("user stats %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to load user stats")
	}

	var rec record
	if err := json.Unmarshal([]byte(result), &rec); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal user stats")
	}

	return &LoadOutput{User: rec.User, Stats: rec.Stats}, nil
}
