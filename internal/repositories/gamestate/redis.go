package gamestate

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/pkg/clock"
	redisclient "github.com/Alily223/red-knight/internal/redis"
)

const (
	gameKeyPrefix = "game:"

	errSaveIDEmpty = "save ID cannot be empty"
	errBundleNil   = "bundle cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis game-state repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
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

// NewRedis creates a new Redis-backed game-state repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSaveIDEmpty)
	}
	if input.Bundle == nil {
		return nil, errors.InvalidArgument(errBundleNil)
	}

	input.Bundle.Timestamp = r.clock.Now().Unix()

	data, err := json.Marshal(input.Bundle)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal bundle")
	}

	key := gameKeyPrefix + input.ID
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save bundle")
	}

	return &SaveOutput{Bundle: input.Bundle}, nil
}

func (r *redisRepository) Load(ctx context.Context, input LoadInput) (*LoadOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSaveIDEmpty)
	}

	key := gameKeyPrefix + input.ID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("save %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to load bundle")
	}

	var bundle game.SaveBundle
	if err := json.Unmarshal([]byte(result), &bundle); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal bundle")
	}

	return &LoadOutput{Bundle: &bundle}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSaveIDEmpty)
	}

	key := gameKeyPrefix + input.ID
	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete bundle")
	}
	if deleted == 0 {
		return nil, errors.NotFoundf("save %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}
