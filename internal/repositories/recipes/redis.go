package recipes

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	redisclient "github.com/Alily223/red-knight/internal/redis"
)

const recipeKeyPrefix = "recipe:"

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis recipes repository.
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

// NewRedis creates a new Redis-backed recipes repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Combo == "" {
		return nil, errors.InvalidArgument("combo cannot be empty")
	}

	result, err := r.client.Get(ctx, recipeKeyPrefix+input.Combo).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("recipe %s not found", input.Combo)
		}
		return nil, errors.Wrapf(err, "failed to get recipe")
	}

	var item game.CraftedItem
	if err := json.Unmarshal([]byte(result), &item); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal recipe")
	}

	return &GetOutput{Item: &item}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Combo == "" {
		return nil, errors.InvalidArgument("combo cannot be empty")
	}
	if input.Item == nil {
		return nil, errors.InvalidArgument("item cannot be nil")
	}

	data, err := json.Marshal(input.Item)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal recipe")
	}

	if err := r.client.Set(ctx, recipeKeyPrefix+input.Combo, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store recipe")
	}

	return &PutOutput{}, nil
}
