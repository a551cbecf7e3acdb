package users

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/pkg/clock"
	redisclient "github.com/Alily223/red-knight/internal/redis"
)

const userKeyPrefix = "user:"

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis users repository.
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

// NewRedis creates a new Redis-backed users repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) CreateIfAbsent(
	ctx context.Context,
	input CreateIfAbsentInput,
) (*CreateIfAbsentOutput, error) {
	if input.User == nil {
		return nil, errors.InvalidArgument("user cannot be nil")
	}
	if input.User.ID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}

	user := *input.User
	if user.Created == "" {
		user.Created = r.clock.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(&user)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal user")
	}

	key := userKeyPrefix + user.ID
	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to record user")
	}

	if !created {
		existing, err := r.Get(ctx, GetInput{ID: user.ID})
		if err != nil {
			return nil, err
		}
		return &CreateIfAbsentOutput{Created: false, User: existing.User}, nil
	}

	return &CreateIfAbsentOutput{Created: true, User: &user}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}

	result, err := r.client.Get(ctx, userKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("user %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get user")
	}

	var user game.User
	if err := json.Unmarshal([]byte(result), &user); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal user")
	}

	return &GetOutput{User: &user}, nil
}
