package saves

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/alloy-horizon/internal/redis"
)

const (
	saveKeyPrefix = "save:slot:"
	slotIndexKey  = "save:slots"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis save repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed save repository
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
	if err := validateSave(input); err != nil {
		return nil, err
	}

	record := &Record{
		Slot:    input.Slot,
		SavedAt: r.clock.Now().UTC(),
		Version: input.Version,
		Data:    append([]byte(nil), input.Data...),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal save record")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, GetKey(input.Slot), data, 0)
	pipe.SAdd(ctx, slotIndexKey, input.Slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save slot %s", input.Slot)
	}

	slog.Debug("Saved slot", "slot", input.Slot, "version", input.Version, "bytes", len(input.Data))

	return &SaveOutput{Record: record.clone()}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := ValidateSlot(input.Slot); err != nil {
		return nil, err
	}

	record, err := r.load(ctx, input.Slot)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Record: record}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	slots, err := r.client.SMembers(ctx, slotIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list save slots")
	}
	sort.Strings(slots)

	records := make([]*Record, 0, len(slots))
	for _, slot := range slots {
		record, err := r.load(ctx, slot)
		if err != nil {
			if errors.IsNotFound(err) {
				// index drifted from the data keys
				slog.Warn("Save slot indexed but missing", "slot", slot)
				continue
			}
			return nil, err
		}
		records = append(records, record.header())
	}

	return &ListOutput{Records: records}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := ValidateSlot(input.Slot); err != nil {
		return nil, err
	}

	key := GetKey(input.Slot)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check save existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("save slot %s not found", input.Slot)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, slotIndexKey, input.Slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete slot %s", input.Slot)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) load(ctx context.Context, slot string) (*Record, error) {
	raw, err := r.client.Get(ctx, GetKey(slot)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("save slot %s not found", slot)
		}
		return nil, errors.Wrapf(err, "failed to get slot %s", slot)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal save record")
	}

	return &record, nil
}

// GetKey returns the Redis key for a save slot
func GetKey(slot string) string {
	return saveKeyPrefix + slot
}
