package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pharmalink/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements shared.KeyedStore on Redis.
// Each entity lives at "{namespace}-{id}" as JSON; the ids of a namespace are
// tracked in the set "{namespace}:ids" so listing avoids a keyspace scan.
type RedisStore[T shared.Entity] struct {
	client    redis.UniversalClient
	namespace string
	codec     codec[T]
}

// NewRedisStore creates a Redis-backed store for a namespace
func NewRedisStore[T shared.Entity](client redis.UniversalClient, namespace string, newEntity func() T) *RedisStore[T] {
	return &RedisStore[T]{
		client:    client,
		namespace: namespace,
		codec:     codec[T]{newEntity: newEntity},
	}
}

func (s *RedisStore[T]) key(id string) string {
	return Key(s.namespace, id)
}

func (s *RedisStore[T]) indexKey() string {
	return s.namespace + ":ids"
}

// Get returns the entity stored under id, active or not
func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("%w: get %s: %v", shared.ErrDbOperationFailure, s.key(id), err)
	}
	entity, err := s.codec.decode(data)
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

// GetAll returns every active entity of the namespace
func (s *RedisStore[T]) GetAll(ctx context.Context) ([]T, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", shared.ErrDbOperationFailure, s.namespace, err)
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", shared.ErrDbOperationFailure, s.namespace, err)
	}

	result := make([]T, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// indexed but removed out of band
			continue
		}
		entity, err := s.codec.decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		if entity.IsActive() {
			result = append(result, entity)
		}
	}
	return result, nil
}

// insertScript creates KEYS[1] and indexes ARGV[2] in KEYS[2] in one step.
// The index type is checked first because Redis does not roll back a script
// whose later call fails. Returns 0 when KEYS[1] already exists.
var insertScript = redis.NewScript(`
local kind = redis.call("TYPE", KEYS[2]).ok
if kind ~= "none" and kind ~= "set" then
  return redis.error_reply("WRONGTYPE index " .. KEYS[2] .. " is not a set")
end
if not redis.call("SET", KEYS[1], ARGV[1], "NX") then
  return 0
end
redis.call("SADD", KEYS[2], ARGV[2])
return 1
`)

// Insert stores a new entity and indexes it atomically. Concurrent inserts
// of one id cannot both succeed.
func (s *RedisStore[T]) Insert(ctx context.Context, entity T) (T, error) {
	var zero T
	prepareInsert(entity, clock())

	data, err := s.codec.encode(entity)
	if err != nil {
		return zero, err
	}

	id := entity.GetID()
	created, err := insertScript.Run(ctx, s.client, []string{s.key(id), s.indexKey()}, data, id).Int()
	if err != nil {
		return zero, fmt.Errorf("%w: insert %s: %v", shared.ErrDbOperationFailure, s.key(id), err)
	}
	if created == 0 {
		return zero, fmt.Errorf("%w: %s", shared.ErrEntityAlreadyExists, s.key(id))
	}
	return entity, nil
}

// Update overwrites the stored entity and bumps its update timestamp
func (s *RedisStore[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	id := entity.GetID()
	if id == "" {
		return zero, fmt.Errorf("%w: update without id in %s", shared.ErrDbOperationFailure, s.namespace)
	}
	entity.Touch(clock(), false)

	data, err := s.codec.encode(entity)
	if err != nil {
		return zero, err
	}

	if err := s.write(ctx, id, data); err != nil {
		return zero, err
	}
	return entity, nil
}

// Delete soft deletes an active entity
func (s *RedisStore[T]) Delete(ctx context.Context, id string) error {
	entity, found, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found || !entity.IsActive() {
		return fmt.Errorf("%w: %s", shared.ErrEntityNotFound, s.key(id))
	}

	entity.Deactivate()
	entity.Touch(clock(), false)
	data, err := s.codec.encode(entity)
	if err != nil {
		return err
	}
	return s.write(ctx, id, data)
}

func (s *RedisStore[T]) write(ctx context.Context, id string, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(id), data, 0)
		pipe.SAdd(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", shared.ErrDbOperationFailure, s.key(id), err)
	}
	return nil
}

var _ shared.KeyedStore[shared.Entity] = (*RedisStore[shared.Entity])(nil)
