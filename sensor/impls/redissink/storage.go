package redissink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/sgostarter/libinterpolation/sensor"
)

const (
	writeTimeout = 3 * time.Second
)

type StateSink interface {
	sensor.Sink

	GetState(ctx context.Context, entityID string) (state *hub.State, exists bool, err error)
	DelState(ctx context.Context, entityID string) error
}

// NewRedisStateSink stores every written state as a JSON field of one redis
// hash, keyed by entity id.
func NewRedisStateSink(redisCli *redis.Client, redisKeyPre string) StateSink {
	return &redisStateSinkImpl{
		redisCli:    redisCli,
		redisKeyPre: redisKeyPre,
	}
}

type redisStateSinkImpl struct {
	redisCli    *redis.Client
	redisKeyPre string
}

func (impl *redisStateSinkImpl) WriteState(state *hub.State) error {
	if state == nil || state.EntityID == "" {
		return hub.ErrEmptyEntityID
	}

	d, err := json.Marshal(state)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return impl.redisCli.HSet(ctx, impl.statesRedisKey(), state.EntityID, d).Err()
}

func (impl *redisStateSinkImpl) GetState(ctx context.Context, entityID string) (state *hub.State, exists bool, err error) {
	d, err := impl.redisCli.HGet(ctx, impl.statesRedisKey(), entityID).Bytes()
	if err != nil {
		if err == redis.Nil {
			err = nil
		}

		return
	}

	state = &hub.State{}

	err = json.Unmarshal(d, state)
	if err != nil {
		state = nil

		return
	}

	exists = true

	return
}

func (impl *redisStateSinkImpl) DelState(ctx context.Context, entityID string) error {
	return impl.redisCli.HDel(ctx, impl.statesRedisKey(), entityID).Err()
}

func (impl *redisStateSinkImpl) statesRedisKey() string {
	if impl.redisKeyPre == "" {
		return "interpolation"
	}

	return impl.redisKeyPre + ":" + "interpolation"
}
