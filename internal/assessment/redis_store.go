package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "immigria-site/internal/common/errors"
	"immigria-site/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const redisKeyPrefix = "assessment:session:"

// RedisStore keeps sessions as JSON with a TTL. All calls go through a
// circuit breaker; while it is open the store reports itself unavailable.
type RedisStore struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	log     logger.Logger
	now     func() time.Time
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration, log logger.Logger) *RedisStore {
	st := gobreaker.Settings{Name: "assessment-session-store"}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn("circuit breaker state changed", map[string]interface{}{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		})
	}

	return &RedisStore{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker(st),
		log:     log,
		now:     time.Now,
	}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := r.breaker.Execute(fn)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return nil, err
		}
		return nil, apperrors.NewSessionStoreUnavailableError(err)
	}
	return res, nil
}

func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	s := NewSession(uuid.NewString(), r.now().UTC())
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	res, err := r.execute(func() (interface{}, error) {
		raw, err := r.client.Get(ctx, redisKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			// a miss is not a backend failure
			return nil, nil
		}
		return raw, err
	})
	if err != nil {
		return nil, err
	}
	raw, _ := res.([]byte)
	if raw == nil {
		return nil, apperrors.NewSessionNotFoundError(id)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		r.log.Error("corrupt session payload", map[string]interface{}{
			"sessionId": id,
			"error":     err,
		})
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = r.now().UTC()
	payload, err := json.Marshal(s)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("encode session: %w", err))
	}
	_, err = r.execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, redisKey(s.ID), payload, r.ttl).Err()
	})
	return err
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, redisKey(id)).Err()
	})
	return err
}

func (r *RedisStore) Ping(ctx context.Context) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.client.Ping(ctx).Err()
	})
	return err
}

// Ready pings Redis for the readiness endpoint. A failure names the breaker
// state, so an open breaker reads differently from one failed ping.
func (r *RedisStore) Ready(ctx context.Context) error {
	if err := r.Ping(ctx); err != nil {
		return fmt.Errorf("breaker %s: %w", r.BreakerState(), err)
	}
	return nil
}

func (r *RedisStore) BreakerState() gobreaker.State {
	return r.breaker.State()
}
