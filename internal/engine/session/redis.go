package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	errx "github.com/customsbot-poc/server/internal/core/error"
	"github.com/customsbot-poc/server/internal/engine/model"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

// RedisSessionRepository keeps each session's dialogue state as a JSON blob
// and its transcript as a list, both under the session's TTL. State and
// transcript expire together so an abandoned session leaves nothing behind.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) stateKey(sessionID string) string {
	return fmt.Sprintf("tariff:session:%s:state", sessionID)
}

func (r *RedisSessionRepository) transcriptKey(sessionID string) string {
	return fmt.Sprintf("tariff:session:%s:transcript", sessionID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*model.TariffState, error) {
	raw, err := r.rdb.Get(ctx, r.stateKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return model.NewTariffState(), nil
		}
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to load session state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.TariffState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to unmarshal session state")
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &state, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, sessionID string, state *model.TariffState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to marshal session state")
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := r.rdb.Set(ctx, r.stateKey(sessionID), b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to save session state to redis")
		return errx.WrapRedis(err)
	}
	// keep the transcript alive as long as the state
	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, r.transcriptKey(sessionID), r.ttl).Err(); err != nil {
			logx.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to refresh transcript TTL")
		}
	}
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, r.stateKey(sessionID), r.transcriptKey(sessionID)).Err(); err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) AppendTranscript(ctx context.Context, sessionID string, message *schema.Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to marshal transcript message")
		return fmt.Errorf("marshal transcript message: %w", err)
	}
	key := r.transcriptKey(sessionID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push transcript message to redis")
		return errx.WrapRedis(err)
	}
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on transcript key")
		}
	}
	return nil
}

func (r *RedisSessionRepository) Transcript(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	key := r.transcriptKey(sessionID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*schema.Message{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load transcript from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("sessionID", sessionID).Int("index", i).Msg("failed to unmarshal transcript message")
			return nil, fmt.Errorf("unmarshal transcript message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
