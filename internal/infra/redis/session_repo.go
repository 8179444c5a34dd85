package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-look-bot/internal/domain"
	"telegram-look-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.EffectsSessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps effects sessions in Redis with a TTL, so abandoned
// flows clean themselves up.
type SessionRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewSessionRepo(client *redClient, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SessionRepo{client: client, ttl: ttl}
}

func (s *SessionRepo) sessionKey(chatID int64) string {
	return fmt.Sprintf("effects_session:%d", chatID)
}

func (s *SessionRepo) Set(ctx context.Context, chatID int64, sess *repository.EffectsSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.sessionKey(chatID), data, s.ttl)
}

func (s *SessionRepo) Get(ctx context.Context, chatID int64) (*repository.EffectsSession, error) {
	data, err := s.client.Get(ctx, s.sessionKey(chatID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoSession
		}
		return nil, err
	}

	var sess repository.EffectsSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionRepo) Clear(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, s.sessionKey(chatID))
}
