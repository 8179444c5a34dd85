package repository

import (
	"context"

	"telegram-look-bot/internal/domain/model"
)

// EffectsSession holds the state of a "waiting for the user's video" flow:
// the analyzed reference and the entitlement outcome reserved by plan but
// not yet consumed.
type EffectsSession struct {
	RefPath  string            `json:"ref_path"`
	RefStats model.SignalStats `json:"ref_stats"`
	Outcome  model.Outcome     `json:"outcome"`
}

// EffectsSessionRepository is the port for per-chat effects session state.
// Sessions expire on their own; an expired session simply means the user
// has to restart the flow, with nothing consumed.
type EffectsSessionRepository interface {
	Set(ctx context.Context, chatID int64, s *EffectsSession) error
	Get(ctx context.Context, chatID int64) (*EffectsSession, error)
	Clear(ctx context.Context, chatID int64) error
}
