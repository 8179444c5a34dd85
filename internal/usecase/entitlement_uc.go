// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"
	"time"

	"telegram-look-bot/internal/domain"
	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/domain/ports/repository"
	"telegram-look-bot/internal/infra/logging"
	"telegram-look-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase decides and commits how gated operations are paid for.
//
// Callers follow a reserve-then-commit shape: Plan before the work (read
// only, repeatable), Finalize strictly after the work verifiably succeeded.
// Finalizing a failed or abandoned operation is a contract violation.
type EntitlementUseCase interface {
	Plan(ctx context.Context, userID int64) (model.Outcome, error)
	Finalize(ctx context.Context, userID int64, outcome model.Outcome) error
	GrantPremium(ctx context.Context, userID int64, d time.Duration) error
	AddCredits(ctx context.Context, userID int64, amount int) error
	ApplyReferral(ctx context.Context, newUserID, refUserID int64) (bool, error)
	// BumpSuccess increments the user's success counter and reports whether
	// a sponsored message is due. Callers skip it entirely for premium users.
	BumpSuccess(ctx context.Context, userID int64) (bool, error)
	Summary(ctx context.Context, userID int64) (*EntitlementSummary, error)
}

// EntitlementSummary is what user-facing status menus render.
type EntitlementSummary struct {
	Premium      bool
	PremiumUntil time.Time
	Credits      int
	RefCount     int
}

// EntitlementRules are the fixed policy constants, injected from config.
type EntitlementRules struct {
	FreePerDay      int
	AdEverySuccess  int
	ReferrerCredits int
	InviteeCredits  int
}

type entitlementUC struct {
	ledger repository.LedgerStore
	rules  EntitlementRules
	now    func() time.Time
	log    *zerolog.Logger
}

func NewEntitlementUseCase(ledger repository.LedgerStore, rules EntitlementRules, now func() time.Time, logger *zerolog.Logger) *entitlementUC {
	if now == nil {
		now = time.Now
	}
	return &entitlementUC{ledger: ledger, rules: rules, now: now, log: logger}
}

// Plan is read-only: a user may plan repeatedly (e.g. across a cancelled
// flow) without being charged.
func (u *entitlementUC) Plan(ctx context.Context, userID int64) (model.Outcome, error) {
	defer logging.TraceDuration(u.log, "EntitlementUC.Plan")()
	if userID <= 0 {
		return model.OutcomeDenied, domain.ErrInvalidArgument
	}

	t, err := u.ledger.Load(ctx)
	if err != nil {
		return model.OutcomeDenied, err
	}
	rec := t[userID]
	if rec == nil {
		rec = &model.UserRecord{}
	}

	now := u.now()
	outcome := model.OutcomeDenied
	switch {
	case rec.IsPremiumAt(now):
		outcome = model.OutcomePremium
	case rec.FreeUsedOn(model.DayKey(now)) < u.rules.FreePerDay:
		outcome = model.OutcomeFree
	case rec.Credits > 0:
		outcome = model.OutcomeCredit
	}
	metrics.IncPlanOutcome(string(outcome))
	return outcome, nil
}

func (u *entitlementUC) Finalize(ctx context.Context, userID int64, outcome model.Outcome) error {
	defer logging.TraceDuration(u.log, "EntitlementUC.Finalize")()
	if userID <= 0 {
		return domain.ErrInvalidArgument
	}
	if !outcome.Consumable() {
		// Premium carries no per-use cost; anything else here is a caller
		// bug, logged and ignored rather than charged.
		if outcome != model.OutcomePremium {
			u.log.Warn().Int64("user_id", userID).Str("outcome", string(outcome)).Msg("finalize called with non-consumable outcome")
		}
		return nil
	}

	return u.ledger.Mutate(ctx, userID, func(rec *model.UserRecord) error {
		switch outcome {
		case model.OutcomeFree:
			today := model.DayKey(u.now())
			if rec.EffectsFreeDay != today {
				rec.EffectsFreeDay = today
				rec.EffectsFreeUsed = 0
			}
			rec.EffectsFreeUsed++
		case model.OutcomeCredit:
			if rec.Credits > 0 {
				rec.Credits--
			}
		}
		return nil
	})
}

// GrantPremium extends the premium window from max(now, current expiry);
// it never shortens existing premium.
func (u *entitlementUC) GrantPremium(ctx context.Context, userID int64, d time.Duration) error {
	defer logging.TraceDuration(u.log, "EntitlementUC.GrantPremium")()
	if userID <= 0 {
		return domain.ErrInvalidArgument
	}
	if d <= 0 {
		return nil
	}
	return u.ledger.Mutate(ctx, userID, func(rec *model.UserRecord) error {
		base := u.now().Unix()
		if rec.PremiumUntil > base {
			base = rec.PremiumUntil
		}
		rec.PremiumUntil = base + int64(d/time.Second)
		return nil
	})
}

func (u *entitlementUC) AddCredits(ctx context.Context, userID int64, amount int) error {
	defer logging.TraceDuration(u.log, "EntitlementUC.AddCredits")()
	if userID <= 0 {
		return domain.ErrInvalidArgument
	}
	if amount <= 0 {
		return nil
	}
	return u.ledger.Mutate(ctx, userID, func(rec *model.UserRecord) error {
		rec.Credits += amount
		return nil
	})
}

// ApplyReferral records the referrer on the new user and pays both sides.
// The whole check-and-apply sequence runs as one atomic table update so two
// concurrent first-referrals for the same user cannot both succeed.
func (u *entitlementUC) ApplyReferral(ctx context.Context, newUserID, refUserID int64) (bool, error) {
	defer logging.TraceDuration(u.log, "EntitlementUC.ApplyReferral")()
	if newUserID <= 0 || refUserID <= 0 || newUserID == refUserID {
		return false, nil
	}

	applied := false
	err := u.ledger.Update(ctx, func(t repository.Table) error {
		newRec := t[newUserID]
		if newRec == nil {
			newRec = &model.UserRecord{}
			t[newUserID] = newRec
		}
		if newRec.ReferredBy != 0 {
			return nil
		}
		refRec := t[refUserID]
		if refRec == nil {
			refRec = &model.UserRecord{}
			t[refUserID] = refRec
		}

		newRec.ReferredBy = refUserID
		newRec.Credits += u.rules.InviteeCredits
		refRec.RefCount++
		refRec.Credits += u.rules.ReferrerCredits
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		metrics.IncReferralApplied()
		u.log.Info().Int64("user_id", newUserID).Int64("referrer_id", refUserID).Msg("referral applied")
	}
	return applied, nil
}

func (u *entitlementUC) BumpSuccess(ctx context.Context, userID int64) (bool, error) {
	defer logging.TraceDuration(u.log, "EntitlementUC.BumpSuccess")()
	if userID <= 0 {
		return false, domain.ErrInvalidArgument
	}
	if u.rules.AdEverySuccess <= 0 {
		return false, nil
	}
	show := false
	err := u.ledger.Mutate(ctx, userID, func(rec *model.UserRecord) error {
		rec.SuccessCount++
		show = rec.SuccessCount%u.rules.AdEverySuccess == 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if show {
		metrics.IncAdShown()
	}
	return show, nil
}

func (u *entitlementUC) Summary(ctx context.Context, userID int64) (*EntitlementSummary, error) {
	defer logging.TraceDuration(u.log, "EntitlementUC.Summary")()
	if userID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	t, err := u.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	rec := t[userID]
	if rec == nil {
		rec = &model.UserRecord{}
	}
	sum := &EntitlementSummary{
		Premium:  rec.IsPremiumAt(u.now()),
		Credits:  rec.Credits,
		RefCount: rec.RefCount,
	}
	if rec.PremiumUntil > 0 {
		sum.PremiumUntil = time.Unix(rec.PremiumUntil, 0).UTC()
	}
	return sum, nil
}
