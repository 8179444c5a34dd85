//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"telegram-look-bot/internal/domain/model"
	"telegram-look-bot/internal/usecase"
)

var testRules = usecase.EntitlementRules{
	FreePerDay:      2,
	AdEverySuccess:  5,
	ReferrerCredits: 5,
	InviteeCredits:  2,
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEntitlementUseCase_Plan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("premium wins over everything", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{
			PremiumUntil:    now.Add(time.Hour).Unix(),
			Credits:         3,
			EffectsFreeDay:  model.DayKey(now),
			EffectsFreeUsed: 2,
		})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		outcome, err := uc.Plan(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomePremium {
			t.Errorf("expected premium, got %s", outcome)
		}
	})

	t.Run("unknown user gets free quota", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		outcome, err := uc.Plan(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeFree {
			t.Errorf("expected free, got %s", outcome)
		}
	})

	t.Run("exhausted quota falls back to credits", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{
			Credits:         1,
			EffectsFreeDay:  model.DayKey(now),
			EffectsFreeUsed: 2,
		})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		outcome, err := uc.Plan(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeCredit {
			t.Errorf("expected credit, got %s", outcome)
		}
	})

	t.Run("no quota and no credits is denied", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{
			EffectsFreeDay:  model.DayKey(now),
			EffectsFreeUsed: 2,
		})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		outcome, err := uc.Plan(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeDenied {
			t.Errorf("expected denied, got %s", outcome)
		}
	})

	t.Run("stale free day counts as unused", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{
			EffectsFreeDay:  "2025-06-09",
			EffectsFreeUsed: 2,
		})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		outcome, err := uc.Plan(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != model.OutcomeFree {
			t.Errorf("expected free after day rollover, got %s", outcome)
		}
	})

	t.Run("plan is read-only", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		for i := 0; i < 5; i++ {
			if _, err := uc.Plan(ctx, 7); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		rec := store.Record(7)
		if rec.EffectsFreeUsed != 0 || rec.Credits != 0 {
			t.Errorf("plan mutated the ledger: %+v", rec)
		}
	})
}

func TestEntitlementUseCase_Finalize(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("free consumption stamps the current day", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{EffectsFreeDay: "2025-06-09", EffectsFreeUsed: 2})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		if err := uc.Finalize(ctx, 1, model.OutcomeFree); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rec := store.Record(1)
		if rec.EffectsFreeDay != "2025-06-10" {
			t.Errorf("expected day 2025-06-10, got %s", rec.EffectsFreeDay)
		}
		if rec.EffectsFreeUsed != 1 {
			t.Errorf("expected used=1 after rollover, got %d", rec.EffectsFreeUsed)
		}
	})

	t.Run("credit consumption decrements and floors at zero", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{Credits: 1})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		for i := 0; i < 3; i++ {
			if err := uc.Finalize(ctx, 1, model.OutcomeCredit); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if got := store.Record(1).Credits; got != 0 {
			t.Errorf("expected credits floored at 0, got %d", got)
		}
	})

	t.Run("premium finalize is a no-op", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{PremiumUntil: now.Add(time.Hour).Unix(), Credits: 2})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		if err := uc.Finalize(ctx, 1, model.OutcomePremium); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rec := store.Record(1)
		if rec.Credits != 2 || rec.EffectsFreeUsed != 0 {
			t.Errorf("premium finalize mutated the ledger: %+v", rec)
		}
	})
}

func TestEntitlementUseCase_GrantPremium(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	month := 30 * 24 * time.Hour

	t.Run("grant from free starts at now", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		if err := uc.GrantPremium(ctx, 1, month); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := now.Unix() + int64(month/time.Second)
		if got := store.Record(1).PremiumUntil; got != want {
			t.Errorf("expected premium_until=%d, got %d", want, got)
		}
	})

	t.Run("grant during active premium extends the expiry", func(t *testing.T) {
		store := NewMockLedgerStore()
		existing := now.Add(10 * 24 * time.Hour).Unix()
		store.Put(1, model.UserRecord{PremiumUntil: existing})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		if err := uc.GrantPremium(ctx, 1, month); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := existing + int64(month/time.Second)
		if got := store.Record(1).PremiumUntil; got != want {
			t.Errorf("expected stacked expiry %d, got %d", want, got)
		}
	})

	t.Run("grant after expiry restarts from now", func(t *testing.T) {
		store := NewMockLedgerStore()
		store.Put(1, model.UserRecord{PremiumUntil: now.Add(-time.Hour).Unix()})
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		if err := uc.GrantPremium(ctx, 1, month); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := now.Unix() + int64(month/time.Second)
		if got := store.Record(1).PremiumUntil; got != want {
			t.Errorf("expected expiry %d, got %d", want, got)
		}
	})
}

func TestEntitlementUseCase_ApplyReferral(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("first referral pays both sides", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		applied, err := uc.ApplyReferral(ctx, 2, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !applied {
			t.Fatal("expected referral to apply")
		}
		invitee := store.Record(2)
		if invitee.ReferredBy != 1 || invitee.Credits != 2 {
			t.Errorf("invitee record wrong: %+v", invitee)
		}
		referrer := store.Record(1)
		if referrer.Credits != 5 || referrer.RefCount != 1 {
			t.Errorf("referrer record wrong: %+v", referrer)
		}
	})

	t.Run("second referral for the same user is ignored", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		if _, err := uc.ApplyReferral(ctx, 2, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		applied, err := uc.ApplyReferral(ctx, 2, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if applied {
			t.Error("expected second referral to be rejected")
		}
		if got := store.Record(2).ReferredBy; got != 1 {
			t.Errorf("referred_by overwritten: got %d", got)
		}
		if got := store.Record(3).Credits; got != 0 {
			t.Errorf("second referrer was paid: %d credits", got)
		}
	})

	t.Run("self referral is rejected", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		applied, err := uc.ApplyReferral(ctx, 5, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if applied {
			t.Error("expected self referral to be rejected")
		}
	})

	t.Run("concurrent first referrals apply exactly once", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		var wg sync.WaitGroup
		appliedCount := 0
		var mu sync.Mutex
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(ref int64) {
				defer wg.Done()
				ok, err := uc.ApplyReferral(ctx, 2, ref)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if ok {
					mu.Lock()
					appliedCount++
					mu.Unlock()
				}
			}(int64(i + 10))
		}
		wg.Wait()
		if appliedCount != 1 {
			t.Errorf("expected exactly one applied referral, got %d", appliedCount)
		}
	})
}

func TestEntitlementUseCase_BumpSuccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("every fifth success is an ad", func(t *testing.T) {
		store := NewMockLedgerStore()
		uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

		var shown []int
		for i := 1; i <= 12; i++ {
			show, err := uc.BumpSuccess(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if show {
				shown = append(shown, i)
			}
		}
		if len(shown) != 2 || shown[0] != 5 || shown[1] != 10 {
			t.Errorf("expected ads at 5 and 10, got %v", shown)
		}
	})
}

func TestEntitlementUseCase_Summary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	store := NewMockLedgerStore()
	until := now.Add(48 * time.Hour)
	store.Put(1, model.UserRecord{PremiumUntil: until.Unix(), Credits: 7, RefCount: 3})
	uc := usecase.NewEntitlementUseCase(store, testRules, fixedClock(now), newTestLogger())

	sum, err := uc.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Premium {
		t.Error("expected premium")
	}
	if !sum.PremiumUntil.Equal(until) {
		t.Errorf("expected until %v, got %v", until, sum.PremiumUntil)
	}
	if sum.Credits != 7 || sum.RefCount != 3 {
		t.Errorf("summary fields wrong: %+v", sum)
	}
}
