package model

import "time"

// Outcome is the entitlement source a gated operation runs under.
type Outcome string

const (
	OutcomePremium Outcome = "premium"
	OutcomeFree    Outcome = "free"
	OutcomeCredit  Outcome = "credit"
	OutcomeDenied  Outcome = "denied"
)

// Consumable reports whether finalizing this outcome mutates the ledger.
func (o Outcome) Consumable() bool {
	return o == OutcomeFree || o == OutcomeCredit
}

// UserRecord is the per-user ledger entry. Absent fields keep their zero
// value, which matches the persistence contract: a missing field means
// "never set".
type UserRecord struct {
	PremiumUntil    int64  `json:"premium_until,omitempty"` // unix seconds
	Credits         int    `json:"credits,omitempty"`
	EffectsFreeDay  string `json:"effects_free_day,omitempty"` // UTC YYYY-MM-DD
	EffectsFreeUsed int    `json:"effects_free_used,omitempty"`
	SuccessCount    int    `json:"success_count,omitempty"`
	ReferredBy      int64  `json:"referred_by,omitempty"`
	RefCount        int    `json:"ref_count,omitempty"`
}

// IsPremiumAt reports whether the premium window covers the given instant.
func (r *UserRecord) IsPremiumAt(now time.Time) bool {
	return r.PremiumUntil > now.Unix()
}

// FreeUsedOn returns the free-quota consumption for the given day key.
// Usage recorded under any other day is stale and counts as zero.
func (r *UserRecord) FreeUsedOn(day string) int {
	if r.EffectsFreeDay != day {
		return 0
	}
	return r.EffectsFreeUsed
}

// DayKey renders the UTC calendar-day key used by the daily free quota.
func DayKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
