package repository

import (
	"context"

	"telegram-look-bot/internal/domain/model"
)

// Table is the full user id -> record mapping. It is the single unit of
// durability: every mutation rewrites the whole table.
type Table map[int64]*model.UserRecord

// LedgerStore is the port for the durable per-user entitlement ledger.
//
// Implementations must serialize every Load/Save/Mutate/Update across the
// whole process: a read-modify-write cycle never interleaves with another.
// Unreadable or malformed persisted state loads as an empty table.
type LedgerStore interface {
	// Load returns a snapshot of the full table.
	Load(ctx context.Context) (Table, error)
	// Save atomically replaces the persisted table.
	Save(ctx context.Context, t Table) error
	// Mutate loads, applies fn to the one record (created empty when
	// absent), and saves, all under the store's serialization.
	Mutate(ctx context.Context, userID int64, fn func(rec *model.UserRecord) error) error
	// Update is Mutate over the whole table, for sequences that must touch
	// more than one record atomically.
	Update(ctx context.Context, fn func(t Table) error) error
}
