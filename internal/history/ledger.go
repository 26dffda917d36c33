package history

import (
	"context"
	"sort"
	"time"

	"country-trivia/internal/country"
	"country-trivia/internal/game/scoring"
)

// DefaultLimit caps the retained records per user.
const DefaultLimit = 50

// Record is the immutable log entry for one completed game.
type Record struct {
	PlayedAt   time.Time                `json:"playedAt"`
	Tier       country.Tier             `json:"tier"`
	TotalScore int                      `json:"totalScore"`
	Questions  []scoring.QuestionResult `json:"questions"`
}

// Store persists per-user history logs as whole values.
type Store interface {
	List(ctx context.Context, username string) ([]Record, error)
	Save(ctx context.Context, username string, records []Record) error
}

// Ledger appends session records to a bounded per-user log.
type Ledger struct {
	store Store
	limit int
}

func NewLedger(store Store, limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ledger{store: store, limit: limit}
}

// Append adds one record, evicting the oldest entries first when the log
// would exceed the cap.
func (l *Ledger) Append(ctx context.Context, username string, rec Record) error {
	records, err := l.store.List(ctx, username)
	if err != nil {
		return err
	}
	records = append(records, rec)
	if excess := len(records) - l.limit; excess > 0 {
		records = records[excess:]
	}
	return l.store.Save(ctx, username, records)
}

// Recent returns up to n records sorted by playedAt descending; ties keep
// their natural log order. n <= 0 returns the full retained log.
func (l *Ledger) Recent(ctx context.Context, username string, n int) ([]Record, error) {
	records, err := l.store.List(ctx, username)
	if err != nil {
		return nil, err
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.After(sorted[j].PlayedAt)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}
