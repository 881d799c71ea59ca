package data

import (
	"context"
	"time"

	"github.com/coparenthq/feishu-moderator/internal/biz/repo"
	"github.com/coparenthq/feishu-moderator/seen"
)

// seenRepo adapts the SQLite seen store to the dedup port
type seenRepo struct {
	store *seen.Store
}

// NewSeenRepo creates a seen-message repository
func NewSeenRepo(store *seen.Store) repo.SeenRepo {
	return &seenRepo{store: store}
}

func (r *seenRepo) MarkSeen(ctx context.Context, messageID string) (bool, error) {
	return r.store.Mark(messageID)
}

func (r *seenRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.store.PurgeBefore(cutoff)
}
