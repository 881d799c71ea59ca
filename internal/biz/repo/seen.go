package repo

import (
	"context"
	"time"
)

// SeenRepo deduplicates at-least-once event delivery. Feishu retries event
// pushes on slow ACKs, so a message may arrive more than once; moderating it
// twice would post duplicate warnings.
type SeenRepo interface {
	// MarkSeen records a message ID. It returns true if the ID was new and
	// false if it was already recorded.
	MarkSeen(ctx context.Context, messageID string) (bool, error)

	// PurgeBefore removes records first seen before the cutoff.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
