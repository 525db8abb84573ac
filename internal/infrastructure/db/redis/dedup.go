package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker keeps subscriber notifications at-most-once, backed by Redis.
// Key format: notify:<theme_id>:<post_id>:<recipient_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this recipient was already notified about this post.
func (d *DedupChecker) IsDuplicate(ctx context.Context, themeID, postID, recipientID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(themeID, postID, recipientID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the notification was sent (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, themeID, postID, recipientID string) error {
	return d.client.Set(ctx, d.key(themeID, postID, recipientID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(themeID, postID, recipientID string) string {
	return fmt.Sprintf("notify:%s:%s:%s", themeID, postID, recipientID)
}
