package domain

import (
	"context"
	"time"
)

// ItemMeta is the display metadata of a content item.
type ItemMeta struct {
	ID          int64
	Title       string
	Permalink   string
	PublishedAt time.Time
}

// ContentStore looks up content items. Meta returns ErrItemNotFound for
// deleted or unknown items.
type ContentStore interface {
	ListItemIDs(ctx context.Context, postTypes []string) ([]int64, error)
	Meta(ctx context.Context, itemID int64) (ItemMeta, error)
}
