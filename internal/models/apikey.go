package models

import (
	"time"

	"github.com/google/uuid"
)

type APIKey struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	Name       string     `json:"name"`
	Key        string     `json:"key"`
	UsageCount int64      `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// RecentKeyWindow is how far back a key's creation counts as recent.
const RecentKeyWindow = 7 * 24 * time.Hour

// APIKeyStats summarises all keys belonging to one owner.
// Active keys have been used at least once; recent keys were created within RecentKeyWindow.
type APIKeyStats struct {
	TotalKeys  int64      `json:"total_keys"`
	ActiveKeys int64      `json:"active_keys"`
	UnusedKeys int64      `json:"unused_keys"`
	RecentKeys int64      `json:"recent_keys"`
	TotalUsage int64      `json:"total_usage"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
