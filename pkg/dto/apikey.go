package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout matches JavaScript's Date.toISOString, which the dashboard parses.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type APIKeyRequest struct {
	Name string `json:"name"`
}

type APIKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	CreatedAt string    `json:"createdAt"`
	LastUsed  *string   `json:"lastUsed,omitempty"`
}

type VerifyAPIKeyResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	UsageCount int64     `json:"usageCount"`
	CreatedAt  string    `json:"createdAt"`
	LastUsed   *string   `json:"lastUsed,omitempty"`
}

type APIKeyStatsResponse struct {
	TotalKeys  int64   `json:"totalKeys"`
	ActiveKeys int64   `json:"activeKeys"`
	UnusedKeys int64   `json:"unusedKeys"`
	RecentKeys int64   `json:"recentKeys"`
	TotalUsage int64   `json:"totalUsage"`
	LastUsed   *string `json:"lastUsed,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func FormatOptionalTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := FormatTimestamp(*t)
	return &formatted
}

// MaskKey keeps the first and last four characters and stars out up to twenty in between.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	hidden := min(len(key)-8, 20)
	return key[:4] + strings.Repeat("*", hidden) + key[len(key)-4:]
}
