package middleware

import (
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	OwnerIDKey = "owner_id"
	APIKeyKey  = "api_key"
)

// Owner attaches the principal whose records the request may touch. Until real
// authentication exists this is the single configured placeholder identity.
func Owner(ownerID uuid.UUID) drift.HandlerFunc {
	return func(c *drift.Context) {
		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// GetOwnerID reports the request's owner. The placeholder owner may be uuid.Nil,
// so presence is reported separately.
func GetOwnerID(c *drift.Context) (uuid.UUID, bool) {
	if id, ok := c.Get(OwnerIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid, true
		}
	}
	return uuid.Nil, false
}
