package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS api_keys (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL,
		name VARCHAR(50) NOT NULL,
		key VARCHAR(255) NOT NULL UNIQUE,
		usage_count BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		last_used_at TIMESTAMP WITH TIME ZONE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_api_keys_owner_created ON api_keys(owner_id, created_at DESC)`,

	// last_used_at can never precede creation
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE table_name = 'api_keys' AND constraint_name = 'api_keys_last_used_after_created'
		) THEN
			ALTER TABLE api_keys ADD CONSTRAINT api_keys_last_used_after_created
				CHECK (last_used_at IS NULL OR last_used_at >= created_at);
		END IF;
	END $$`,

	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE table_name = 'api_keys' AND constraint_name = 'api_keys_usage_count_non_negative'
		) THEN
			ALTER TABLE api_keys ADD CONSTRAINT api_keys_usage_count_non_negative
				CHECK (usage_count >= 0);
		END IF;
	END $$`,
}

// Migrate applies every migration in order. Each statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
