package main

import (
	"context"
	"errors"

	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/rs/zerolog/log"
)

// reportUsageErrors reads tracker faults until ctx is done. Each fault is already
// logged at warn level by the tracker; a full queue means events are being lost,
// so it is raised to error level.
func reportUsageErrors(ctx context.Context, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			var usageErr *services.UsageError
			if !errors.As(err, &usageErr) || !errors.Is(err, services.ErrUsageQueueFull) {
				continue
			}
			log.Error().
				Str("api_key_id", usageErr.Event.KeyID.String()).
				Msg("usage queue full, dropping usage events")
		}
	}
}
