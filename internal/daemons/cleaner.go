package daemons

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type LookupPruner interface {
	DeleteLookupsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type CleanerConfig struct {
	Retention	time.Duration
	Interval	time.Duration
}

// RunJournalCleaner removes lookups older than the retention window. Only
// worker 0 prunes, other workers of the pool exit right away.
func RunJournalCleaner(ctx context.Context, workerID int, totalWorkers int, pruner LookupPruner, cfg CleanerConfig, log zerolog.Logger) {
	if workerID != 0 {
		return
	}
	log = log.With().Str("component", "cleaner").Logger()
	log.Info().Dur("retention", cfg.Retention).Msg("🧹 Journal cleaner started")

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		prune(ctx, pruner, cfg.Retention, log)

		select {
		case <-ctx.Done():
			log.Info().Msg("Journal cleaner stopping...")
			return
		case <-ticker.C:
		}
	}
}

func prune(ctx context.Context, pruner LookupPruner, retention time.Duration, log zerolog.Logger) {
	cutoff := time.Now().Add(-retention)

	deleted, err := pruner.DeleteLookupsBefore(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("❌ Failed to prune lookups")
		}
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Pruned old lookups")
	}
}
