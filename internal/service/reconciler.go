package service

import (
	"context"
	"sync"
	"time"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/repository"
	"github.com/rs/zerolog"
)

// ReconcileReport counts the dangling references found and the articles fixed by one pass
type ReconcileReport struct {
	MissingCategories  int   `json:"missingCategories"`
	MissingTags        int   `json:"missingTags"`
	MissingCoverImages int   `json:"missingCoverImages"`
	Modified           int64 `json:"modified"`
}

// Reconciler sweeps article references to documents that no longer exist.
// A pass is idempotent; a second pass over a clean store modifies nothing.
type Reconciler interface {
	// Start runs a pass every interval until ctx is done or Stop is called.
	// It blocks and returns immediately when the interval is not positive.
	Start(ctx context.Context)
	Stop()
	RunOnce(ctx context.Context) (*ReconcileReport, error)
}

type reconciler struct {
	repos    *repository.Repositories
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func newReconciler(repos *repository.Repositories, interval time.Duration, log zerolog.Logger) *reconciler {
	return &reconciler{
		repos:    repos,
		interval: interval,
		log:      log.With().Str("component", "reconciler").Logger(),
	}
}

func (r *reconciler) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.log.Info().Msg("Reconciler disabled")
		return
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	defer func() {
		close(done)
		r.mu.Lock()
		if r.done == done {
			r.running = false
		}
		r.mu.Unlock()
	}()
	r.log.Info().Dur("interval", r.interval).Msg("Reconciler started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("Reconciler stopping")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error().Err(err).Msg("Reconcile pass failed")
			}
		}
	}
}

// Stop cancels the loop started by Start and waits for the current pass
func (r *reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	<-r.done
	r.running = false
	r.log.Info().Msg("Reconciler stopped")
}

func (r *reconciler) RunOnce(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	err := r.repos.InTx(ctx, func(tx *repository.Repositories) error {
		missing, n, err := sweep(ctx, tx.Article.ReferencedCategories, func(ctx context.Context, ids []string) ([]string, error) {
			found, err := tx.Category.GetByIDs(ctx, ids)
			out := make([]string, len(found))
			for i, c := range found {
				out[i] = c.ID
			}
			return out, err
		}, tx.Article.RemoveCategories)
		if err != nil {
			return fault.Wrap(fault.Internal, err, "failed to reconcile category references")
		}
		report.MissingCategories = missing
		report.Modified += n

		missing, n, err = sweep(ctx, tx.Article.ReferencedTags, func(ctx context.Context, ids []string) ([]string, error) {
			found, err := tx.Tag.GetByIDs(ctx, ids)
			out := make([]string, len(found))
			for i, t := range found {
				out[i] = t.ID
			}
			return out, err
		}, tx.Article.RemoveTags)
		if err != nil {
			return fault.Wrap(fault.Internal, err, "failed to reconcile tag references")
		}
		report.MissingTags = missing
		report.Modified += n

		missing, n, err = sweep(ctx, tx.Article.ReferencedCoverImages, func(ctx context.Context, ids []string) ([]string, error) {
			found, err := tx.File.GetByIDs(ctx, ids)
			out := make([]string, len(found))
			for i, f := range found {
				out[i] = f.ID
			}
			return out, err
		}, tx.Article.ClearCoverImages)
		if err != nil {
			return fault.Wrap(fault.Internal, err, "failed to reconcile cover images")
		}
		report.MissingCoverImages = missing
		report.Modified += n
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := r.log.Debug()
	if report.Modified > 0 {
		event = r.log.Info()
	}
	event.
		Int("missing_categories", report.MissingCategories).
		Int("missing_tags", report.MissingTags).
		Int("missing_cover_images", report.MissingCoverImages).
		Int64("modified", report.Modified).
		Msg("Reconcile pass complete")
	return report, nil
}

// sweep finds referenced identifiers that no longer resolve and removes them
func sweep(
	ctx context.Context,
	referenced func(context.Context) ([]string, error),
	existing func(context.Context, []string) ([]string, error),
	remove func(context.Context, []string) (int64, error),
) (int, int64, error) {
	refs, err := referenced(ctx)
	if err != nil || len(refs) == 0 {
		return 0, 0, err
	}
	found, err := existing(ctx, refs)
	if err != nil {
		return 0, 0, err
	}

	alive := make(map[string]bool, len(found))
	for _, id := range found {
		alive[id] = true
	}
	var missing []string
	for _, id := range refs {
		if !alive[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return 0, 0, nil
	}

	n, err := remove(ctx, missing)
	return len(missing), n, err
}
