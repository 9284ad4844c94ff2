// Package usage enforces per-user monthly quotas on metered operations.
package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"oryos/style-gateway/models"
)

// Kind names a metered operation.
type Kind string

const (
	KindAnalyses    Kind = "analyses"
	KindScripts     Kind = "scripts"
	KindTranscripts Kind = "transcripts"
)

// Unlimited marks a quota with no ceiling.
const Unlimited = -1

// ErrQuotaExceeded is matched by every *QuotaError via errors.Is.
var ErrQuotaExceeded = errors.New("monthly quota exceeded")

// QuotaError reports which quota was hit and where the counter stood.
type QuotaError struct {
	Kind    Kind
	Current int
	Limit   int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %d of %d used this month", e.Kind, e.Current, e.Limit)
}

func (e *QuotaError) Is(target error) bool { return target == ErrQuotaExceeded }

// Store is the persistence surface the guard needs.
type Store interface {
	// GetUsage returns nil with no error when the user has no usage row yet.
	GetUsage(ctx context.Context, userID string) (*models.UserUsage, error)
	// IncrementUsage atomically bumps one counter for the current period.
	IncrementUsage(ctx context.Context, userID string, kind Kind) error
	// ResetUsage zeroes all counters and stamps a new period start.
	ResetUsage(ctx context.Context, userID string, periodStart time.Time) error
}

// Guard checks and records quota consumption.
type Guard struct {
	store Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewGuard(store Store, log *logrus.Logger) *Guard {
	return &Guard{store: store, log: log, now: time.Now}
}

// Check returns nil when the user may perform one more operation of the
// given kind, or a *QuotaError when the ceiling is reached. Users without a
// usage row are allowed; provisioning happens on first increment.
func (g *Guard) Check(ctx context.Context, userID string, kind Kind) error {
	u, err := g.store.GetUsage(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading usage for %s: %w", userID, err)
	}
	if u == nil {
		return nil
	}

	current, limit := counters(u, kind)
	if !samePeriod(u.PeriodStart, g.now()) {
		current = 0
	}
	if limit == Unlimited || current < limit {
		return nil
	}

	g.log.WithFields(logrus.Fields{
		"user_id": userID,
		"kind":    string(kind),
		"current": current,
		"limit":   limit,
	}).Warn("Quota exceeded")

	return &QuotaError{Kind: kind, Current: current, Limit: limit}
}

// Record consumes one unit of the given kind. When the stored period is
// stale the counters are reset to the current month first.
func (g *Guard) Record(ctx context.Context, userID string, kind Kind) error {
	u, err := g.store.GetUsage(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading usage for %s: %w", userID, err)
	}
	if u != nil && !samePeriod(u.PeriodStart, g.now()) {
		start := monthStart(g.now())
		if err := g.store.ResetUsage(ctx, userID, start); err != nil {
			return fmt.Errorf("resetting usage period for %s: %w", userID, err)
		}
	}
	if err := g.store.IncrementUsage(ctx, userID, kind); err != nil {
		return fmt.Errorf("recording %s usage for %s: %w", kind, userID, err)
	}
	return nil
}

// Snapshot returns the user's usage with stale periods presented as zeroed.
func (g *Guard) Snapshot(ctx context.Context, userID string) (*models.UserUsage, error) {
	u, err := g.store.GetUsage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading usage for %s: %w", userID, err)
	}
	if u == nil {
		return nil, nil
	}
	if !samePeriod(u.PeriodStart, g.now()) {
		u.AnalysesThisMonth = 0
		u.ScriptsThisMonth = 0
		u.TranscriptsThisMonth = 0
		u.PeriodStart = monthStart(g.now())
	}
	return u, nil
}

func counters(u *models.UserUsage, kind Kind) (current, limit int) {
	switch kind {
	case KindAnalyses:
		return u.AnalysesThisMonth, u.MaxAnalysesPerMonth
	case KindScripts:
		return u.ScriptsThisMonth, u.MaxScriptsPerMonth
	case KindTranscripts:
		// Transcript fetches ride on the analysis allowance.
		return u.TranscriptsThisMonth, u.MaxAnalysesPerMonth
	default:
		return 0, Unlimited
	}
}

func samePeriod(start, now time.Time) bool {
	return start.Year() == now.Year() && start.Month() == now.Month()
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
