package mastery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
)

const (
	decayConfidenceFactor = 0.8
	decayBatchSize        = 200
	decaySweepConcurrency = 4
)

// RunDecaySweep demotes PROVED skills whose stale deadline passed to
// STALE and discounts their confidence. This is the only path that moves
// a status backward. Each row decays in its own transaction so one bad
// row cannot poison the batch; failed rows stay PROVED and the next
// sweep retries them.
func (u Usecases) RunDecaySweep(ctx context.Context) (int, error) {
	now := u.deps.now()

	candidates, err := u.deps.States.ClaimExpiredProved(dbctx.Context{Ctx: ctx}, now, decayBatchSize)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	var (
		events  = make([]*bus.TransitionEvent, len(candidates))
		decayed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decaySweepConcurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			ev, err := u.decayOne(gctx, candidate.UserID, candidate.SkillID, now)
			if err != nil {
				if u.log != nil {
					u.log.Warn("decay failed for state row",
						"error", err,
						"user_id", candidate.UserID,
						"skill_id", candidate.SkillID)
				}
				return nil
			}
			events[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, ev := range events {
		if ev == nil {
			continue
		}
		decayed++
		u.publishTransition(ctx, *ev)
	}
	if u.log != nil && decayed > 0 {
		u.log.Info("decay sweep finished", "decayed", decayed, "candidates", len(candidates))
	}
	return decayed, nil
}

// decayOne re-locks and re-checks the row before demoting it; a
// concurrent evidence submission may have refreshed the deadline since
// the claim.
func (u Usecases) decayOne(ctx context.Context, userID, skillID uuid.UUID, now time.Time) (*bus.TransitionEvent, error) {
	var ev *bus.TransitionEvent
	err := u.inTx(ctx, func(dbc dbctx.Context) error {
		state, err := u.deps.States.GetForUpdate(dbc, userID, skillID)
		if err != nil {
			return err
		}
		if state == nil || state.Status != types.StatusProved ||
			state.StaleAt == nil || !state.StaleAt.Before(now) {
			return nil
		}

		oldStatus := state.Status
		state.Status = types.StatusStale
		state.Confidence = clamp01(state.Confidence * decayConfidenceFactor)
		state.StaleAt = nil
		if err := u.deps.States.Save(dbc, state); err != nil {
			return err
		}
		ev = &bus.TransitionEvent{
			UserID:     userID,
			SkillID:    skillID,
			OldStatus:  oldStatus,
			NewStatus:  state.Status,
			Confidence: state.Confidence,
			At:         now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ExpireOverdueSessions closes open sessions past their deadline.
func (u Usecases) ExpireOverdueSessions(ctx context.Context) (int, error) {
	expired := 0
	err := u.inTx(ctx, func(dbc dbctx.Context) error {
		overdue, err := u.deps.Sessions.ListExpiredOpen(dbc, u.deps.now(), decayBatchSize)
		if err != nil {
			return err
		}
		for _, sess := range overdue {
			if err := u.expireSession(dbc, sess); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if u.log != nil && expired > 0 {
		u.log.Info("expired overdue sessions", "count", expired)
	}
	return expired, nil
}

// StartWorker runs the decay sweep and session expiry on an interval
// until ctx is cancelled.
func (u Usecases) StartWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := u.RunDecaySweep(ctx); err != nil && u.log != nil {
					u.log.Error("decay sweep failed", "error", err)
				}
				if _, err := u.ExpireOverdueSessions(ctx); err != nil && u.log != nil {
					u.log.Error("session expiry sweep failed", "error", err)
				}
			}
		}
	}()
}
