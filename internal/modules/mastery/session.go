package mastery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/apierr"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
)

// sessionWeight scales how strongly a session outcome moves confidence
// toward its score. Applied work is the strongest signal, probing the
// weakest re-proof.
var sessionWeight = map[string]float64{
	types.SessionProbe: 0.4,
	types.SessionProve: 0.2,
	types.SessionBuild: 0.3,
	types.SessionApply: 0.5,
}

// ProposeSession opens a PROPOSED session on a skill, enforcing the one
// open session per user rule. Re-proposing the same skill returns the
// existing open session; proposing a different one conflicts.
func (u Usecases) ProposeSession(ctx context.Context, userID, skillID uuid.UUID) (*types.Session, error) {
	if userID == uuid.Nil || skillID == uuid.Nil {
		return nil, apierr.Validation("missing_id", fmt.Errorf("user id and skill id required"))
	}

	skill, err := u.deps.Skills.GetByID(dbctx.Context{Ctx: ctx}, skillID)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, apierr.Validation("skill_not_found", fmt.Errorf("skill %s not in catalog", skillID))
	}

	var out *types.Session
	err = u.inTx(ctx, func(dbc dbctx.Context) error {
		now := u.deps.now()

		open, err := u.deps.Sessions.GetOpenByUserForUpdate(dbc, userID)
		if err != nil {
			return err
		}
		if open != nil {
			if now.After(open.ExpiresAt) {
				// Lazy expiry: the sweep may not have run yet, the row
				// no longer blocks.
				if err := u.expireSession(dbc, open); err != nil {
					return err
				}
			} else if open.SkillNodeID == skillID {
				out = open
				return nil
			} else {
				return apierr.Conflict("session_already_open", fmt.Errorf("user %s already has an open session on another skill", userID))
			}
		}

		confidence := 0.0
		if state, err := u.deps.States.Get(dbc, userID, skillID); err != nil {
			return err
		} else if state != nil {
			confidence = state.Confidence
		}

		out, err = u.deps.Sessions.Create(dbc, &types.Session{
			UserID:           userID,
			SkillNodeID:      skillID,
			SessionType:      sessionTypeFor(confidence),
			SessionState:     types.SessionProposed,
			ConfidenceBefore: confidence,
			CreatedAt:        now,
			ExpiresAt:        now.Add(u.deps.SessionTTL),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StartSession moves a PROPOSED session to ACTIVE. Starting an already
// ACTIVE session is a no-op so a flaky client can retry safely.
func (u Usecases) StartSession(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	if sessionID == uuid.Nil {
		return nil, apierr.Validation("missing_session_id", fmt.Errorf("session id required"))
	}

	var out *types.Session
	err := u.inTx(ctx, func(dbc dbctx.Context) error {
		now := u.deps.now()

		sess, err := u.deps.Sessions.GetByIDForUpdate(dbc, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return apierr.NotFound("session_not_found", fmt.Errorf("session %s does not exist", sessionID))
		}
		if sess.Open() && now.After(sess.ExpiresAt) {
			if err := u.expireSession(dbc, sess); err != nil {
				return err
			}
			return apierr.Conflict("session_expired", fmt.Errorf("session %s expired before starting", sessionID))
		}

		switch sess.SessionState {
		case types.SessionActive:
			out = sess
			return nil
		case types.SessionProposed:
			if err := u.deps.Sessions.UpdateFields(dbc, sess.ID, map[string]interface{}{
				"session_state": types.SessionActive,
				"started_at":    now,
			}); err != nil {
				return err
			}
			sess.SessionState = types.SessionActive
			sess.StartedAt = &now
			out = sess
			return nil
		default:
			return apierr.Conflict("session_not_startable", fmt.Errorf("session %s is %s", sessionID, sess.SessionState))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteSession closes an ACTIVE session with a score, folds the
// outcome into the skill state and re-checks the frontier. Confidence
// moves toward the score in both directions; status only moves forward.
func (u Usecases) CompleteSession(ctx context.Context, sessionID uuid.UUID, score float64) (*types.Session, error) {
	if sessionID == uuid.Nil {
		return nil, apierr.Validation("missing_session_id", fmt.Errorf("session id required"))
	}
	if score < 0 || score > 1 {
		return nil, apierr.Validation("score_out_of_range", fmt.Errorf("score %v outside [0,1]", score))
	}

	var (
		out    *types.Session
		events []bus.TransitionEvent
	)
	err := u.inTx(ctx, func(dbc dbctx.Context) error {
		now := u.deps.now()

		sess, err := u.deps.Sessions.GetByIDForUpdate(dbc, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return apierr.NotFound("session_not_found", fmt.Errorf("session %s does not exist", sessionID))
		}
		if sess.Open() && now.After(sess.ExpiresAt) {
			if err := u.expireSession(dbc, sess); err != nil {
				return err
			}
			return apierr.Conflict("session_expired", fmt.Errorf("session %s expired before completion", sessionID))
		}
		if sess.SessionState != types.SessionActive {
			return apierr.Conflict("session_not_active", fmt.Errorf("session %s is %s", sessionID, sess.SessionState))
		}

		state, err := u.lockOrCreateState(dbc, sess.UserID, sess.SkillNodeID)
		if err != nil {
			return err
		}
		oldStatus := state.Status

		weight := sessionWeight[sess.SessionType]
		newConfidence := clamp01(state.Confidence + weight*(score-state.Confidence))

		state.Status = advanceStatus(state.Status, sessionOutcomeStatus(score, newConfidence))
		state.Confidence = newConfidence
		evAt := now
		state.LastEvidenceAt = &evAt
		if state.Status == types.StatusProved {
			skill, err := u.deps.Skills.GetByID(dbc, sess.SkillNodeID)
			if err != nil {
				return err
			}
			halfLife := 180
			if skill != nil && skill.DecayHalfLifeDays > 0 {
				halfLife = skill.DecayHalfLifeDays
			}
			staleAt := now.AddDate(0, 0, halfLife)
			state.StaleAt = &staleAt
		}
		if err := u.deps.States.Save(dbc, state); err != nil {
			return err
		}

		if state.Status != oldStatus {
			events = append(events, bus.TransitionEvent{
				UserID:     sess.UserID,
				SkillID:    sess.SkillNodeID,
				OldStatus:  oldStatus,
				NewStatus:  state.Status,
				Confidence: state.Confidence,
				At:         now,
			})
		}

		if err := u.deps.Sessions.UpdateFields(dbc, sess.ID, map[string]interface{}{
			"session_state":    types.SessionCompleted,
			"score":            score,
			"confidence_after": newConfidence,
			"completed_at":     now,
		}); err != nil {
			return err
		}
		sess.SessionState = types.SessionCompleted
		sess.Score = &score
		sess.ConfidenceAfter = &newConfidence
		sess.CompletedAt = &now
		out = sess

		promoted, err := u.recomputeFrontier(dbc, sess.UserID, sess.SkillNodeID, map[uuid.UUID]bool{sess.SkillNodeID: true})
		if err != nil {
			return err
		}
		events = append(events, promoted...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		u.publishTransition(ctx, ev)
	}
	return out, nil
}

// GetSession reads a session by id.
func (u Usecases) GetSession(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	if sessionID == uuid.Nil {
		return nil, apierr.Validation("missing_session_id", fmt.Errorf("session id required"))
	}
	sess, err := u.deps.Sessions.GetByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apierr.NotFound("session_not_found", fmt.Errorf("session %s does not exist", sessionID))
	}
	return sess, nil
}

func (u Usecases) expireSession(dbc dbctx.Context, sess *types.Session) error {
	if err := u.deps.Sessions.UpdateFields(dbc, sess.ID, map[string]interface{}{
		"session_state": types.SessionExpired,
	}); err != nil {
		return err
	}
	sess.SessionState = types.SessionExpired
	return nil
}

// sessionTypeFor maps current confidence to the kind of work worth
// doing: unknown skills get probed, known ones get built on.
func sessionTypeFor(confidence float64) string {
	if confidence < 0.5 {
		return types.SessionProbe
	}
	return types.SessionBuild
}

// sessionOutcomeStatus is the highest status a session result can argue
// for; the lattice decides whether the state actually moves there.
func sessionOutcomeStatus(score, newConfidence float64) string {
	switch {
	case score >= 0.8 && newConfidence >= 0.7:
		return types.StatusProved
	case score >= 0.6 && newConfidence >= 0.5:
		return types.StatusActive
	default:
		return types.StatusInferred
	}
}
