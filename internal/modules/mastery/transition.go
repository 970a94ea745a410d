package mastery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/apierr"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
)

type SubmitEvidenceInput struct {
	UserID       uuid.UUID `json:"user_id"`
	SkillID      uuid.UUID `json:"skill_id"`
	EvidenceType string    `json:"evidence_type"`

	// RawScore is the graded performance in [0,1] for quiz evidence.
	RawScore *float64 `json:"raw_score,omitempty"`
	// ReviewScore is the external reviewer's score for artifact-backed
	// project evidence; clamped to [0.40, 0.70].
	ReviewScore *float64 `json:"review_score,omitempty"`

	SourceURI string `json:"source_uri,omitempty"`
	RawText   string `json:"raw_text,omitempty"`
}

type SubmitEvidenceResult struct {
	EvidenceID     uuid.UUID `json:"evidence_id"`
	SupportAwarded float64   `json:"support_awarded"`
	OldStatus      string    `json:"old_status"`
	NewStatus      string    `json:"new_status"`
	OldConfidence  float64   `json:"old_confidence"`
	NewConfidence  float64   `json:"new_confidence"`
}

// SubmitEvidence appends to the evidence ledger, runs the transition
// rules for the target skill and re-checks everything downstream of it.
// Each call appends: repeated submissions with the same payload are
// distinct evidence events. Either the whole update applies or nothing
// is written.
func (u Usecases) SubmitEvidence(ctx context.Context, in SubmitEvidenceInput) (*SubmitEvidenceResult, error) {
	if in.UserID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user id required"))
	}
	if in.SkillID == uuid.Nil {
		return nil, apierr.Validation("missing_skill_id", fmt.Errorf("skill id required"))
	}
	if !validEvidenceType(in.EvidenceType) {
		return nil, apierr.Validation("invalid_evidence_type", fmt.Errorf("unknown evidence type %q", in.EvidenceType))
	}

	skill, err := u.deps.Skills.GetByID(dbctx.Context{Ctx: ctx}, in.SkillID)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, apierr.Validation("skill_not_found", fmt.Errorf("skill %s not in catalog", in.SkillID))
	}

	scored, aerr := scoreEvidence(in)
	if aerr != nil {
		return nil, aerr
	}

	var (
		result SubmitEvidenceResult
		events []bus.TransitionEvent
	)
	err = u.inTx(ctx, func(dbc dbctx.Context) error {
		now := u.deps.now()

		ev, err := u.deps.Evidence.Create(dbc, &types.Evidence{
			UserID:       in.UserID,
			EvidenceType: in.EvidenceType,
			SourceURI:    in.SourceURI,
			RawText:      in.RawText,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		if _, err := u.deps.Evidence.CreateLinks(dbc, []*types.EvidenceSkillLink{{
			EvidenceID:  ev.ID,
			SkillID:     in.SkillID,
			Support:     scored.Support,
			ExtractedBy: scored.ExtractedBy,
			Confidence:  scored.ExtractionConfidence,
			CreatedAt:   now,
		}}); err != nil {
			return err
		}

		state, err := u.lockOrCreateState(dbc, in.UserID, in.SkillID)
		if err != nil {
			return err
		}

		oldStatus := state.Status
		oldConfidence := state.Confidence

		applySignal(state, scored.Support, highTrust(in.EvidenceType), now, skill.DecayHalfLifeDays)

		// Persist even when unchanged so updated_at reflects the event.
		if err := u.deps.States.Save(dbc, state); err != nil {
			return err
		}

		if state.Status != oldStatus {
			events = append(events, bus.TransitionEvent{
				UserID:     in.UserID,
				SkillID:    in.SkillID,
				OldStatus:  oldStatus,
				NewStatus:  state.Status,
				Confidence: state.Confidence,
				At:         now,
			})
		}

		promoted, err := u.recomputeFrontier(dbc, in.UserID, in.SkillID, map[uuid.UUID]bool{in.SkillID: true})
		if err != nil {
			return err
		}
		events = append(events, promoted...)

		result = SubmitEvidenceResult{
			EvidenceID:     ev.ID,
			SupportAwarded: scored.Support,
			OldStatus:      oldStatus,
			NewStatus:      state.Status,
			OldConfidence:  oldConfidence,
			NewConfidence:  state.Confidence,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		u.publishTransition(ctx, ev)
	}
	return &result, nil
}

// ListEvidence returns the skill's ledger links for a user, oldest first.
func (u Usecases) ListEvidence(ctx context.Context, userID, skillID uuid.UUID) ([]*types.EvidenceSkillLink, error) {
	if userID == uuid.Nil || skillID == uuid.Nil {
		return nil, apierr.Validation("missing_id", fmt.Errorf("user id and skill id required"))
	}
	return u.deps.Evidence.ListLinksByUserAndSkill(dbctx.Context{Ctx: ctx}, userID, skillID)
}

// lockOrCreateState loads the (user, skill) row under a row lock, lazily
// creating the UNSEEN row on first evidence.
func (u Usecases) lockOrCreateState(dbc dbctx.Context, userID, skillID uuid.UUID) (*types.UserSkillState, error) {
	state, err := u.deps.States.GetForUpdate(dbc, userID, skillID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}
	state = &types.UserSkillState{
		ID:      uuid.New(),
		UserID:  userID,
		SkillID: skillID,
		Status:  types.StatusUnseen,
	}
	if err := u.deps.States.Save(dbc, state); err != nil {
		return nil, err
	}
	// Re-read under the lock: a concurrent submitter may have won the
	// upsert race.
	return u.deps.States.GetForUpdate(dbc, userID, skillID)
}

// applySignal is the single authoritative evidence-transition function.
// It mutates state in place according to the support value and trust
// tier; all status moves go through the lattice so nothing regresses.
func applySignal(state *types.UserSkillState, support float64, trusted bool, now time.Time, halfLifeDays int) {
	if halfLifeDays <= 0 {
		halfLifeDays = 180
	}

	switch {
	case support > 0.70 && trusted:
		target := types.StatusProved
		if state.Status == types.StatusUnseen {
			// High-trust evidence cannot jump straight to PROVED from
			// zero history; at least one prior touch is required.
			target = types.StatusInferred
		}
		state.Status = advanceStatus(state.Status, target)
		state.Confidence = clamp01(maxFloat(state.Confidence, support))
		state.EvidenceScore += support * 10
		evAt := now
		state.LastEvidenceAt = &evAt
		staleAt := now.AddDate(0, 0, halfLifeDays)
		state.StaleAt = &staleAt

	case support >= selfReportedCap:
		// Even a capped self-report is a first touch on the skill.
		state.Status = advanceStatus(state.Status, types.StatusInferred)
		state.Confidence = clamp01(maxFloat(state.Confidence, support*0.7))
		state.EvidenceScore += support * 5
		evAt := now
		state.LastEvidenceAt = &evAt

	default:
		// Low-support evidence stays in the ledger but never moves
		// confidence, in either direction.
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
