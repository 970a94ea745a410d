package mastery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/apierr"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
)

const (
	ActionProbe          = "PROBE"
	ActionBuild          = "BUILD"
	ActionCollectSignal  = "COLLECT_SIGNAL"
	probeEstimateMinutes = 15
	buildEstimateMinutes = 45
)

// RecommendedAction is the engine's answer to "what should this user do
// next for this role".
type RecommendedAction struct {
	Type             string    `json:"type"`
	SkillID          uuid.UUID `json:"skill_id,omitempty"`
	Label            string    `json:"label"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Why              string    `json:"why"`
}

// SelectNextAction picks the single highest-value skill to work on and
// the session type to work on it with. The score rewards role demand and
// downstream unlocks, discounts already-confident skills, and discounts
// skills whose prerequisites are still shaky. Ties break on skill id so
// identical inputs always recommend the same skill.
func (u Usecases) SelectNextAction(ctx context.Context, userID, roleID uuid.UUID) (*RecommendedAction, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user id required"))
	}
	dbc := dbctx.Context{Ctx: ctx}

	rows, err := u.GetFrontier(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RecommendedAction{
			Type:             ActionCollectSignal,
			Label:            "Add more evidence",
			EstimatedMinutes: probeEstimateMinutes,
			Why:              "No learnable skills found for this role yet. Submit evidence for skills you already have to build a baseline.",
		}, nil
	}

	skillIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		skillIDs = append(skillIDs, row.SkillID)
	}
	incoming, err := u.deps.Edges.GetByToSkillIDs(dbc, skillIDs)
	if err != nil {
		return nil, err
	}

	sourceIDs := make([]uuid.UUID, 0, len(incoming))
	for _, edge := range incoming {
		sourceIDs = append(sourceIDs, edge.FromSkillID)
	}
	confidence, err := u.confidenceBySkill(dbc, userID, sourceIDs)
	if err != nil {
		return nil, err
	}

	var best *FrontierRow
	var bestScore float64
	for i := range rows {
		row := &rows[i]
		score := row.DemandWeight * row.UnlockPotential * (1 - row.Confidence) * feasibility(row.SkillID, incoming, confidence)
		if best == nil || score > bestScore ||
			(score == bestScore && row.SkillID.String() < best.SkillID.String()) {
			best = row
			bestScore = score
		}
	}

	if best.Confidence < 0.5 {
		return &RecommendedAction{
			Type:             ActionProbe,
			SkillID:          best.SkillID,
			Label:            fmt.Sprintf("Quick check: %s", best.Name),
			EstimatedMinutes: probeEstimateMinutes,
			Why:              fmt.Sprintf("%s matters for this role and your confidence there is low; a short assessment calibrates it fastest.", best.Name),
		}, nil
	}
	return &RecommendedAction{
		Type:             ActionBuild,
		SkillID:          best.SkillID,
		Label:            fmt.Sprintf("Practice: %s", best.Name),
		EstimatedMinutes: buildEstimateMinutes,
		Why:              fmt.Sprintf("You already have signal on %s; a practice exercise pushes it toward proved.", best.Name),
	}, nil
}

// feasibility discounts skills whose prerequisites the user has not
// built up yet. No prerequisites means fully feasible.
func feasibility(skillID uuid.UUID, incoming []*types.PrereqEdge, confidence map[uuid.UUID]float64) float64 {
	var weightedSum, strengthSum float64
	for _, edge := range incoming {
		if edge.ToSkillID != skillID {
			continue
		}
		weightedSum += confidence[edge.FromSkillID] * edge.Strength
		strengthSum += edge.Strength
	}
	if strengthSum == 0 {
		return 1.0
	}
	return weightedSum / strengthSum
}
