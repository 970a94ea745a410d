package mastery

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/apierr"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
)

const (
	// hardGateConfidence is the confidence every HARD prerequisite must
	// reach before a downstream skill can unlock.
	hardGateConfidence = 0.90
	// readinessThreshold is the weighted-average confidence across all
	// prerequisites needed to promote INFERRED to ACTIVE.
	readinessThreshold = 0.65
)

// FrontierRow is one skill in the user's frontier view for a role.
type FrontierRow struct {
	SkillID         uuid.UUID `json:"skill_id"`
	Name            string    `json:"name"`
	Status          string    `json:"status"`
	Confidence      float64   `json:"confidence"`
	DemandWeight    float64   `json:"demand_weight"`
	UnlockPotential float64   `json:"unlock_potential"`
}

// recomputeFrontier walks the skills downstream of changedSkillID and
// promotes any INFERRED skill whose prerequisites now clear both the
// hard gate and the readiness threshold. Promotions cascade; visited
// keeps the walk terminating on cyclic edge data.
func (u Usecases) recomputeFrontier(dbc dbctx.Context, userID, changedSkillID uuid.UUID, visited map[uuid.UUID]bool) ([]bus.TransitionEvent, error) {
	outgoing, err := u.deps.Edges.GetByFromSkillIDs(dbc, []uuid.UUID{changedSkillID})
	if err != nil {
		return nil, err
	}
	if len(outgoing) == 0 {
		return nil, nil
	}

	var events []bus.TransitionEvent
	for _, edge := range outgoing {
		if visited[edge.ToSkillID] {
			continue
		}

		state, err := u.deps.States.GetForUpdate(dbc, userID, edge.ToSkillID)
		if err != nil {
			return nil, err
		}
		// Only INFERRED skills sit on the promotion boundary. UNSEEN
		// skills have no signal yet; everything above ACTIVE already
		// unlocked.
		if state == nil || state.Status != types.StatusInferred {
			continue
		}

		ready, err := u.prereqsSatisfied(dbc, userID, edge.ToSkillID)
		if err != nil {
			return nil, err
		}
		if !ready {
			continue
		}

		oldStatus := state.Status
		state.Status = advanceStatus(state.Status, types.StatusActive)
		if state.Status == oldStatus {
			continue
		}
		if err := u.deps.States.Save(dbc, state); err != nil {
			return nil, err
		}
		events = append(events, bus.TransitionEvent{
			UserID:     userID,
			SkillID:    edge.ToSkillID,
			OldStatus:  oldStatus,
			NewStatus:  state.Status,
			Confidence: state.Confidence,
			At:         u.deps.now(),
		})

		visited[edge.ToSkillID] = true
		cascaded, err := u.recomputeFrontier(dbc, userID, edge.ToSkillID, visited)
		if err != nil {
			return nil, err
		}
		events = append(events, cascaded...)
	}
	return events, nil
}

// prereqsSatisfied evaluates the unlock condition for one skill: every
// HARD prerequisite at or above the hard gate, and the strength-weighted
// average confidence across all prerequisites at or above the readiness
// threshold. A skill with no incoming edges is always satisfied.
func (u Usecases) prereqsSatisfied(dbc dbctx.Context, userID, skillID uuid.UUID) (bool, error) {
	incoming, err := u.deps.Edges.GetByToSkillIDs(dbc, []uuid.UUID{skillID})
	if err != nil {
		return false, err
	}
	if len(incoming) == 0 {
		return true, nil
	}

	sourceIDs := make([]uuid.UUID, 0, len(incoming))
	for _, edge := range incoming {
		sourceIDs = append(sourceIDs, edge.FromSkillID)
	}
	confidence, err := u.confidenceBySkill(dbc, userID, sourceIDs)
	if err != nil {
		return false, err
	}

	var weightedSum, strengthSum float64
	for _, edge := range incoming {
		conf := confidence[edge.FromSkillID]
		if edge.EdgeType == types.EdgeHard && conf < hardGateConfidence {
			return false, nil
		}
		weightedSum += conf * edge.Strength
		strengthSum += edge.Strength
	}
	if strengthSum == 0 {
		return true, nil
	}
	return weightedSum/strengthSum >= readinessThreshold, nil
}

// confidenceBySkill maps skill id to the user's confidence; skills with
// no state row count as zero.
func (u Usecases) confidenceBySkill(dbc dbctx.Context, userID uuid.UUID, skillIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	states, err := u.deps.States.ListByUserAndSkillIDs(dbc, userID, skillIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]float64, len(states))
	for _, s := range states {
		out[s.SkillID] = s.Confidence
	}
	return out, nil
}

// GetFrontier returns the user's learnable boundary for a role: every
// role skill that is ACTIVE, INFERRED, or UNSEEN with meaningful demand
// weight, annotated with what proving it would unlock.
func (u Usecases) GetFrontier(ctx context.Context, userID, roleID uuid.UUID) ([]FrontierRow, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user id required"))
	}
	dbc := dbctx.Context{Ctx: ctx}

	role, err := u.deps.Roles.GetByID(dbc, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apierr.NotFound("role_not_found", fmt.Errorf("role %s does not exist", roleID))
	}

	roleSkills, err := u.deps.RoleSkills.GetByRoleID(dbc, roleID)
	if err != nil {
		return nil, err
	}
	if len(roleSkills) == 0 {
		return []FrontierRow{}, nil
	}

	skillIDs := make([]uuid.UUID, 0, len(roleSkills))
	weightBySkill := make(map[uuid.UUID]float64, len(roleSkills))
	for _, rs := range roleSkills {
		skillIDs = append(skillIDs, rs.SkillID)
		weightBySkill[rs.SkillID] = rs.Weight
	}

	skills, err := u.deps.Skills.GetByIDs(dbc, skillIDs)
	if err != nil {
		return nil, err
	}
	nameBySkill := make(map[uuid.UUID]string, len(skills))
	for _, s := range skills {
		nameBySkill[s.ID] = s.CanonicalName
	}

	states, err := u.deps.States.ListByUserAndSkillIDs(dbc, userID, skillIDs)
	if err != nil {
		return nil, err
	}
	stateBySkill := make(map[uuid.UUID]*types.UserSkillState, len(states))
	for _, s := range states {
		stateBySkill[s.SkillID] = s
	}

	outgoing, err := u.deps.Edges.GetByFromSkillIDs(dbc, skillIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]FrontierRow, 0, len(skillIDs))
	for _, skillID := range skillIDs {
		status := types.StatusUnseen
		confidence := 0.0
		if st := stateBySkill[skillID]; st != nil {
			status = st.Status
			confidence = st.Confidence
		}
		if !frontierCandidate(status, weightBySkill[skillID]) {
			continue
		}
		rows = append(rows, FrontierRow{
			SkillID:         skillID,
			Name:            nameBySkill[skillID],
			Status:          status,
			Confidence:      confidence,
			DemandWeight:    weightBySkill[skillID],
			UnlockPotential: unlockPotential(skillID, outgoing, weightBySkill),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DemandWeight != rows[j].DemandWeight {
			return rows[i].DemandWeight > rows[j].DemandWeight
		}
		return rows[i].SkillID.String() < rows[j].SkillID.String()
	})
	return rows, nil
}

// frontierCandidate filters the role's skills down to the learnable
// boundary. UNSEEN skills only qualify when the role actually demands
// them.
func frontierCandidate(status string, demandWeight float64) bool {
	switch status {
	case types.StatusActive, types.StatusInferred:
		return true
	case types.StatusUnseen:
		return demandWeight > 0.15
	default:
		return false
	}
}

// unlockPotential estimates how much downstream role value proving a
// skill releases. Leaf skills score a flat 1.0; otherwise the edge
// strengths are weighted by the role's demand for each unlocked skill,
// scaled and capped at 10.
func unlockPotential(skillID uuid.UUID, outgoing []*types.PrereqEdge, weightBySkill map[uuid.UUID]float64) float64 {
	var sum float64
	var hasEdges bool
	for _, edge := range outgoing {
		if edge.FromSkillID != skillID {
			continue
		}
		hasEdges = true
		sum += edge.Strength * weightBySkill[edge.ToSkillID]
	}
	if !hasEdges {
		return 1.0
	}
	potential := 5 * sum
	if potential > 10 {
		return 10
	}
	return potential
}
