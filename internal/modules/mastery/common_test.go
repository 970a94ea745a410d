package mastery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
)

// In-memory repo fakes. The engine's rules are pure read-modify-write
// over the repo interfaces, so the whole decision surface is testable
// without a database.

type fakeSkillRepo struct {
	mu     sync.Mutex
	skills map[uuid.UUID]*types.SkillNode
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: map[uuid.UUID]*types.SkillNode{}}
}

func (f *fakeSkillRepo) Create(dbc dbctx.Context, rows []*types.SkillNode) ([]*types.SkillNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.skills[row.ID] = row
	}
	return rows, nil
}

func (f *fakeSkillRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SkillNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skills[id], nil
}

func (f *fakeSkillRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SkillNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.SkillNode{}
	for _, id := range ids {
		if s, ok := f.skills[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSkillRepo) GetByCanonicalName(dbc dbctx.Context, name string) (*types.SkillNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.skills {
		if s.CanonicalName == name {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSkillRepo) ListAll(dbc dbctx.Context) ([]*types.SkillNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.SkillNode{}
	for _, s := range f.skills {
		out = append(out, s)
	}
	return out, nil
}

type fakeEdgeRepo struct {
	mu    sync.Mutex
	edges []*types.PrereqEdge
}

func (f *fakeEdgeRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.PrereqEdge) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.edges = append(f.edges, row)
	}
	return len(rows), nil
}

func (f *fakeEdgeRepo) GetByFromSkillIDs(dbc dbctx.Context, fromIDs []uuid.UUID) ([]*types.PrereqEdge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range fromIDs {
		want[id] = true
	}
	out := []*types.PrereqEdge{}
	for _, e := range f.edges {
		if want[e.FromSkillID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEdgeRepo) GetByToSkillIDs(dbc dbctx.Context, toIDs []uuid.UUID) ([]*types.PrereqEdge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range toIDs {
		want[id] = true
	}
	out := []*types.PrereqEdge{}
	for _, e := range f.edges {
		if want[e.ToSkillID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEdgeRepo) ListAll(dbc dbctx.Context) ([]*types.PrereqEdge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.PrereqEdge{}, f.edges...), nil
}

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[uuid.UUID]*types.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[uuid.UUID]*types.Role{}}
}

func (f *fakeRoleRepo) Create(dbc dbctx.Context, row *types.Role) (*types.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.roles[row.ID] = row
	return row, nil
}

func (f *fakeRoleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[id], nil
}

func (f *fakeRoleRepo) GetByName(dbc dbctx.Context, name string) (*types.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

type fakeRoleSkillRepo struct {
	mu   sync.Mutex
	rows []*types.RoleSkill
}

func (f *fakeRoleSkillRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.RoleSkill) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.rows = append(f.rows, row)
	}
	return len(rows), nil
}

func (f *fakeRoleSkillRepo) GetByRoleID(dbc dbctx.Context, roleID uuid.UUID) ([]*types.RoleSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.RoleSkill{}
	for _, r := range f.rows {
		if r.RoleID == roleID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stateKey struct {
	user  uuid.UUID
	skill uuid.UUID
}

type fakeStateRepo struct {
	mu     sync.Mutex
	states map[stateKey]*types.UserSkillState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: map[stateKey]*types.UserSkillState{}}
}

func (f *fakeStateRepo) Get(dbc dbctx.Context, userID, skillID uuid.UUID) (*types.UserSkillState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.states[stateKey{userID, skillID}]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStateRepo) GetForUpdate(dbc dbctx.Context, userID, skillID uuid.UUID) (*types.UserSkillState, error) {
	return f.Get(dbc, userID, skillID)
}

func (f *fakeStateRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSkillState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.UserSkillState{}
	for k, s := range f.states {
		if k.user == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStateRepo) ListByUserAndSkillIDs(dbc dbctx.Context, userID uuid.UUID, skillIDs []uuid.UUID) ([]*types.UserSkillState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.UserSkillState{}
	for _, skillID := range skillIDs {
		if s, ok := f.states[stateKey{userID, skillID}]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStateRepo) Save(dbc dbctx.Context, row *types.UserSkillState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	cp := *row
	f.states[stateKey{row.UserID, row.SkillID}] = &cp
	return nil
}

func (f *fakeStateRepo) ClaimExpiredProved(dbc dbctx.Context, now time.Time, limit int) ([]*types.UserSkillState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.UserSkillState{}
	for _, s := range f.states {
		if len(out) >= limit {
			break
		}
		if s.Status == types.StatusProved && s.StaleAt != nil && s.StaleAt.Before(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// mustState reads a state row directly, for assertions.
func (f *fakeStateRepo) mustState(userID, skillID uuid.UUID) *types.UserSkillState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[stateKey{userID, skillID}]
}

type fakeEvidenceRepo struct {
	mu       sync.Mutex
	evidence []*types.Evidence
	links    []*types.EvidenceSkillLink
	byOwner  map[uuid.UUID]uuid.UUID
}

func newFakeEvidenceRepo() *fakeEvidenceRepo {
	return &fakeEvidenceRepo{byOwner: map[uuid.UUID]uuid.UUID{}}
}

func (f *fakeEvidenceRepo) Create(dbc dbctx.Context, row *types.Evidence) (*types.Evidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.evidence = append(f.evidence, row)
	f.byOwner[row.ID] = row.UserID
	return row, nil
}

func (f *fakeEvidenceRepo) CreateLinks(dbc dbctx.Context, rows []*types.EvidenceSkillLink) ([]*types.EvidenceSkillLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.links = append(f.links, row)
	}
	return rows, nil
}

func (f *fakeEvidenceRepo) ListLinksByUserAndSkill(dbc dbctx.Context, userID, skillID uuid.UUID) ([]*types.EvidenceSkillLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.EvidenceSkillLink{}
	for _, l := range f.links {
		if l.SkillID == skillID && f.byOwner[l.EvidenceID] == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*types.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*types.Session{}}
}

func (f *fakeSessionRepo) Create(dbc dbctx.Context, row *types.Session) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	cp := *row
	f.sessions[row.ID] = &cp
	return row, nil
}

func (f *fakeSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSessionRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	return f.GetByID(dbc, id)
}

func (f *fakeSessionRepo) GetOpenByUserForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.UserID == userID && s.Open() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "session_state":
			s.SessionState = v.(string)
		case "started_at":
			t := v.(time.Time)
			s.StartedAt = &t
		case "completed_at":
			t := v.(time.Time)
			s.CompletedAt = &t
		case "score":
			sc := v.(float64)
			s.Score = &sc
		case "confidence_after":
			ca := v.(float64)
			s.ConfidenceAfter = &ca
		}
	}
	return nil
}

func (f *fakeSessionRepo) ListExpiredOpen(dbc dbctx.Context, now time.Time, limit int) ([]*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*types.Session{}
	for _, s := range f.sessions {
		if len(out) >= limit {
			break
		}
		if s.Open() && s.ExpiresAt.Before(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBus struct {
	mu     sync.Mutex
	events []bus.TransitionEvent
}

func (f *fakeBus) PublishTransition(ctx context.Context, ev bus.TransitionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeBus) Close() error { return nil }

func (f *fakeBus) published() []bus.TransitionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bus.TransitionEvent{}, f.events...)
}

// harness bundles the fakes behind a ready Usecases value.
type harness struct {
	uc       Usecases
	skills   *fakeSkillRepo
	edges    *fakeEdgeRepo
	roles    *fakeRoleRepo
	roleSk   *fakeRoleSkillRepo
	states   *fakeStateRepo
	evidence *fakeEvidenceRepo
	sessions *fakeSessionRepo
	bus      *fakeBus
	now      time.Time
}

func newHarness() *harness {
	h := &harness{
		skills:   newFakeSkillRepo(),
		edges:    &fakeEdgeRepo{},
		roles:    newFakeRoleRepo(),
		roleSk:   &fakeRoleSkillRepo{},
		states:   newFakeStateRepo(),
		evidence: newFakeEvidenceRepo(),
		sessions: newFakeSessionRepo(),
		bus:      &fakeBus{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.uc = NewUsecases(UsecasesDeps{
		Bus:        h.bus,
		Skills:     h.skills,
		Edges:      h.edges,
		Roles:      h.roles,
		RoleSkills: h.roleSk,
		States:     h.states,
		Evidence:   h.evidence,
		Sessions:   h.sessions,
		now:        func() time.Time { return h.now },
	})
	return h
}

func (h *harness) addSkill(name string, halfLife int) *types.SkillNode {
	s := &types.SkillNode{ID: uuid.New(), CanonicalName: name, Difficulty: 5, DecayHalfLifeDays: halfLife}
	h.skills.Create(dbctx.Context{}, []*types.SkillNode{s})
	return s
}

func (h *harness) addEdge(from, to uuid.UUID, edgeType string, strength float64) {
	h.edges.CreateIgnoreDuplicates(dbctx.Context{}, []*types.PrereqEdge{{
		FromSkillID: from, ToSkillID: to, EdgeType: edgeType, Strength: strength,
	}})
}

func (h *harness) addRole(name string) *types.Role {
	r := &types.Role{ID: uuid.New(), Name: name}
	h.roles.Create(dbctx.Context{}, r)
	return r
}

func (h *harness) addRoleSkill(roleID, skillID uuid.UUID, weight float64) {
	h.roleSk.CreateIgnoreDuplicates(dbctx.Context{}, []*types.RoleSkill{{
		RoleID: roleID, SkillID: skillID, Weight: weight,
	}})
}

func (h *harness) setState(userID, skillID uuid.UUID, status string, confidence float64) {
	h.states.Save(dbctx.Context{}, &types.UserSkillState{
		UserID: userID, SkillID: skillID, Status: status, Confidence: confidence,
	})
}

func dbcBackground() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func floatsClose(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
