package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos/testutil"
	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
)

func TestPrereqEdgeCreateIgnoreDuplicates(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewPrereqEdgeRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	a := testutil.SeedSkill(t, ctx, tx, "edge-a-"+uuid.NewString()[:8])
	b := testutil.SeedSkill(t, ctx, tx, "edge-b-"+uuid.NewString()[:8])

	n, err := repo.CreateIgnoreDuplicates(dbc, []*types.PrereqEdge{{
		FromSkillID: a.ID, ToSkillID: b.ID, EdgeType: types.EdgeHard, Strength: 1.0,
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted %d rows, want 1", n)
	}

	// Same (from, to) pair is a no-op.
	n, err = repo.CreateIgnoreDuplicates(dbc, []*types.PrereqEdge{{
		FromSkillID: a.ID, ToSkillID: b.ID, EdgeType: types.EdgeSoft, Strength: 0.5,
	}})
	if err != nil {
		t.Fatalf("duplicate create: %v", err)
	}
	if n != 0 {
		t.Fatalf("duplicate inserted %d rows, want 0", n)
	}

	edges, err := repo.GetByToSkillIDs(dbc, []uuid.UUID{b.ID})
	if err != nil {
		t.Fatalf("get by to: %v", err)
	}
	if len(edges) != 1 || edges[0].EdgeType != types.EdgeHard {
		t.Fatalf("edges = %+v, want the original HARD edge only", edges)
	}
}

func TestPrereqEdgeLookupDirections(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewPrereqEdgeRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	a := testutil.SeedSkill(t, ctx, tx, "dir-a-"+uuid.NewString()[:8])
	b := testutil.SeedSkill(t, ctx, tx, "dir-b-"+uuid.NewString()[:8])
	c := testutil.SeedSkill(t, ctx, tx, "dir-c-"+uuid.NewString()[:8])
	testutil.SeedEdge(t, ctx, tx, a.ID, b.ID, types.EdgeSoft, 0.8)
	testutil.SeedEdge(t, ctx, tx, a.ID, c.ID, types.EdgeSoft, 0.6)
	testutil.SeedEdge(t, ctx, tx, b.ID, c.ID, types.EdgeHard, 1.0)

	downstream, err := repo.GetByFromSkillIDs(dbc, []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("get by from: %v", err)
	}
	if len(downstream) != 2 {
		t.Fatalf("downstream of a = %d edges, want 2", len(downstream))
	}

	incoming, err := repo.GetByToSkillIDs(dbc, []uuid.UUID{c.ID})
	if err != nil {
		t.Fatalf("get by to: %v", err)
	}
	if len(incoming) != 2 {
		t.Fatalf("incoming to c = %d edges, want 2", len(incoming))
	}
}
