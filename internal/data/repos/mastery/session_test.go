package mastery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos/testutil"
	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
)

func TestGetOpenByUserFindsProposedAndActive(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSessionRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("session"))
	s := testutil.SeedSkill(t, ctx, tx, "session-"+uuid.NewString()[:8])

	open, err := repo.GetOpenByUserForUpdate(dbc, u.ID)
	if err != nil {
		t.Fatalf("open lookup: %v", err)
	}
	if open != nil {
		t.Fatalf("expected no open session, got %+v", open)
	}

	sess := testutil.SeedSession(t, ctx, tx, u.ID, s.ID, types.SessionProposed)
	open, err = repo.GetOpenByUserForUpdate(dbc, u.ID)
	if err != nil {
		t.Fatalf("open lookup: %v", err)
	}
	if open == nil || open.ID != sess.ID {
		t.Fatalf("open session lookup = %+v, want %s", open, sess.ID)
	}

	if err := repo.UpdateFields(dbc, sess.ID, map[string]interface{}{
		"session_state": types.SessionActive,
		"started_at":    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	open, err = repo.GetOpenByUserForUpdate(dbc, u.ID)
	if err != nil {
		t.Fatalf("open lookup: %v", err)
	}
	if open == nil || open.SessionState != types.SessionActive {
		t.Fatalf("ACTIVE session should still count as open, got %+v", open)
	}

	if err := repo.UpdateFields(dbc, sess.ID, map[string]interface{}{
		"session_state": types.SessionCompleted,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	open, err = repo.GetOpenByUserForUpdate(dbc, u.ID)
	if err != nil {
		t.Fatalf("open lookup: %v", err)
	}
	if open != nil {
		t.Fatalf("terminal session should not be open, got %+v", open)
	}
}

func TestListExpiredOpen(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSessionRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("expiry"))
	s := testutil.SeedSkill(t, ctx, tx, "expiry-"+uuid.NewString()[:8])

	overdue := testutil.SeedSession(t, ctx, tx, u.ID, s.ID, types.SessionProposed)
	if err := tx.Model(overdue).Update("expires_at", time.Now().Add(-time.Hour).UTC()).Error; err != nil {
		t.Fatalf("set expires_at: %v", err)
	}

	rows, err := repo.ListExpiredOpen(dbc, time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	found := false
	for _, row := range rows {
		if row.ID == overdue.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("overdue open session not listed")
	}
}
