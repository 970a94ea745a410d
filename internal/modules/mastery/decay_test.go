package mastery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
)

func TestRunDecaySweepDemotesExpiredProved(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	expired := h.addSkill("jquery", 90)
	fresh := h.addSkill("go", 180)

	past := h.now.Add(-time.Hour)
	future := h.now.Add(24 * time.Hour)
	h.states.Save(dbctx.Context{}, &types.UserSkillState{
		UserID: userID, SkillID: expired.ID,
		Status: types.StatusProved, Confidence: 0.9, StaleAt: &past,
	})
	h.states.Save(dbctx.Context{}, &types.UserSkillState{
		UserID: userID, SkillID: fresh.ID,
		Status: types.StatusProved, Confidence: 0.9, StaleAt: &future,
	})

	n, err := h.uc.RunDecaySweep(context.Background())
	if err != nil {
		t.Fatalf("RunDecaySweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("decayed %d rows, want 1", n)
	}

	got := h.states.mustState(userID, expired.ID)
	if got.Status != types.StatusStale {
		t.Fatalf("status = %s, want STALE", got.Status)
	}
	if !floatsClose(got.Confidence, 0.72) {
		t.Fatalf("confidence = %v, want 0.72", got.Confidence)
	}
	if got.StaleAt != nil {
		t.Fatal("stale deadline should clear after decay")
	}

	untouched := h.states.mustState(userID, fresh.ID)
	if untouched.Status != types.StatusProved || untouched.Confidence != 0.9 {
		t.Fatalf("fresh row changed: %+v", untouched)
	}

	events := h.bus.published()
	if len(events) != 1 || events[0].NewStatus != types.StatusStale {
		t.Fatalf("published events = %+v", events)
	}
}

func TestRunDecaySweepIdempotent(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("php", 90)
	past := h.now.Add(-time.Hour)
	h.states.Save(dbctx.Context{}, &types.UserSkillState{
		UserID: userID, SkillID: skill.ID,
		Status: types.StatusProved, Confidence: 0.8, StaleAt: &past,
	})

	if _, err := h.uc.RunDecaySweep(context.Background()); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	n, err := h.uc.RunDecaySweep(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep decayed %d rows, want 0", n)
	}
	// Confidence discounts once, not once per sweep.
	if got := h.states.mustState(userID, skill.ID).Confidence; !floatsClose(got, 0.64) {
		t.Fatalf("confidence = %v, want 0.64", got)
	}
}

func TestDecayedSkillCanBeReproved(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("ansible", 90)
	past := h.now.Add(-time.Hour)
	h.states.Save(dbctx.Context{}, &types.UserSkillState{
		UserID: userID, SkillID: skill.ID,
		Status: types.StatusProved, Confidence: 0.9, StaleAt: &past,
	})

	if _, err := h.uc.RunDecaySweep(context.Background()); err != nil {
		t.Fatalf("RunDecaySweep: %v", err)
	}

	raw := 0.98
	res, err := h.uc.SubmitEvidence(context.Background(), SubmitEvidenceInput{
		UserID:       userID,
		SkillID:      skill.ID,
		EvidenceType: types.EvidenceQuiz,
		RawScore:     &raw,
	})
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if res.OldStatus != types.StatusStale || res.NewStatus != types.StatusProved {
		t.Fatalf("transition %s -> %s, want STALE -> PROVED", res.OldStatus, res.NewStatus)
	}
}

func TestExpireOverdueSessions(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("gleam", 180)

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}

	// Not yet overdue.
	n, err := h.uc.ExpireOverdueSessions(context.Background())
	if err != nil {
		t.Fatalf("ExpireOverdueSessions: %v", err)
	}
	if n != 0 {
		t.Fatalf("expired %d sessions, want 0", n)
	}

	h.now = h.now.Add(25 * time.Hour)
	n, err = h.uc.ExpireOverdueSessions(context.Background())
	if err != nil {
		t.Fatalf("ExpireOverdueSessions: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d sessions, want 1", n)
	}
	got, _ := h.sessions.GetByID(dbcBackground(), sess.ID)
	if got.SessionState != types.SessionExpired {
		t.Fatalf("session state = %s, want EXPIRED", got.SessionState)
	}
}
