package mastery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/apierr"
)

func TestProposeSessionTypeFollowsConfidence(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	low := h.addSkill("elixir", 180)
	h.setState(userID, low.ID, types.StatusActive, 0.2)

	sess, err := h.uc.ProposeSession(context.Background(), userID, low.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}
	if sess.SessionType != types.SessionProbe {
		t.Fatalf("session type = %s, want PROBE", sess.SessionType)
	}
	if sess.SessionState != types.SessionProposed {
		t.Fatalf("session state = %s, want PROPOSED", sess.SessionState)
	}
	if sess.ConfidenceBefore != 0.2 {
		t.Fatalf("confidence before = %v, want 0.2", sess.ConfidenceBefore)
	}
	if !sess.ExpiresAt.Equal(h.now.Add(24 * time.Hour)) {
		t.Fatalf("expires at = %v, want now+24h", sess.ExpiresAt)
	}
}

func TestProposeSessionExclusivity(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	x := h.addSkill("x", 180)
	y := h.addSkill("y", 180)

	first, err := h.uc.ProposeSession(context.Background(), userID, x.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}

	// Same skill returns the same open session.
	again, err := h.uc.ProposeSession(context.Background(), userID, x.ID)
	if err != nil {
		t.Fatalf("re-propose same skill: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("re-propose returned %s, want existing %s", again.ID, first.ID)
	}

	// Different skill conflicts.
	_, err = h.uc.ProposeSession(context.Background(), userID, y.ID)
	if err == nil {
		t.Fatal("expected conflict proposing a second skill")
	}
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("status = %d, want 409", apierr.StatusOf(err))
	}

	// A different user is unaffected.
	if _, err := h.uc.ProposeSession(context.Background(), uuid.New(), y.ID); err != nil {
		t.Fatalf("other user propose: %v", err)
	}
}

func TestProposeSessionAfterExpiry(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	x := h.addSkill("x", 180)
	y := h.addSkill("y", 180)

	first, err := h.uc.ProposeSession(context.Background(), userID, x.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}

	h.now = h.now.Add(25 * time.Hour)
	second, err := h.uc.ProposeSession(context.Background(), userID, y.ID)
	if err != nil {
		t.Fatalf("propose after expiry: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expired session should not be reused")
	}
	stale, _ := h.sessions.GetByID(dbcBackground(), first.ID)
	if stale.SessionState != types.SessionExpired {
		t.Fatalf("old session state = %s, want EXPIRED", stale.SessionState)
	}
}

func TestStartSessionLifecycle(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("scala", 180)

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}

	started, err := h.uc.StartSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if started.SessionState != types.SessionActive || started.StartedAt == nil {
		t.Fatalf("started session = %+v", started)
	}

	// Idempotent retry.
	if _, err := h.uc.StartSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("retry StartSession: %v", err)
	}
}

func TestStartSessionErrors(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("haskell", 180)

	if _, err := h.uc.StartSession(context.Background(), uuid.New()); apierr.StatusOf(err) != 404 {
		t.Fatalf("unknown session status = %d, want 404", apierr.StatusOf(err))
	}

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}
	h.now = h.now.Add(25 * time.Hour)
	if _, err := h.uc.StartSession(context.Background(), sess.ID); apierr.StatusOf(err) != 409 {
		t.Fatalf("expired start status = %d, want 409", apierr.StatusOf(err))
	}
}

func TestCompleteSessionBuildOutcome(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("react", 180)
	h.setState(userID, skill.ID, types.StatusInferred, 0.4)

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}
	// Confidence 0.4 would probe; force a BUILD to exercise its weight.
	h.sessions.mu.Lock()
	h.sessions.sessions[sess.ID].SessionType = types.SessionBuild
	h.sessions.mu.Unlock()

	if _, err := h.uc.StartSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	done, err := h.uc.CompleteSession(context.Background(), sess.ID, 0.65)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if done.SessionState != types.SessionCompleted || done.CompletedAt == nil {
		t.Fatalf("completed session = %+v", done)
	}
	if done.ConfidenceAfter == nil || !floatsClose(*done.ConfidenceAfter, 0.475) {
		t.Fatalf("confidence after = %v, want 0.475", done.ConfidenceAfter)
	}

	// Score cleared 0.6 but confidence is still under 0.5, so the skill
	// stays INFERRED.
	state := h.states.mustState(userID, skill.ID)
	if state.Status != types.StatusInferred {
		t.Fatalf("status = %s, want INFERRED", state.Status)
	}
	if !floatsClose(state.Confidence, 0.475) {
		t.Fatalf("confidence = %v, want 0.475", state.Confidence)
	}
}

func TestCompleteSessionCanLowerConfidence(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("vue", 180)
	h.setState(userID, skill.ID, types.StatusActive, 0.8)

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}
	if _, err := h.uc.StartSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	done, err := h.uc.CompleteSession(context.Background(), sess.ID, 0.1)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	state := h.states.mustState(userID, skill.ID)
	if state.Confidence >= 0.8 {
		t.Fatalf("bad session outcome should lower confidence, got %v", state.Confidence)
	}
	// Status never regresses even when confidence drops.
	if state.Status != types.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", state.Status)
	}
	if done.Score == nil || *done.Score != 0.1 {
		t.Fatalf("recorded score = %v, want 0.1", done.Score)
	}
}

func TestCompleteSessionHighScoreProves(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("go-testing", 120)
	h.setState(userID, skill.ID, types.StatusActive, 0.7)

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}
	if _, err := h.uc.StartSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// BUILD weight 0.3: 0.7 + 0.3*(0.95-0.7) = 0.775.
	if _, err := h.uc.CompleteSession(context.Background(), sess.ID, 0.95); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	state := h.states.mustState(userID, skill.ID)
	if state.Status != types.StatusProved {
		t.Fatalf("status = %s, want PROVED", state.Status)
	}
	if state.StaleAt == nil || !state.StaleAt.Equal(h.now.AddDate(0, 0, 120)) {
		t.Fatalf("stale deadline = %v, want now+120d", state.StaleAt)
	}
}

func TestCompleteSessionGuards(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	skill := h.addSkill("swift", 180)

	sess, err := h.uc.ProposeSession(context.Background(), userID, skill.ID)
	if err != nil {
		t.Fatalf("ProposeSession: %v", err)
	}

	// Completing a PROPOSED session conflicts.
	if _, err := h.uc.CompleteSession(context.Background(), sess.ID, 0.9); apierr.StatusOf(err) != 409 {
		t.Fatalf("complete proposed status = %d, want 409", apierr.StatusOf(err))
	}

	// Out-of-range score rejected before any lookup.
	if _, err := h.uc.CompleteSession(context.Background(), sess.ID, 1.5); apierr.StatusOf(err) != 400 {
		t.Fatalf("bad score status = %d, want 400", apierr.StatusOf(err))
	}

	if _, err := h.uc.StartSession(context.Background(), sess.ID); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := h.uc.CompleteSession(context.Background(), sess.ID, 0.9); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	// Double completion conflicts.
	if _, err := h.uc.CompleteSession(context.Background(), sess.ID, 0.9); apierr.StatusOf(err) != 409 {
		t.Fatalf("double complete status = %d, want 409", apierr.StatusOf(err))
	}
}
