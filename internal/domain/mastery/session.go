package mastery

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionProbe = "PROBE"
	SessionBuild = "BUILD"
	SessionProve = "PROVE"
	SessionApply = "APPLY"

	SessionProposed  = "PROPOSED"
	SessionActive    = "ACTIVE"
	SessionCompleted = "COMPLETED"
	SessionExpired   = "EXPIRED"
)

// Session is the controlled evidence-producing unit: at most one
// non-terminal session per user system-wide. Rows are never physically
// deleted; only terminal transitions close them.
type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SkillNodeID uuid.UUID `gorm:"type:uuid;not null;index" json:"skill_node_id"`

	SessionType  string `gorm:"column:session_type;type:text;not null" json:"session_type"`
	SessionState string `gorm:"column:session_state;type:text;not null;default:'PROPOSED';index" json:"session_state"`

	ConfidenceBefore float64  `gorm:"column:confidence_before;not null;default:0" json:"confidence_before"`
	ConfidenceAfter  *float64 `gorm:"column:confidence_after" json:"confidence_after,omitempty"`
	Score            *float64 `gorm:"column:score" json:"score,omitempty"`

	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;not null;index" json:"expires_at"`
}

func (Session) TableName() string { return "session" }

// Open reports whether the session still blocks new proposals.
func (s *Session) Open() bool {
	return s.SessionState == SessionProposed || s.SessionState == SessionActive
}
