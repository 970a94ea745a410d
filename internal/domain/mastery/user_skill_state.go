package mastery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusUnseen   = "UNSEEN"
	StatusInferred = "INFERRED"
	StatusActive   = "ACTIVE"
	StatusProved   = "PROVED"
	StatusStale    = "STALE"
)

// UserSkillState is the mutable per-user, per-skill mastery row. Created
// lazily on first evidence, never deleted. Confidence stays in [0,1];
// status only advances forward through evidence, or regresses exactly one
// step (PROVED->STALE) through decay.
type UserSkillState struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_user_skill_state,unique,priority:1" json:"user_id"`
	SkillID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_skill_state,unique,priority:2" json:"skill_id"`

	Status     string  `gorm:"column:status;type:text;not null;default:'UNSEEN';index" json:"status"`
	Confidence float64 `gorm:"column:confidence;not null;default:0" json:"confidence"` // 0..1

	// EvidenceScore is cumulative and non-decreasing under positive evidence.
	EvidenceScore float64 `gorm:"column:evidence_score;not null;default:0" json:"evidence_score"`

	LastEvidenceAt *time.Time `gorm:"column:last_evidence_at;index" json:"last_evidence_at,omitempty"`
	StaleAt        *time.Time `gorm:"column:stale_at;index" json:"stale_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserSkillState) TableName() string { return "user_skill_state" }
