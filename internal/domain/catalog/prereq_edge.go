package catalog

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EdgeHard gates: every hard prerequisite must be nearly satisfied.
	EdgeHard = "HARD"
	// EdgeSoft blends into the strength-weighted average.
	EdgeSoft = "SOFT"
)

// PrereqEdge is a directed prerequisite edge from_skill -> to_skill.
type PrereqEdge struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FromSkillID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_prereq_edge_pair,priority:1" json:"from_skill_id"`
	ToSkillID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_prereq_edge_pair,priority:2" json:"to_skill_id"`

	EdgeType string  `gorm:"column:edge_type;type:text;not null" json:"edge_type"`
	Strength float64 `gorm:"column:strength;not null;default:1" json:"strength"` // 0..1

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PrereqEdge) TableName() string { return "prereq_edge" }
