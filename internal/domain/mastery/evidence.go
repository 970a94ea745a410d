package mastery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EvidenceQuiz       = "QUIZ"
	EvidenceProject    = "PROJECT"
	EvidenceRepo       = "REPO"
	EvidenceCert       = "CERT"
	EvidenceWorkSample = "WORK_SAMPLE"
)

// Evidence is an append-only ledger row; immutable once written.
type Evidence struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	EvidenceType string `gorm:"column:evidence_type;type:text;not null;index" json:"evidence_type"`
	SourceURI    string `gorm:"column:source_uri;type:text" json:"source_uri,omitempty"`
	RawText      string `gorm:"column:raw_text;type:text" json:"raw_text,omitempty"`

	Payload datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Evidence) TableName() string { return "evidence" }

// EvidenceSkillLink fans one evidence row out to the skills it supports.
// Confidence rates the extraction itself, not the skill: deterministic
// scorers write 1.0, heuristic extractors less.
type EvidenceSkillLink struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EvidenceID uuid.UUID `gorm:"type:uuid;not null;index" json:"evidence_id"`
	SkillID    uuid.UUID `gorm:"type:uuid;not null;index" json:"skill_id"`

	Support     float64 `gorm:"column:support;not null;default:0" json:"support"` // 0..1
	ExtractedBy string  `gorm:"column:extracted_by;type:text;not null" json:"extracted_by"`
	Confidence  float64 `gorm:"column:confidence;not null;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (EvidenceSkillLink) TableName() string { return "evidence_skill_link" }
