package domain

import (
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/domain/catalog"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/domain/mastery"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/domain/user"
)

const (
	EdgeHard = catalog.EdgeHard
	EdgeSoft = catalog.EdgeSoft

	StatusUnseen   = mastery.StatusUnseen
	StatusInferred = mastery.StatusInferred
	StatusActive   = mastery.StatusActive
	StatusProved   = mastery.StatusProved
	StatusStale    = mastery.StatusStale

	EvidenceQuiz       = mastery.EvidenceQuiz
	EvidenceProject    = mastery.EvidenceProject
	EvidenceRepo       = mastery.EvidenceRepo
	EvidenceCert       = mastery.EvidenceCert
	EvidenceWorkSample = mastery.EvidenceWorkSample

	SessionProbe = mastery.SessionProbe
	SessionBuild = mastery.SessionBuild
	SessionProve = mastery.SessionProve
	SessionApply = mastery.SessionApply

	SessionProposed  = mastery.SessionProposed
	SessionActive    = mastery.SessionActive
	SessionCompleted = mastery.SessionCompleted
	SessionExpired   = mastery.SessionExpired
)

type User = user.User

type SkillNode = catalog.SkillNode
type PrereqEdge = catalog.PrereqEdge
type Role = catalog.Role
type RoleSkill = catalog.RoleSkill

type UserSkillState = mastery.UserSkillState
type Evidence = mastery.Evidence
type EvidenceSkillLink = mastery.EvidenceSkillLink
type Session = mastery.Session
