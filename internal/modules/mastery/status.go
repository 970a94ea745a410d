package mastery

import (
	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
)

// statusRank is the single ordering of skill statuses. Every transition
// in the engine goes through CanAdvance; nothing else compares statuses.
// STALE ranks above ACTIVE so a decayed skill can be re-proved but never
// silently demoted further by new evidence.
var statusRank = map[string]int{
	types.StatusUnseen:   0,
	types.StatusInferred: 1,
	types.StatusActive:   2,
	types.StatusStale:    3,
	types.StatusProved:   4,
}

// CanAdvance reports whether moving from -> to is a forward move.
func CanAdvance(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// advanceStatus applies target only when it is a forward move and
// returns the resulting status. Backward targets leave status untouched;
// decay is the sole sanctioned regression and bypasses this path.
func advanceStatus(current, target string) string {
	if CanAdvance(current, target) {
		return target
	}
	return current
}

// highTrust classifies the evidence source tier: deterministic grading
// (quiz, certificate) versus self-reported or heuristic extraction.
func highTrust(evidenceType string) bool {
	switch evidenceType {
	case types.EvidenceQuiz, types.EvidenceCert:
		return true
	default:
		return false
	}
}

func validEvidenceType(evidenceType string) bool {
	switch evidenceType {
	case types.EvidenceQuiz, types.EvidenceProject, types.EvidenceRepo,
		types.EvidenceCert, types.EvidenceWorkSample:
		return true
	default:
		return false
	}
}
