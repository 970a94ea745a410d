package mastery

import (
	"fmt"
	"strings"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/apierr"
)

const (
	extractedByQuizGrader      = "quiz_grader"
	extractedByCertChecker     = "cert_checker"
	extractedByArtifactReview  = "artifact_reviewer"
	extractedBySelfReport      = "self_report_heuristic"
	heuristicExtractConfidence = 0.6
)

// selfReportedCap bounds unverifiable project claims no matter how good
// the narrative reads.
const selfReportedCap = 0.30

// scoredEvidence is the normalized outcome of one evidence submission.
type scoredEvidence struct {
	Support              float64
	ExtractionConfidence float64
	ExtractedBy          string
}

// assessmentSupport maps a raw quiz score to support via a strict
// piecewise-linear curve: mastery-grade support needs a score over 85%,
// and scores under 50% are penalized harshly.
func assessmentSupport(r float64) float64 {
	r = clamp01(r)
	switch {
	case r >= 0.95:
		return 0.85 + (r-0.95)/0.05*0.15
	case r >= 0.85:
		return 0.70 + (r-0.85)/0.10*0.15
	case r >= 0.70:
		return 0.50 + (r-0.70)/0.15*0.20
	case r >= 0.50:
		return 0.30 + (r-0.50)/0.20*0.20
	default:
		return r * 0.6
	}
}

// scoreEvidence turns a raw submission into support plus a confidence in
// the extraction itself. Deterministic scorers get extraction confidence
// 1.0, heuristic ones less.
func scoreEvidence(in SubmitEvidenceInput) (scoredEvidence, *apierr.Error) {
	switch in.EvidenceType {
	case types.EvidenceQuiz:
		if in.RawScore == nil {
			return scoredEvidence{}, apierr.Validation("missing_raw_score", fmt.Errorf("quiz evidence requires a raw score"))
		}
		if *in.RawScore < 0 || *in.RawScore > 1 {
			return scoredEvidence{}, apierr.Validation("raw_score_out_of_range", fmt.Errorf("raw score %v outside [0,1]", *in.RawScore))
		}
		return scoredEvidence{
			Support:              assessmentSupport(*in.RawScore),
			ExtractionConfidence: 1.0,
			ExtractedBy:          extractedByQuizGrader,
		}, nil

	case types.EvidenceCert:
		support := 0.60
		if strings.TrimSpace(in.SourceURI) != "" {
			support = 0.85
		}
		return scoredEvidence{
			Support:              support,
			ExtractionConfidence: 1.0,
			ExtractedBy:          extractedByCertChecker,
		}, nil

	case types.EvidenceProject, types.EvidenceRepo, types.EvidenceWorkSample:
		hasArtifacts := strings.TrimSpace(in.SourceURI) != ""
		if !hasArtifacts {
			return scoredEvidence{
				Support:              selfReportedCap,
				ExtractionConfidence: heuristicExtractConfidence,
				ExtractedBy:          extractedBySelfReport,
			}, nil
		}
		if in.ReviewScore == nil {
			return scoredEvidence{}, apierr.Validation("missing_review_score", fmt.Errorf("artifact evidence requires a reviewer score"))
		}
		return scoredEvidence{
			Support:              clampRange(*in.ReviewScore, 0.40, 0.70),
			ExtractionConfidence: heuristicExtractConfidence,
			ExtractedBy:          extractedByArtifactReview,
		}, nil

	default:
		return scoredEvidence{}, apierr.Validation("invalid_evidence_type", fmt.Errorf("unknown evidence type %q", in.EvidenceType))
	}
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
