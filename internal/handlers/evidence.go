package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/modules/mastery"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/ctxutil"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type EvidenceHandler struct {
	log *logger.Logger
	uc  mastery.Usecases
}

func NewEvidenceHandler(log *logger.Logger, uc mastery.Usecases) *EvidenceHandler {
	return &EvidenceHandler{
		log: log.With("handler", "EvidenceHandler"),
		uc:  uc,
	}
}

type submitEvidenceRequest struct {
	SkillID      uuid.UUID `json:"skill_id"`
	EvidenceType string    `json:"evidence_type"`
	RawScore     *float64  `json:"raw_score,omitempty"`
	ReviewScore  *float64  `json:"review_score,omitempty"`
	SourceURI    string    `json:"source_uri,omitempty"`
	RawText      string    `json:"raw_text,omitempty"`
}

// POST /api/evidence
// Records one evidence event for the caller and runs the transition
// engine on the target skill.
func (h *EvidenceHandler) Submit(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	var req submitEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.uc.SubmitEvidence(c.Request.Context(), mastery.SubmitEvidenceInput{
		UserID:       rd.UserID,
		SkillID:      req.SkillID,
		EvidenceType: req.EvidenceType,
		RawScore:     req.RawScore,
		ReviewScore:  req.ReviewScore,
		SourceURI:    req.SourceURI,
		RawText:      req.RawText,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, res)
}

// GET /api/skills/:skillId/evidence
// The caller's evidence ledger for one skill, oldest first.
func (h *EvidenceHandler) ListForSkill(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	skillID, err := uuid.Parse(c.Param("skillId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_skill_id", err)
		return
	}
	links, err := h.uc.ListEvidence(c.Request.Context(), rd.UserID, skillID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"evidence": links})
}
