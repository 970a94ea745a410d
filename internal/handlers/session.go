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

type SessionHandler struct {
	log *logger.Logger
	uc  mastery.Usecases
}

func NewSessionHandler(log *logger.Logger, uc mastery.Usecases) *SessionHandler {
	return &SessionHandler{
		log: log.With("handler", "SessionHandler"),
		uc:  uc,
	}
}

type proposeSessionRequest struct {
	SkillID uuid.UUID `json:"skill_id"`
}

type completeSessionRequest struct {
	Score float64 `json:"score"`
}

// POST /api/sessions
// Proposes a session on a skill; at most one open session per user.
func (h *SessionHandler) Propose(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	var req proposeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sess, err := h.uc.ProposeSession(c.Request.Context(), rd.UserID, req.SkillID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, sess)
}

// POST /api/sessions/:sessionId/start
func (h *SessionHandler) Start(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	sess, err := h.uc.StartSession(c.Request.Context(), sessionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, sess)
}

// POST /api/sessions/:sessionId/complete
func (h *SessionHandler) Complete(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	var req completeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sess, err := h.uc.CompleteSession(c.Request.Context(), sessionID, req.Score)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, sess)
}

// GET /api/sessions/:sessionId
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	sess, err := h.uc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, sess)
}
