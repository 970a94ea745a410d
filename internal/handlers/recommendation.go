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

type RecommendationHandler struct {
	log *logger.Logger
	uc  mastery.Usecases
}

func NewRecommendationHandler(log *logger.Logger, uc mastery.Usecases) *RecommendationHandler {
	return &RecommendationHandler{
		log: log.With("handler", "RecommendationHandler"),
		uc:  uc,
	}
}

// GET /api/roles/:roleId/next-action
// The single recommended next action for the caller toward a role.
func (h *RecommendationHandler) NextAction(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	roleID, err := uuid.Parse(c.Param("roleId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_role_id", err)
		return
	}
	action, err := h.uc.SelectNextAction(c.Request.Context(), rd.UserID, roleID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, action)
}
