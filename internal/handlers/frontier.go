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

type FrontierHandler struct {
	log *logger.Logger
	uc  mastery.Usecases
}

func NewFrontierHandler(log *logger.Logger, uc mastery.Usecases) *FrontierHandler {
	return &FrontierHandler{
		log: log.With("handler", "FrontierHandler"),
		uc:  uc,
	}
}

// GET /api/roles/:roleId/frontier
// The caller's learnable boundary for a role.
func (h *FrontierHandler) Get(c *gin.Context) {
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
	rows, err := h.uc.GetFrontier(c.Request.Context(), rd.UserID, roleID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"frontier": rows})
}
