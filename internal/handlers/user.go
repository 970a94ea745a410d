package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/ctxutil"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type UserHandler struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewUserHandler(log *logger.Logger, users repos.UserRepo) *UserHandler {
	return &UserHandler{
		log:   log.With("handler", "UserHandler"),
		users: users,
	}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	u, err := h.users.GetByID(dbctx.Context{Ctx: c.Request.Context()}, rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "user_read_failed", err)
		return
	}
	if u == nil {
		RespondError(c, http.StatusNotFound, "user_not_found", fmt.Errorf("user %s does not exist", rd.UserID))
		return
	}
	RespondOK(c, u)
}
