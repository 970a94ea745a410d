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

type CatalogHandler struct {
	log    *logger.Logger
	skills repos.SkillNodeRepo
	edges  repos.PrereqEdgeRepo
	states repos.UserSkillStateRepo
}

func NewCatalogHandler(log *logger.Logger, skills repos.SkillNodeRepo, edges repos.PrereqEdgeRepo, states repos.UserSkillStateRepo) *CatalogHandler {
	return &CatalogHandler{
		log:    log.With("handler", "CatalogHandler"),
		skills: skills,
		edges:  edges,
		states: states,
	}
}

// GET /api/skills
func (h *CatalogHandler) ListSkills(c *gin.Context) {
	skills, err := h.skills.ListAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "catalog_read_failed", err)
		return
	}
	RespondOK(c, gin.H{"skills": skills})
}

// GET /api/skills/graph
func (h *CatalogHandler) GetGraph(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	skills, err := h.skills.ListAll(dbc)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "catalog_read_failed", err)
		return
	}
	edges, err := h.edges.ListAll(dbc)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "catalog_read_failed", err)
		return
	}
	RespondOK(c, gin.H{"skills": skills, "edges": edges})
}

// GET /api/me/skills
// Every skill state the caller has touched.
func (h *CatalogHandler) ListMyStates(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	states, err := h.states.ListByUser(dbctx.Context{Ctx: c.Request.Context()}, rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "state_read_failed", err)
		return
	}
	RespondOK(c, gin.H{"states": states})
}
