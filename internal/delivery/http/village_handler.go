package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"minute-empire-backend/internal/accrual"
	"minute-empire-backend/internal/apierrors"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/orchestrator"
	"minute-empire-backend/internal/repository"
)

// CommandRequest is the POST body for submitting one command against a
// village, per spec.md §4.5.1's text grammar.
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// VillageHandler serves village reads and command submission. ListVillages
// and SubmitCommand trust the caller identity already resolved into the
// X-User-ID header by the out-of-scope auth collaborator (spec.md §6);
// GetVillage does not read that header.
type VillageHandler struct {
	villages     repository.VillageRepository
	accrual      *accrual.Engine
	orchestrator *orchestrator.Orchestrator
}

// NewVillageHandler builds a VillageHandler.
func NewVillageHandler(villages repository.VillageRepository, eng *accrual.Engine, orch *orchestrator.Orchestrator) *VillageHandler {
	return &VillageHandler{villages: villages, accrual: eng, orchestrator: orch}
}

// GetVillage handles GET /api/v1/villages/:id, returning resource totals
// current as of the request instant.
func (h *VillageHandler) GetVillage(c *gin.Context) {
	id := c.Param("id")

	village, err := h.villages.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "village not found"})
		return
	}

	if err := h.accrual.Advance(village, time.Now()); err != nil {
		logger.WithVillage(village.ID, village.OwnerID).Error("failed to advance resources for read", zap.Error(err))
	}
	if err := h.villages.Update(c.Request.Context(), village); err != nil {
		logger.WithVillage(village.ID, village.OwnerID).Error("failed to persist advanced resources", zap.Error(err))
	}

	c.JSON(http.StatusOK, village)
}

// ListVillages handles GET /api/v1/villages, returning every village owned
// by the caller.
func (h *VillageHandler) ListVillages(c *gin.Context) {
	ownerID := c.GetHeader("X-User-ID")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing X-User-ID"})
		return
	}

	villages, err := h.villages.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list villages"})
		return
	}

	now := time.Now()
	for i := range villages {
		if err := h.accrual.Advance(&villages[i], now); err != nil {
			logger.WithVillage(villages[i].ID, ownerID).Error("failed to advance resources for read", zap.Error(err))
			continue
		}
		if err := h.villages.Update(c.Request.Context(), &villages[i]); err != nil {
			logger.WithVillage(villages[i].ID, ownerID).Error("failed to persist advanced resources", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, villages)
}

// SubmitCommand handles POST /api/v1/villages/:id/commands: parse, submit,
// return the structured apierrors.Result spec.md §7 mandates regardless of
// outcome. A missing X-User-ID header (401) and a malformed request body
// (400) are the only cases answered with a non-200 status — every other
// rejection (unknown village, busy troop, out of resources) is
// success:false inside a 200 body.
func (h *VillageHandler) SubmitCommand(c *gin.Context) {
	ownerID := c.GetHeader("X-User-ID")
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing X-User-ID"})
		return
	}
	villageID := c.Param("id")

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed request body"})
		return
	}

	cmd, err := orchestrator.Parse(req.Command)
	if err != nil {
		c.JSON(http.StatusOK, apierrors.Fail(err))
		return
	}

	result := h.orchestrator.Submit(c.Request.Context(), ownerID, villageID, cmd)
	c.JSON(http.StatusOK, result)
}
