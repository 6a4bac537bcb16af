package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/cache"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type BlockedRangeHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
}

func NewBlockedRangeHandler(db *gorm.DB, availCache *cache.AvailabilityCache) *BlockedRangeHandler {
	return &BlockedRangeHandler{db: db, cache: availCache}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBlockedRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:mm
	EndDate   string `json:"end_date" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *BlockedRangeHandler) List(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)

	var ranges []models.BlockedRange
	if err := h.db.
		Where("provider_id = ?", providerID).
		Order("start_time ASC").
		Find(&ranges).Error; err != nil {

		httperr.Internal(c, "failed_to_list_blocked_ranges", "Erro ao listar bloqueios.")
		return
	}

	c.JSON(http.StatusOK, ranges)
}

func (h *BlockedRangeHandler) Create(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)

	var provider models.Provider
	if err := h.db.First(&provider, providerID).Error; err != nil {
		httperr.Internal(c, "provider_not_found", "Profissional não encontrado.")
		return
	}

	var req CreateBlockedRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTimeInProvider(&provider, req.StartDate, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	end, err := parseDateTimeInProvider(&provider, req.EndDate, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	if !end.After(start) {
		httperr.BadRequest(c, "invalid_range", "Fim do bloqueio deve ser depois do início.")
		return
	}

	blocked := models.BlockedRange{
		ProviderID: providerID,
		StartTime:  start,
		EndTime:    end,
		Reason:     req.Reason,
	}

	if err := h.db.Create(&blocked).Error; err != nil {
		httperr.Internal(c, "failed_to_create_blocked_range", "Erro ao criar bloqueio.")
		return
	}

	// Cached availability for the affected days is stale now.
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		h.cache.Invalidate(c.Request.Context(), providerID, d.Format("2006-01-02"))
	}

	c.JSON(http.StatusCreated, blocked)
}

func (h *BlockedRangeHandler) Delete(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)
	id := c.Param("id")

	var blocked models.BlockedRange
	if err := h.db.
		Where("id = ? AND provider_id = ?", id, providerID).
		First(&blocked).Error; err != nil {

		httperr.NotFound(c, "blocked_range_not_found", "Bloqueio não encontrado.")
		return
	}

	if err := h.db.Delete(&blocked).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_blocked_range", "Erro ao remover bloqueio.")
		return
	}

	for d := blocked.StartTime; !d.After(blocked.EndTime); d = d.AddDate(0, 0, 1) {
		h.cache.Invalidate(c.Request.Context(), providerID, d.Format("2006-01-02"))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
