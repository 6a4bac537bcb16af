package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

type ProviderHandler struct {
	db *gorm.DB
}

func NewProviderHandler(db *gorm.DB) *ProviderHandler {
	return &ProviderHandler{db: db}
}

type UpdateProviderConfigRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *ProviderHandler) GetMeProvider(c *gin.Context) {
	providerIDVal, _ := c.Get(middleware.ContextProviderID)
	providerID := providerIDVal.(uint)

	var provider models.Provider
	if err := h.db.First(&provider, providerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "provider_not_found", "Profissional não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_provider", "Erro ao buscar dados do profissional.")
		return
	}

	c.JSON(http.StatusOK, provider)
}

func (h *ProviderHandler) UpdateMeProvider(c *gin.Context) {
	providerIDVal, _ := c.Get(middleware.ContextProviderID)
	providerID := providerIDVal.(uint)

	var provider models.Provider
	if err := h.db.First(&provider, providerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "provider_not_found", "Profissional não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_provider", "Erro ao buscar dados do profissional.")
		return
	}

	var req UpdateProviderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.Phone != nil {
		provider.Phone = *req.Phone
	}
	if req.Address != nil {
		provider.Address = *req.Address
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		provider.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		provider.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "Erro ao salvar as configurações do profissional.")
		return
	}

	c.JSON(http.StatusOK, provider)
}
