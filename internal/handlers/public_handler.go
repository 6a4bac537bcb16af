package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	ucAppointment "github.com/harmoniawellness/wellness-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db             *gorm.DB
	availabilityUC *ucAvailability.GetAvailability
	checkoutUC     *ucAppointment.CreateCheckout
}

func NewPublicHandler(
	db *gorm.DB,
	availabilityUC *ucAvailability.GetAvailability,
	checkoutUC *ucAppointment.CreateCheckout,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
		checkoutUC:     checkoutUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCheckoutRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var provider models.Provider
	if err := h.db.Where("slug = ?", slug).First(&provider).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "Profissional não encontrado.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("provider_id = ? AND active = true", provider.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": provider,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")

	if dateStr == "" {
		httperr.BadRequest(c, "missing_params", "Data obrigatória.")
		return
	}

	var serviceID uint
	if s := c.Query("service_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
			return
		}
		serviceID = uint(v)
	}

	var provider models.Provider
	if err := h.db.Where("slug = ?", slug).First(&provider).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "Profissional não encontrado.")
		return
	}

	result, err := h.availabilityUC.Execute(
		c.Request.Context(),
		ucAvailability.AvailabilityInput{
			ProviderID: provider.ID,
			Date:       dateStr,
			ServiceID:  serviceID,
		},
	)

	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.BadRequest(c, "service_not_found", "Serviço inválido.")
			return
		}

		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         dateStr,
		"available":    result.Available,
		"duration_min": result.DurationMin,
		"slots":        result.Slots,
	})
}

////////////////////////////////////////////////////////
// CHECKOUT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateCheckout(c *gin.Context) {
	slug := c.Param("slug")

	var req PublicCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	// An authenticated customer books against their account; anonymous
	// checkouts only carry the payer email.
	var userID *uint
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uint); ok && id != 0 {
			userID = &id

			var user models.User
			if err := h.db.First(&user, id).Error; err == nil {
				email = user.Email
			}
		}
	}

	out, err := h.checkoutUC.Execute(
		c.Request.Context(),
		ucAppointment.CreateCheckoutInput{
			ProviderSlug: slug,
			UserID:       userID,
			UserEmail:    email,
			ServiceID:    req.ServiceID,
			Date:         req.Date,
			Time:         req.Time,
			Notes:        req.Notes,
		},
	)

	if err != nil {
		mapCheckoutErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func mapCheckoutErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "provider_not_found"):
		httperr.NotFound(c, "provider_not_found", "Profissional não encontrado.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Serviço inválido.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
	case httperr.IsBusiness(err, "too_soon"):
		httperr.BadRequest(c, "too_soon", "Horário abaixo da antecedência mínima.")
	case httperr.IsBusiness(err, "outside_working_hours"):
		httperr.BadRequest(c, "outside_working_hours", "Fora do horário de atendimento.")
	case httperr.IsBusiness(err, "slot_conflict"):
		httperr.Conflict(c, "slot_conflict", "Horário já reservado.")
	default:
		httperr.Internal(c, "checkout_failed", "Erro ao iniciar o agendamento.")
	}
}
