package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/httpresp"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	ucAppointment "github.com/harmoniawellness/wellness-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type CustomerHandler struct {
	db        *gorm.DB
	cancelUC  *ucAppointment.CancelAppointment
	respondUC *ucAppointment.RespondReschedule
}

func NewCustomerHandler(
	db *gorm.DB,
	cancelUC *ucAppointment.CancelAppointment,
	respondUC *ucAppointment.RespondReschedule,
) *CustomerHandler {
	return &CustomerHandler{
		db:        db,
		cancelUC:  cancelUC,
		respondUC: respondUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CustomerCancelRequest struct {
	Reason string `json:"reason"`
}

type RespondRescheduleRequest struct {
	Accept bool `json:"accept"`
}

// ======================================================
// MY APPOINTMENTS
// ======================================================

func (h *CustomerHandler) ListMyAppointments(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var aps []models.Appointment
	if err := h.db.
		Preload("Provider").
		Where("user_id = ?", userID).
		Order("date DESC, start_time DESC").
		Find(&aps).Error; err != nil {

		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, aps)
}

// ======================================================
// CANCEL
// ======================================================

func (h *CustomerHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req CustomerCancelRequest
	_ = c.ShouldBindJSON(&req)

	out, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelInput{
		AppointmentID: id,
		CancelledBy:   domain.ActorCustomer,
		Reason:        req.Reason,
		UserID:        userID,
	})
	if err != nil {
		mapAppointmentErrors(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// RESCHEDULE RESPONSE
// ======================================================

func (h *CustomerHandler) RespondReschedule(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req RespondRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	out, err := h.respondUC.Execute(c.Request.Context(), ucAppointment.RespondRescheduleInput{
		RequestID: id,
		UserID:    userID,
		Accept:    req.Accept,
	})
	if err != nil {
		mapRescheduleErrors(c, err)
		return
	}

	httpresp.OK(c, out)
}

func mapRescheduleErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "request_not_found"):
		httperr.NotFound(c, "request_not_found", "Proposta não encontrada.")
	case httperr.IsBusiness(err, "already_processed"):
		httperr.BadRequest(c, "already_processed", "Proposta já respondida.")
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
	case httperr.IsBusiness(err, "slot_conflict"):
		httperr.Conflict(c, "slot_conflict", "Novo horário já reservado.")
	default:
		httperr.Internal(c, "reschedule_failed", "Erro ao responder proposta.")
	}
}
