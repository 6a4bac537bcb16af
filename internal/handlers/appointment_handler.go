package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/harmoniawellness/wellness-scheduler/internal/domain/appointment"
	"github.com/harmoniawellness/wellness-scheduler/internal/domain/schedule"
	"github.com/harmoniawellness/wellness-scheduler/internal/dto"
	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/httpresp"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	ucAppointment "github.com/harmoniawellness/wellness-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/harmoniawellness/wellness-scheduler/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo       domain.Repository
	confirmUC  *ucAppointment.ConfirmAppointment
	completeUC *ucAppointment.CompleteAppointment
	cancelUC   *ucAppointment.CancelAppointment
	proposeUC  *ucAppointment.ProposeReschedule
	dayGridUC  *ucAvailability.GetDayGrid
}

func NewAppointmentHandler(
	repo domain.Repository,
	confirmUC *ucAppointment.ConfirmAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	proposeUC *ucAppointment.ProposeReschedule,
	dayGridUC *ucAvailability.GetDayGrid,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		confirmUC:  confirmUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
		proposeUC:  proposeUC,
		dayGridUC:  dayGridUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ProviderCancelRequest struct {
	Reason string `json:"reason"`
}

type ProposeRescheduleRequest struct {
	ProposedDate string `json:"proposed_date" binding:"required"` // YYYY-MM-DD
	ProposedTime string `json:"proposed_time" binding:"required"` // HH:mm
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	aps, err := h.repo.ListAppointmentsForDay(c.Request.Context(), providerID, dateStr)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for i := range aps {
		ap := &aps[i]

		customerName := ""
		if ap.User != nil {
			customerName = ap.User.Name
		}

		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			Date:         ap.Date,
			StartTime:    ap.StartTime,
			EndTime:      domain.EndTimeOf(ap),
			Status:       ap.Status,
			CustomerName: customerName,
			ServiceName:  ap.ServiceName,
			ServicePrice: ap.ServicePrice,
		})
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	// Dates are stored as YYYY-MM-DD strings; the period query is a
	// half-open range, so the upper bound is the first day of the next
	// month.
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	to := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).
		Format("2006-01-02")

	aps, err := h.repo.ListAppointmentsForPeriod(c.Request.Context(), providerID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(200, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// DayGrid renders the provider's planner for one day: every candidate slot,
// with booked slots padded by the preparation buffer and blocked ranges
// marked unavailable.
func (h *AppointmentHandler) DayGrid(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	duration := schedule.DefaultSlotDurationMin
	if s := c.Query("duration"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		duration = v
	}

	grid, err := h.dayGridUC.Execute(c.Request.Context(), ucAvailability.DayGridInput{
		ProviderID:      providerID,
		Date:            dateStr,
		SlotDurationMin: duration,
		BufferMin:       schedule.DefaultBufferMin,
	})
	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		httperr.Internal(c, "schedule_failed", "Erro ao montar a agenda.")
		return
	}

	c.JSON(200, gin.H{
		"date":  dateStr,
		"open":  grid.Open,
		"slots": grid.Slots,
	})
}

// ======================================================
// CONFIRM / COMPLETE
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.confirmUC.Execute(c.Request.Context(), providerID, userID, id)
	if err != nil {
		mapAppointmentErrors(c, err)
		return
	}

	c.JSON(200, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), providerID, userID, id)
	if err != nil {
		mapAppointmentErrors(c, err)
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ProviderCancelRequest
	_ = c.ShouldBindJSON(&req)

	out, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelInput{
		AppointmentID: id,
		CancelledBy:   domain.ActorProvider,
		Reason:        req.Reason,
		ProviderID:    providerID,
	})
	if err != nil {
		mapAppointmentErrors(c, err)
		return
	}

	c.JSON(200, out)
}

// ======================================================
// RESCHEDULE PROPOSAL
// ======================================================

func (h *AppointmentHandler) ProposeReschedule(c *gin.Context) {
	providerID := c.MustGet(middleware.ContextProviderID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ProposeRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	proposal, err := h.proposeUC.Execute(c.Request.Context(), ucAppointment.ProposeRescheduleInput{
		ProviderID:    providerID,
		ActorID:       userID,
		AppointmentID: id,
		ProposedDate:  req.ProposedDate,
		ProposedTime:  req.ProposedTime,
	})
	if err != nil {
		mapAppointmentErrors(c, err)
		return
	}

	c.JSON(201, proposal)
}

// ======================================================
// HELPERS
// ======================================================

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func mapAppointmentErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
	case httperr.IsBusiness(err, "already_cancelled"):
		httperr.BadRequest(c, "already_cancelled", "Agendamento já cancelado.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "Transição de estado inválida.")
	case httperr.IsBusiness(err, "cancellation_window_expired"):
		httperr.BadRequest(c, "cancellation_window_expired", "Cancelamento fora do prazo permitido.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
	case httperr.IsBusiness(err, "slot_conflict"):
		httperr.Conflict(c, "slot_conflict", "Horário já reservado.")
	default:
		httperr.Internal(c, "appointment_operation_failed", "Erro ao processar agendamento.")
	}
}
