package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/payments"
	ucAppointment "github.com/harmoniawellness/wellness-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// PaymentWebhookHandler receives the processor's asynchronous payment
// notifications. The notification only carries the payment id; the current
// payment state is always re-read from the processor before acting.
type PaymentWebhookHandler struct {
	gateway   payments.Gateway
	confirmUC *ucAppointment.ConfirmPayment
	expireUC  *ucAppointment.ExpirePayment
	log       *zap.Logger
}

func NewPaymentWebhookHandler(
	gateway payments.Gateway,
	confirmUC *ucAppointment.ConfirmPayment,
	expireUC *ucAppointment.ExpirePayment,
	log *zap.Logger,
) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		gateway:   gateway,
		confirmUC: confirmUC,
		expireUC:  expireUC,
		log:       log,
	}
}

// ======================================================
// REQUEST
// ======================================================

type paymentWebhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ======================================================
// HANDLE
// ======================================================

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {

	// Mercado Pago sends the payment id either as query params
	// (type=payment&data.id=N) or in the JSON body.
	notifType := c.Query("type")
	idStr := c.Query("data.id")

	if idStr == "" {
		var body paymentWebhookBody
		if err := c.ShouldBindJSON(&body); err == nil {
			notifType = body.Type
			idStr = body.Data.ID
		}
	}

	if notifType != "payment" || idStr == "" {
		// Not a payment event; acknowledge so the processor stops retrying.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	paymentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_id", "Identificador de pagamento inválido.")
		return
	}

	info, err := h.gateway.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.log.Error("payment lookup failed",
			zap.Int64("payment_id", paymentID),
			zap.Error(err),
		)
		httperr.Internal(c, "payment_lookup_failed", "Erro ao consultar pagamento.")
		return
	}

	switch info.Status {
	case payments.StatusApproved:
		if _, err := h.confirmUC.Execute(c.Request.Context(), info.ExternalReference); err != nil {
			if httperr.IsBusiness(err, "appointment_not_found") {
				// Reference from another system or a test event.
				c.JSON(http.StatusOK, gin.H{"status": "ignored"})
				return
			}
			h.log.Error("payment confirmation failed",
				zap.String("reference", info.ExternalReference),
				zap.Error(err),
			)
			httperr.Internal(c, "confirmation_failed", "Erro ao confirmar pagamento.")
			return
		}

	case payments.StatusCancelled, payments.StatusExpired:
		if _, err := h.expireUC.Execute(c.Request.Context(), info.ExternalReference); err != nil {
			if _, ok := httperr.IsAnyBusiness(err); !ok {
				h.log.Error("payment expiry failed",
					zap.String("reference", info.ExternalReference),
					zap.Error(err),
				)
				httperr.Internal(c, "expiry_failed", "Erro ao expirar pagamento.")
				return
			}
		}

	default:
		// pending, in_process: nothing to do yet.
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
