package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/httperr"
	"github.com/harmoniawellness/wellness-scheduler/internal/httpresp"
	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	q := h.db.Where("user_id = ?", userID)

	if c.Query("unread") == "true" {
		q = q.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := q.
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {

		httperr.Internal(c, "failed_to_list_notifications", "Erro ao listar notificações.")
		return
	}

	httpresp.List(c, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var notification models.Notification
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {

		httperr.NotFound(c, "notification_not_found", "Notificação não encontrada.")
		return
	}

	notification.Read = true
	if err := h.db.Save(&notification).Error; err != nil {
		httperr.Internal(c, "failed_to_update_notification", "Erro ao atualizar notificação.")
		return
	}

	c.JSON(http.StatusOK, notification)
}
