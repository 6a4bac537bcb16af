package notification

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

// Dispatcher durably records notifications through a buffered queue and a
// single worker goroutine, so workflow code never waits on the sink. A full
// queue drops the message with a warning.
type Dispatcher struct {
	db    *gorm.DB
	log   *zap.Logger
	queue chan models.Notification
}

func NewDispatcher(db *gorm.DB, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		db:    db,
		log:   log,
		queue: make(chan models.Notification, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for n := range d.queue {
		if err := d.db.Create(&n).Error; err != nil {
			d.log.Error("notification write failed",
				zap.Uint("user_id", n.UserID),
				zap.String("type", n.Type),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Notify(userID uint, notifType, title, message, reference string) {
	n := models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Reference: reference,
	}

	select {
	case d.queue <- n:
	default:
		d.log.Warn("notification queue full, dropping",
			zap.Uint("user_id", userID),
			zap.String("type", notifType),
		)
	}
}

var _ Notifier = (*Dispatcher)(nil)
