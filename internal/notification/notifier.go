package notification

// Notifier is the sink the booking workflows emit user-facing messages to.
// Delivery is fire-and-forget; a lost notification never fails a workflow.
type Notifier interface {
	Notify(userID uint, notifType, title, message, reference string)
}
