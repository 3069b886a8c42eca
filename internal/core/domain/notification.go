package domain

type NotificationLevel string

const (
	NotificationError   NotificationLevel = "error"
	NotificationSuccess NotificationLevel = "success"
)

// Notification is a user-visible message emitted by the cart, the equivalent of a toast.
type Notification struct {
	Level     NotificationLevel
	ProductID int64
	Message   string
}
