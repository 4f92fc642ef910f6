package domain

import "time"

// NotificationType classifies a notification for the inbox UI.
type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationMessage NotificationType = "message"
	NotificationSystem  NotificationType = "system"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
