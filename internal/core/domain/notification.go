package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("no unread notifications found")

// Notification is a durable per-user event record. Rows are append-only except
// for IsRead, which transitions false to true exactly once. Admin accounts
// never receive notifications.
type Notification struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Message   string    `json:"message" bson:"message"`
	IsRead    bool      `json:"is_read" bson:"is_read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
