package service

import (
	"github.com/google/uuid"
)

// Event is pushed to the tenant's live clients after a committed write.
type Event struct {
	Type     string    `json:"type"`
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
}

// Notifier delivers events to one company's connected clients.
type Notifier interface {
	Notify(companyID uuid.UUID, event any)
}

type NopNotifier struct{}

func (NopNotifier) Notify(uuid.UUID, any) {}
