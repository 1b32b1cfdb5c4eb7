package notify

import (
	"sync"
	"time"

	"travelbook/internal/models"

	"github.com/google/uuid"
)

// Relay is the append-only notification sink. Any component may push into
// it without coordination; rendering is a collaborator's concern.
type Relay struct {
	mu            sync.RWMutex
	notifications []*models.Notification
}

func NewRelay() *Relay {
	return &Relay{}
}

func (r *Relay) Notify(message, severity string) *models.Notification {
	n := &models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Read:      false,
		Timestamp: time.Now(),
	}

	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()
	return n
}

// Notifications returns a copy in arrival order.
func (r *Relay) Notifications() []*models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*models.Notification(nil), r.notifications...)
}

func (r *Relay) MarkRead(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && !n.Read {
			n.Read = true
			return true
		}
	}
	return false
}

func (r *Relay) UnreadCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// Restore replaces the relay contents from a persisted snapshot.
func (r *Relay) Restore(notifications []*models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append([]*models.Notification(nil), notifications...)
}
