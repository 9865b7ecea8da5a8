package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is a transient, dismissible message for the UI. Storage
// write-through failures land here so a degraded store is visible to the
// user and not only to the log.
type Notification struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"createdAt"` // epoch millis
}

// NotificationService queues notifications until the UI collects them.
type NotificationService struct {
	mu      sync.Mutex
	pending []Notification
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (s *NotificationService) Push(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UnixMilli(),
	})
}

// Drain returns the pending notifications and clears the queue.
func (s *NotificationService) Drain() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.pending
	s.pending = nil
	if pending == nil {
		pending = []Notification{}
	}
	return pending
}

// storageNotifier adapts a failed write-through into a notification.
func storageNotifier(notifications *NotificationService, collection string) func(error) {
	return func(err error) {
		notifications.Push("error", fmt.Sprintf("saving %s failed: %v", collection, err))
	}
}
