// Package notify writes notification rows as a side effect of content
// mutations. Delivery is best effort: callers enqueue and move on, a single
// worker drains the queue, and a failed insert is logged and lost. There is
// no retry and no delivery guarantee.
package notify

import (
	"sync"

	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/repositories"
	"go.uber.org/zap"
)

// Notifier fans out notifications through an in-process queue
type Notifier struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
	queue  chan models.Notification
	wg     sync.WaitGroup
}

// New creates a Notifier and starts its worker goroutine
func New(repo repositories.NotificationRepository, logger *zap.Logger, buffer int) *Notifier {
	n := &Notifier{
		repo:   repo,
		logger: logger,
		queue:  make(chan models.Notification, buffer),
	}
	n.wg.Add(1)
	go n.worker()
	return n
}

// Notify enqueues one notification for the recipient. Skipped entirely when
// the recipient is the actor. Never blocks: if the queue is full the
// notification is dropped and logged.
func (n *Notifier) Notify(recipientID uint, notifType string, referenceID uint, referenceKind string, actorID uint, contextID *uint, message string) {
	if recipientID == actorID {
		return
	}
	notification := models.Notification{
		Type:          notifType,
		ActorID:       actorID,
		RecipientID:   recipientID,
		ReferenceID:   referenceID,
		ReferenceKind: referenceKind,
		ContextID:     contextID,
		Message:       message,
	}
	select {
	case n.queue <- notification:
	default:
		n.logger.Warn("notification queue full, dropping",
			zap.Uint("recipient_id", recipientID),
			zap.String("type", notifType))
	}
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for notification := range n.queue {
		if err := n.repo.CreateNotification(&notification); err != nil {
			n.logger.Error("failed to write notification",
				zap.Uint("recipient_id", notification.RecipientID),
				zap.String("type", notification.Type),
				zap.Error(err))
		}
	}
}

// Close stops accepting notifications and waits for the queue to drain
func (n *Notifier) Close() {
	close(n.queue)
	n.wg.Wait()
}
