package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/events"
)

// RevocationWorker blacklists tokens off the request path. Logout enqueues
// and returns; a failed blacklist write is logged and dropped, since the
// token still dies at its natural expiry.
type RevocationWorker struct {
	tokens     *auth.TokenService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	queue      chan string
	stop       chan struct{}
	done       chan struct{}
}

// NewRevocationWorker builds the worker with a bounded queue.
func NewRevocationWorker(tokens *auth.TokenService, dispatcher events.Dispatcher, logger *zap.Logger, queueSize int) *RevocationWorker {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &RevocationWorker{
		tokens:     tokens,
		dispatcher: dispatcher,
		logger:     logger,
		queue:      make(chan string, queueSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the consumer goroutine.
func (w *RevocationWorker) Start() {
	go w.run()
}

// Enqueue offers a token for revocation. Returns false when the queue is
// full or the worker has been stopped.
func (w *RevocationWorker) Enqueue(token string) bool {
	select {
	case <-w.stop:
		return false
	default:
	}
	select {
	case w.queue <- token:
		return true
	default:
		return false
	}
}

// Stop drains tokens already queued, then shuts the worker down.
func (w *RevocationWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *RevocationWorker) run() {
	defer close(w.done)
	for {
		select {
		case token := <-w.queue:
			w.revoke(token)
		case <-w.stop:
			for {
				select {
				case token := <-w.queue:
					w.revoke(token)
				default:
					return
				}
			}
		}
	}
}

func (w *RevocationWorker) revoke(token string) {
	if err := w.tokens.InvalidateToken(token); err != nil {
		w.logger.Warn("token revocation failed", zap.Error(err))
		return
	}
	if w.dispatcher != nil {
		_ = w.dispatcher.Publish(context.Background(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTokenRevoked,
			Timestamp: time.Now(),
			Payload:   events.TokenRevokedPayload{RevokedAt: time.Now()},
		})
	}
}
