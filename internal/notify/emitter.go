// Package notify inserts user-facing notification rows as a side effect of
// settlement events. Emission is fire-and-forget: a failed insert is logged
// and never propagated to the operation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/vya-logistics/vya-backend/internal/models"
	repo "github.com/vya-logistics/vya-backend/internal/repository"
	"github.com/vya-logistics/vya-backend/internal/worker"
)

const (
	KindPaymentReceived   = "payment_received"
	KindWithdrawCompleted = "withdraw_completed"
	KindWithdrawFailed    = "withdraw_failed"
)

type Emitter struct {
	repo repo.Notifications
	pool *worker.Pool
}

func NewEmitter(r repo.Notifications, pool *worker.Pool) *Emitter {
	return &Emitter{repo: r, pool: pool}
}

// Emit queues the notification insert on the worker pool and returns
// immediately.
func (e *Emitter) Emit(userID, kind, title, body string) {
	e.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n := models.Notification{UserID: userID, Kind: kind, Title: title, Body: body}
		if err := e.repo.Create(ctx, n); err != nil {
			slog.Error("notification insert failed", "user_id", userID, "kind", kind, "err", err)
		}
	})
}
