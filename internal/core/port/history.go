package port

import (
	"context"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
)

// HistorySink is a destination for recorded entity snapshots. Record may
// block on IO and is always called off the actor goroutine.
type HistorySink interface {
	Name() string
	Record(ctx context.Context, snapshots []entity.Snapshot) error
	Close() error
}
