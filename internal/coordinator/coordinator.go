package coordinator

import (
	"sync"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// Coordinator is the latest-response cache of one polling tier. A telemetry
// actor refreshes it after every poll round; entities read it non-blocking
// through port.ResponseSource. A register resolves as absent only until the
// first round touches it, after that a failed round leaves invalid responses
// behind, not gaps.
type Coordinator struct {
	priority entity.UpdatePriority

	mu      sync.RWMutex
	tracked []uint32
	latest  map[uint32]*rct.Response
}

var _ port.ResponseSource = (*Coordinator)(nil)

// New builds an empty coordinator for one tier. Entities may bind to it
// right away; the poll set arrives through Track once the catalog has been
// resolved against the registry.
func New(priority entity.UpdatePriority) *Coordinator {
	return &Coordinator{
		priority: priority,
		latest:   make(map[uint32]*rct.Response),
	}
}

func (c *Coordinator) Priority() entity.UpdatePriority {
	return c.priority
}

// Track replaces the coordinator's poll set.
func (c *Coordinator) Track(objectIDs []uint32) {
	ids := make([]uint32, len(objectIDs))
	copy(ids, objectIDs)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = ids
}

// ObjectIDs returns a copy of the poll set.
func (c *Coordinator) ObjectIDs() []uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]uint32, len(c.tracked))
	copy(ids, c.tracked)
	return ids
}

// Store replaces the cached entry of every given response, valid or invalid
// alike. Nil entries are skipped.
func (c *Coordinator) Store(responses ...*rct.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, response := range responses {
		if response == nil {
			continue
		}
		c.latest[response.ObjectID] = response
	}
}

// MarkRoundFailure records a whole failed poll round: every tracked register
// is replaced with an invalid response carrying the round error.
func (c *Coordinator) MarkRoundFailure(cause error, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.tracked {
		c.latest[id] = rct.NewInvalidResponse(id, cause, at)
	}
}

// GetLatestResponse returns the most recently cached response for a register,
// or nil when no round has touched it yet.
func (c *Coordinator) GetLatestResponse(objectID uint32) *rct.Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest[objectID]
}
