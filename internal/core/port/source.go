package port

import (
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// ResponseSource is a non-blocking read view over a poller's register cache.
// GetLatestResponse returns the most recently cached response for an object
// ID, or nil if the source has never seen that register.
type ResponseSource interface {
	GetLatestResponse(objectID uint32) *rct.Response
}
