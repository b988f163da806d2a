package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/service"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// ConfigEntry is the installation context entities are created under. The ID
// makes unique IDs stable per installation; the prefix is prepended to every
// entity name.
type ConfigEntry struct {
	ID           string
	EntityPrefix string
}

// Entity is a logical sensor resolved from one or more cached register
// responses. All accessors are pure reads of the current cache contents and
// are recomputed on every call; an Entity holds no mutable state of its own.
type Entity interface {
	Key() string
	Descriptor() *Descriptor
	Name() string
	UniqueID() string
	Icon() string
	Available() bool
	State() any
	Unit() string
	DeviceClass() string
	StateAttributes() map[string]any
	LastReset(now time.Time) *time.Time
	DeviceIdentity() *DeviceIdentity
}

// baseEntity implements the resolution layer shared by all entity variants:
// ordered-fallback lookup across response sources, conjunction availability,
// and unit/device-class/name/id derivation from the descriptor.
type baseEntity struct {
	registry *rct.Registry
	desc     *Descriptor
	sources  []port.ResponseSource
	entry    ConfigEntry
}

func (e *baseEntity) Key() string {
	return e.desc.Key
}

func (e *baseEntity) Descriptor() *Descriptor {
	return e.desc
}

// ResponseByID queries the bound sources in order and returns the first
// cached response for the object ID, valid or not. Source order encodes
// freshness priority. Returns nil when no source has ever seen the register.
func (e *baseEntity) ResponseByID(objectID uint32) *rct.Response {
	for _, source := range e.sources {
		if response := source.GetLatestResponse(objectID); response != nil {
			return response
		}
	}
	return nil
}

// ResponseByName resolves a register name through the registry first. An
// unknown name is a programming error and is returned, never swallowed.
func (e *baseEntity) ResponseByName(name string) (*rct.Response, error) {
	info, err := e.registry.GetByName(name)
	if err != nil {
		return nil, err
	}
	return e.ResponseByID(info.ObjectID), nil
}

// ValueByID unwraps the value of a valid cached response, or returns def when
// the register is absent or its latest response is invalid.
func (e *baseEntity) ValueByID(objectID uint32, def rct.ResponseValue) rct.ResponseValue {
	return rct.ValueOr(e.ResponseByID(objectID), def)
}

func (e *baseEntity) ValueByName(name string, def rct.ResponseValue) (rct.ResponseValue, error) {
	response, err := e.ResponseByName(name)
	if err != nil {
		return nil, err
	}
	return rct.ValueOr(response, def), nil
}

// Available is a conjunction over every tracked register: a single absent or
// invalid response marks the whole entity unavailable.
func (e *baseEntity) Available() bool {
	for _, id := range e.desc.ObjectIDs() {
		if !e.ResponseByID(id).Valid() {
			return false
		}
	}
	return true
}

func (e *baseEntity) State() any {
	return NormalizeValue(e.ValueByID(e.desc.FirstObjectInfo().ObjectID, nil), e.Unit())
}

func (e *baseEntity) Unit() string {
	if e.desc.Unit != "" {
		return e.desc.Unit
	}
	return e.desc.FirstObjectInfo().Unit
}

func (e *baseEntity) DeviceClass() string {
	if e.desc.DeviceClass != "" {
		return e.desc.DeviceClass
	}
	if unit := e.Unit(); unit != "" {
		return service.GuessDeviceClassFromUnit(unit)
	}
	return ""
}

func (e *baseEntity) Name() string {
	name := e.desc.Name
	if name == "" {
		name = SlugifyObjectName(e.desc.FirstObjectInfo().Name)
	}
	return strings.TrimSpace(e.entry.EntityPrefix + " " + name)
}

func (e *baseEntity) UniqueID() string {
	return fmt.Sprintf("%s-%d", e.entry.ID, e.desc.FirstObjectInfo().ObjectID)
}

func (e *baseEntity) Icon() string {
	return e.desc.Icon
}

// StateAttributes exposes the raw cached responses behind the entity, one per
// tracked register that has been seen at least once.
func (e *baseEntity) StateAttributes() map[string]any {
	ids := e.desc.ObjectIDs()
	responses := make([]*rct.Response, 0, len(ids))
	for _, id := range ids {
		if response := e.ResponseByID(id); response != nil {
			responses = append(responses, response)
		}
	}
	return map[string]any{"latest_api_responses": responses}
}
