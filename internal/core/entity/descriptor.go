package entity

import (
	"fmt"
	"strings"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

const DEFAULT_ICON = "mdi:solar-power"

// UpdatePriority assigns an entity to one of the polling tiers. Registers of
// fast-moving values are refreshed often, energy counters less so, and
// identity registers almost never.
type UpdatePriority int

const (
	UPDATE_PRIORITY_FREQUENT UpdatePriority = iota
	UPDATE_PRIORITY_INFREQUENT
	UPDATE_PRIORITY_STATIC
)

func (p UpdatePriority) String() string {
	switch p {
	case UPDATE_PRIORITY_FREQUENT:
		return "frequent"
	case UPDATE_PRIORITY_INFREQUENT:
		return "infrequent"
	case UPDATE_PRIORITY_STATIC:
		return "static"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// MeteredResetSchedule is the cadence at which a cumulative sensor's baseline
// resets. Anything but METERED_RESET_NEVER makes LastReset return a value.
type MeteredResetSchedule int

const (
	METERED_RESET_NEVER MeteredResetSchedule = iota
	METERED_RESET_INITIALLY
	METERED_RESET_DAILY
	METERED_RESET_MONTHLY
	METERED_RESET_YEARLY
)

func (s MeteredResetSchedule) String() string {
	switch s {
	case METERED_RESET_NEVER:
		return "never"
	case METERED_RESET_INITIALLY:
		return "initially"
	case METERED_RESET_DAILY:
		return "daily"
	case METERED_RESET_MONTHLY:
		return "monthly"
	case METERED_RESET_YEARLY:
		return "yearly"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// NameResolutionError reports a configured register name that is missing from
// the object registry. It can only happen at descriptor construction time and
// always indicates a configuration bug, so it fails setup loudly.
type NameResolutionError struct {
	Key  string
	Name string
	Err  error
}

func (e *NameResolutionError) Error() string {
	return fmt.Sprintf("entity %q: cannot resolve register name %q: %s", e.Key, e.Name, e.Err)
}

func (e *NameResolutionError) Unwrap() error {
	return e.Err
}

// Descriptor is the immutable configuration of one entity: which registers it
// tracks, on which polling tier, and how the host platform should present it.
// Object names are resolved against the registry once, by NewDescriptor;
// after that the descriptor never changes.
type Descriptor struct {
	Key              string
	Name             string
	Icon             string
	ObjectNames      []string
	UpdatePriority   UpdatePriority
	MeteredReset     MeteredResetSchedule
	Unit             string
	DeviceClass      string
	StateClass       string
	EntityCategory   string
	EnabledByDefault *bool

	objectInfos []rct.ObjectInfo
}

// NewDescriptor validates a descriptor and resolves its object names against
// the registry. ObjectNames defaults to [Key] when empty; every name must be
// known or construction fails with a NameResolutionError.
func NewDescriptor(registry *rct.Registry, d Descriptor) (*Descriptor, error) {
	if d.Key == "" {
		return nil, fmt.Errorf("entity descriptor requires a key")
	}
	if len(d.ObjectNames) == 0 {
		d.ObjectNames = []string{d.Key}
	}
	if d.Icon == "" {
		d.Icon = DEFAULT_ICON
	}
	d.objectInfos = make([]rct.ObjectInfo, 0, len(d.ObjectNames))
	for _, name := range d.ObjectNames {
		info, err := registry.GetByName(name)
		if err != nil {
			return nil, &NameResolutionError{Key: d.Key, Name: name, Err: err}
		}
		d.objectInfos = append(d.objectInfos, info)
	}
	return &d, nil
}

// ObjectInfos returns the resolved register metadata, one entry per
// configured object name, in configuration order.
func (d *Descriptor) ObjectInfos() []rct.ObjectInfo {
	return d.objectInfos
}

// FirstObjectInfo returns the metadata of the entity's primary register, the
// one that defines its state, unit, and unique ID.
func (d *Descriptor) FirstObjectInfo() rct.ObjectInfo {
	return d.objectInfos[0]
}

// ObjectIDs returns the tracked register IDs in configuration order.
func (d *Descriptor) ObjectIDs() []uint32 {
	ids := make([]uint32, len(d.objectInfos))
	for i, info := range d.objectInfos {
		ids[i] = info.ObjectID
	}
	return ids
}

var objectNameSlugger = strings.NewReplacer(".", "_", "[", "_", "]", "_", "?", "_")

// SlugifyObjectName turns a dotted register name into a flat entity name by
// replacing separator characters with underscores.
func SlugifyObjectName(name string) string {
	return objectNameSlugger.Replace(name)
}
