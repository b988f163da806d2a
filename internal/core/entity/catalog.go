package entity

import (
	"fmt"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/service"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// Variant selects one of the closed set of entity behaviors.
type Variant int

const (
	VARIANT_SENSOR Variant = iota
	VARIANT_INVERTER_SENSOR
	VARIANT_BATTERY_SENSOR
	VARIANT_FAULT_SENSOR
	VARIANT_ATTRIBUTES_SENSOR
)

type CatalogItem struct {
	Variant    Variant
	Descriptor Descriptor
}

// NewEntity materializes one catalog item: it resolves the descriptor against
// the registry and constructs the concrete variant bound to the given source
// order and config entry.
func NewEntity(registry *rct.Registry, item CatalogItem, sources []port.ResponseSource, entry ConfigEntry) (Entity, error) {
	desc, err := NewDescriptor(registry, item.Descriptor)
	if err != nil {
		return nil, err
	}
	switch item.Variant {
	case VARIANT_SENSOR:
		return NewSensorEntity(registry, desc, sources, entry), nil
	case VARIANT_INVERTER_SENSOR:
		return NewInverterSensorEntity(registry, desc, sources, entry)
	case VARIANT_BATTERY_SENSOR:
		return NewBatterySensorEntity(registry, desc, sources, entry)
	case VARIANT_FAULT_SENSOR:
		return NewFaultSensorEntity(registry, desc, sources, entry)
	case VARIANT_ATTRIBUTES_SENSOR:
		return NewAttributesSensorEntity(registry, desc, sources, entry), nil
	default:
		return nil, fmt.Errorf("entity %q: unknown variant %d", item.Descriptor.Key, item.Variant)
	}
}

// BuildCatalog materializes the whole built-in catalog. Any unknown register
// name fails the build, so a bad catalog cannot reach runtime half-working.
func BuildCatalog(registry *rct.Registry, sources []port.ResponseSource, entry ConfigEntry) ([]Entity, error) {
	entities := make([]Entity, 0, len(catalogItems))
	for _, item := range catalogItems {
		e, err := NewEntity(registry, item, sources, entry)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// Catalog returns the built-in catalog items.
func Catalog() []CatalogItem {
	return catalogItems
}

// FilterByPriority returns the entities of one polling tier.
func FilterByPriority(entities []Entity, priority UpdatePriority) []Entity {
	filtered := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.Descriptor().UpdatePriority == priority {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ObjectIDsByPriority returns the distinct register IDs tracked by one tier,
// in first-seen order. This is the poll set of that tier's coordinator.
func ObjectIDsByPriority(entities []Entity, priority UpdatePriority) []uint32 {
	seen := make(map[uint32]bool)
	ids := make([]uint32, 0, len(entities))
	for _, e := range FilterByPriority(entities, priority) {
		for _, id := range e.Descriptor().ObjectIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// DeviceIdentities picks the current inverter and battery identities out of
// an entity list. Either may be nil when the catalog carries no entity of
// that variant.
func DeviceIdentities(entities []Entity) (inverter *DeviceIdentity, battery *DeviceIdentity) {
	for _, e := range entities {
		switch e.(type) {
		case *InverterSensorEntity:
			if inverter == nil {
				inverter = e.DeviceIdentity()
			}
		case *BatterySensorEntity:
			if battery == nil {
				battery = e.DeviceIdentity()
			}
		}
	}
	return inverter, battery
}

func optionalBool(value bool) *bool {
	return &value
}

// catalogItems is the built-in entity set of the integration. Keys are
// stable; renaming one changes entity identities downstream.
var catalogItems = []CatalogItem{
	// fast-moving power flow and battery readings
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_state_of_charge",
			Name:           "Battery State of Charge",
			Icon:           "mdi:battery-high",
			ObjectNames:    []string{"battery.soc"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_state_of_charge_target",
			Name:           "Battery State of Charge Target",
			Icon:           "mdi:battery-heart-outline",
			ObjectNames:    []string{"battery.soc_target"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_voltage",
			Name:           "Battery Voltage",
			ObjectNames:    []string{"battery.voltage"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_current",
			Name:           "Battery Current",
			ObjectNames:    []string{"battery.current"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_temperature",
			Name:           "Battery Temperature",
			ObjectNames:    []string{"battery.temperature"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_power",
			Name:           "Battery Power",
			Icon:           "mdi:battery-charging",
			ObjectNames:    []string{"g_sync.p_acc_lp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_power",
			Name:           "Inverter AC Power",
			ObjectNames:    []string{"g_sync.p_ac_sum_lp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_power",
			Name:           "Grid Power",
			Icon:           "mdi:transmission-tower",
			ObjectNames:    []string{"g_sync.p_ac_grid_sum_lp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "load_power",
			Name:           "Load Power",
			Icon:           "mdi:home-lightning-bolt",
			ObjectNames:    []string{"g_sync.p_ac_load_sum_lp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "solar_gen_a_power",
			Name:           "Solar Generator A Power",
			Icon:           "mdi:solar-panel",
			ObjectNames:    []string{"dc_conv.dc_conv_struct[0].p_dc_lp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "solar_gen_b_power",
			Name:           "Solar Generator B Power",
			Icon:           "mdi:solar-panel",
			ObjectNames:    []string{"dc_conv.dc_conv_struct[1].p_dc_lp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "solar_gen_a_voltage",
			Name:             "Solar Generator A Voltage",
			ObjectNames:      []string{"dc_conv.dc_conv_struct[0].u_sg_lp"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "solar_gen_b_voltage",
			Name:             "Solar Generator B Voltage",
			ObjectNames:      []string{"dc_conv.dc_conv_struct[1].u_sg_lp"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_frequency",
			Name:           "Grid Frequency",
			Icon:           "mdi:sine-wave",
			ObjectNames:    []string{"grid_pll[0].f"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "phase_a_voltage",
			Name:             "Phase A Voltage",
			ObjectNames:      []string{"g_sync.u_l_rms[0]"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "phase_b_voltage",
			Name:             "Phase B Voltage",
			ObjectNames:      []string{"g_sync.u_l_rms[1]"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "phase_c_voltage",
			Name:             "Phase C Voltage",
			ObjectNames:      []string{"g_sync.u_l_rms[2]"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "phase_a_current",
			Name:             "Phase A Current",
			ObjectNames:      []string{"g_sync.i_dr_eff[0]"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "phase_b_current",
			Name:             "Phase B Current",
			ObjectNames:      []string{"g_sync.i_dr_eff[1]"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "phase_c_current",
			Name:             "Phase C Current",
			ObjectNames:      []string{"g_sync.i_dr_eff[2]"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_FAULT_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_faults",
			Name:           "Inverter Faults",
			Icon:           "mdi:alert-circle-outline",
			ObjectNames:    []string{"fault[0].flt", "fault[1].flt", "fault[2].flt", "fault[3].flt"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "s0_external_power",
			Name:             "S0 External Power",
			ObjectNames:      []string{"io_board.s0_external_power"},
			UpdatePriority:   UPDATE_PRIORITY_FREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "core_temperature",
			Name:           "Inverter Core Temperature",
			ObjectNames:    []string{"db.core_temp"},
			UpdatePriority: UPDATE_PRIORITY_FREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},

	// energy counters
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_day_energy",
			Name:           "Inverter Day Energy",
			Icon:           "mdi:counter",
			ObjectNames:    []string{"energy.e_ac_day"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_DAILY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_month_energy",
			Name:           "Inverter Month Energy",
			Icon:           "mdi:counter",
			ObjectNames:    []string{"energy.e_ac_month"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_MONTHLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_year_energy",
			Name:           "Inverter Year Energy",
			Icon:           "mdi:counter",
			ObjectNames:    []string{"energy.e_ac_year"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_YEARLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_total_energy",
			Name:           "Inverter Total Energy",
			Icon:           "mdi:counter",
			ObjectNames:    []string{"energy.e_ac_total"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_INITIALLY,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_feed_day_energy",
			Name:           "Grid Feed-in Day Energy",
			Icon:           "mdi:transmission-tower-import",
			ObjectNames:    []string{"energy.e_grid_feed_day"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_DAILY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_feed_month_energy",
			Name:           "Grid Feed-in Month Energy",
			Icon:           "mdi:transmission-tower-import",
			ObjectNames:    []string{"energy.e_grid_feed_month"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_MONTHLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_feed_year_energy",
			Name:           "Grid Feed-in Year Energy",
			Icon:           "mdi:transmission-tower-import",
			ObjectNames:    []string{"energy.e_grid_feed_year"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_YEARLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_feed_total_energy",
			Name:           "Grid Feed-in Total Energy",
			Icon:           "mdi:transmission-tower-import",
			ObjectNames:    []string{"energy.e_grid_feed_total"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_INITIALLY,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_load_day_energy",
			Name:           "Grid Import Day Energy",
			Icon:           "mdi:transmission-tower-export",
			ObjectNames:    []string{"energy.e_grid_load_day"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_DAILY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_load_month_energy",
			Name:           "Grid Import Month Energy",
			Icon:           "mdi:transmission-tower-export",
			ObjectNames:    []string{"energy.e_grid_load_month"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_MONTHLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_load_year_energy",
			Name:           "Grid Import Year Energy",
			Icon:           "mdi:transmission-tower-export",
			ObjectNames:    []string{"energy.e_grid_load_year"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_YEARLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "grid_load_total_energy",
			Name:           "Grid Import Total Energy",
			Icon:           "mdi:transmission-tower-export",
			ObjectNames:    []string{"energy.e_grid_load_total"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_INITIALLY,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "load_day_energy",
			Name:           "Load Day Energy",
			Icon:           "mdi:home-lightning-bolt",
			ObjectNames:    []string{"energy.e_load_day"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_DAILY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "load_month_energy",
			Name:           "Load Month Energy",
			Icon:           "mdi:home-lightning-bolt",
			ObjectNames:    []string{"energy.e_load_month"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_MONTHLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "load_year_energy",
			Name:           "Load Year Energy",
			Icon:           "mdi:home-lightning-bolt",
			ObjectNames:    []string{"energy.e_load_year"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_YEARLY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "load_total_energy",
			Name:           "Load Total Energy",
			Icon:           "mdi:home-lightning-bolt",
			ObjectNames:    []string{"energy.e_load_total"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_INITIALLY,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "solar_gen_a_day_energy",
			Name:           "Solar Generator A Day Energy",
			Icon:           "mdi:solar-panel",
			ObjectNames:    []string{"energy.e_dc_day[0]"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_DAILY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "solar_gen_b_day_energy",
			Name:           "Solar Generator B Day Energy",
			Icon:           "mdi:solar-panel",
			ObjectNames:    []string{"energy.e_dc_day[1]"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_DAILY,
			StateClass:     service.STATE_CLASS_TOTAL,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "solar_gen_a_total_energy",
			Name:           "Solar Generator A Total Energy",
			Icon:           "mdi:solar-panel",
			ObjectNames:    []string{"energy.e_dc_total[0]"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_INITIALLY,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "solar_gen_b_total_energy",
			Name:           "Solar Generator B Total Energy",
			Icon:           "mdi:solar-panel",
			ObjectNames:    []string{"energy.e_dc_total[1]"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			MeteredReset:   METERED_RESET_INITIALLY,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
		},
	},

	// battery statistics
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_state_of_health",
			Name:           "Battery State of Health",
			Icon:           "mdi:battery-heart",
			ObjectNames:    []string{"battery.soh"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_cycles",
			Name:           "Battery Cycles",
			Icon:           "mdi:battery-sync",
			ObjectNames:    []string{"battery.cycles"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			StateClass:     service.STATE_CLASS_TOTAL_INCREASING,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_stored_energy",
			Name:           "Battery Stored Energy",
			ObjectNames:    []string{"battery.stored_energy"},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			DeviceClass:    service.DEVICE_CLASS_ENERGY_STORAGE,
			StateClass:     service.STATE_CLASS_MEASUREMENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:              "battery_charged_amp_hours",
			Name:             "Battery Charged Amp Hours",
			ObjectNames:      []string{"battery.charged_amp_hours"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			StateClass:       service.STATE_CLASS_TOTAL_INCREASING,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:              "battery_discharged_amp_hours",
			Name:             "Battery Discharged Amp Hours",
			ObjectNames:      []string{"battery.discharged_amp_hours"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			StateClass:       service.STATE_CLASS_TOTAL_INCREASING,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:              "battery_min_cell_voltage",
			Name:             "Battery Minimum Cell Voltage",
			ObjectNames:      []string{"battery.min_cell_voltage"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:              "battery_max_cell_voltage",
			Name:             "Battery Maximum Cell Voltage",
			ObjectNames:      []string{"battery.max_cell_voltage"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			StateClass:       service.STATE_CLASS_MEASUREMENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:              "battery_status",
			Name:             "Battery Status",
			ObjectNames:      []string{"battery.status"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:              "battery_cell_status",
			Name:             "Battery Cell Status",
			ObjectNames:      []string{"battery.cells_stat[0]"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:              "inverter_status",
			Name:             "Inverter Status",
			ObjectNames:      []string{"prim_sm.state"},
			UpdatePriority:   UPDATE_PRIORITY_INFREQUENT,
			EntityCategory:   service.ENTITY_CATEGORY_DIAGNOSTIC,
			EnabledByDefault: optionalBool(false),
		},
	},
	{
		Variant: VARIANT_ATTRIBUTES_SENSOR,
		Descriptor: Descriptor{
			Key:  "power_management",
			Name: "Power Management",
			Icon: "mdi:tune",
			ObjectNames: []string{
				"power_mng.soc_strategy",
				"power_mng.soc_min",
				"power_mng.soc_max",
				"power_mng.battery_power_extern",
			},
			UpdatePriority: UPDATE_PRIORITY_INFREQUENT,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},

	// identity and rarely-changing configuration
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_serial_number",
			Name:           "Inverter Serial Number",
			ObjectNames:    []string{"inverter_sn"},
			UpdatePriority: UPDATE_PRIORITY_STATIC,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_INVERTER_SENSOR,
		Descriptor: Descriptor{
			Key:            "inverter_software_version",
			Name:           "Inverter Software Version",
			ObjectNames:    []string{"svnversion"},
			UpdatePriority: UPDATE_PRIORITY_STATIC,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_serial_number",
			Name:           "Battery Serial Number",
			ObjectNames:    []string{"battery.bms_sn"},
			UpdatePriority: UPDATE_PRIORITY_STATIC,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_software_version",
			Name:           "Battery Software Version",
			ObjectNames:    []string{"battery.bms_software_version"},
			UpdatePriority: UPDATE_PRIORITY_STATIC,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_BATTERY_SENSOR,
		Descriptor: Descriptor{
			Key:            "battery_capacity",
			Name:           "Battery Capacity",
			ObjectNames:    []string{"battery.ah_capacity"},
			UpdatePriority: UPDATE_PRIORITY_STATIC,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
	{
		Variant: VARIANT_ATTRIBUTES_SENSOR,
		Descriptor: Descriptor{
			Key:  "battery_calibration",
			Name: "Battery Calibration",
			Icon: "mdi:battery-unknown",
			ObjectNames: []string{
				"battery.soc_target_high",
				"battery.soc_target_low",
				"battery.efficiency",
				"battery.ah_capacity",
			},
			UpdatePriority: UPDATE_PRIORITY_STATIC,
			EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
}
