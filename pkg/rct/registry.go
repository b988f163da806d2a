package rct

import (
	"errors"
	"fmt"
)

// RawKind is the wire data kind of a register as declared by the device
// object table. It decides how a cached response value may be rendered.
type RawKind int

const (
	KindNumber RawKind = iota
	KindString
	KindBytes
	KindStruct
)

func (k RawKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Well-known object names referenced programmatically by the entity layer.
const (
	ObjectInverterSerial      = "inverter_sn"
	ObjectInverterDescription = "android_description"
	ObjectInverterVersion     = "svnversion"
	ObjectBatterySerial       = "battery.bms_sn"
	ObjectBatteryVersion      = "battery.bms_software_version"
)

// ObjectInfo is the static metadata of one readable register.
type ObjectInfo struct {
	ObjectID uint32
	Name     string
	Unit     string
	Kind     RawKind
}

var ErrObjectNotFound = errors.New("object not found in registry")

// Registry is a read-only lookup of the device object table. A single
// instance is built at startup and injected wherever name resolution is
// needed, so descriptor construction stays deterministic and testable.
type Registry struct {
	byName map[string]ObjectInfo
	byID   map[uint32]ObjectInfo
	sorted []ObjectInfo
}

func NewRegistry() *Registry {
	reg := &Registry{
		byName: make(map[string]ObjectInfo, len(objects)),
		byID:   make(map[uint32]ObjectInfo, len(objects)),
		sorted: objects,
	}
	for _, info := range objects {
		reg.byName[info.Name] = info
		reg.byID[info.ObjectID] = info
	}
	return reg
}

func (r *Registry) GetByName(name string) (ObjectInfo, error) {
	info, ok := r.byName[name]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	return info, nil
}

func (r *Registry) GetByID(id uint32) (ObjectInfo, error) {
	info, ok := r.byID[id]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("%w: 0x%08X", ErrObjectNotFound, id)
	}
	return info, nil
}

// All returns the full object table in declaration order.
func (r *Registry) All() []ObjectInfo {
	return r.sorted
}

// objects is the built-in table of well-known registers of the RCT Power
// Storage series. IDs, units and kinds follow the vendor object list.
var objects = []ObjectInfo{
	// identity
	{ObjectID: 0x7924ABD9, Name: "inverter_sn", Kind: KindString},
	{ObjectID: 0xEBC62737, Name: "android_description", Kind: KindString},
	{ObjectID: 0xDDD1C2D0, Name: "svnversion", Kind: KindString},
	{ObjectID: 0x68BC034D, Name: "parameter_file", Kind: KindString},
	{ObjectID: 0x5077CE9B, Name: "wifi.ip", Kind: KindString},
	{ObjectID: 0x16A1F844, Name: "battery.bms_sn", Kind: KindString},
	{ObjectID: 0x1B39A3A3, Name: "battery.bms_software_version", Kind: KindString},

	// battery
	{ObjectID: 0x959930BF, Name: "battery.soc", Unit: "%", Kind: KindNumber},
	{ObjectID: 0x8B9FF008, Name: "battery.soc_target", Unit: "%", Kind: KindNumber},
	{ObjectID: 0xB84A38AB, Name: "battery.soc_target_high", Unit: "%", Kind: KindNumber},
	{ObjectID: 0xA7FA5C5D, Name: "battery.soc_target_low", Unit: "%", Kind: KindNumber},
	{ObjectID: 0xA7447453, Name: "battery.voltage", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x21961B58, Name: "battery.current", Unit: "A", Kind: KindNumber},
	{ObjectID: 0x902AFAFB, Name: "battery.temperature", Unit: "°C", Kind: KindNumber},
	{ObjectID: 0x381B8BF9, Name: "battery.soh", Unit: "%", Kind: KindNumber},
	{ObjectID: 0xC0DF2978, Name: "battery.cycles", Kind: KindNumber},
	{ObjectID: 0x5570401B, Name: "battery.stored_energy", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xA9033880, Name: "battery.ah_capacity", Unit: "Ah", Kind: KindNumber},
	{ObjectID: 0x9A33F9B7, Name: "battery.charged_amp_hours", Unit: "Ah", Kind: KindNumber},
	{ObjectID: 0x5A9EEFF0, Name: "battery.discharged_amp_hours", Unit: "Ah", Kind: KindNumber},
	{ObjectID: 0xD9E721A5, Name: "battery.efficiency", Unit: "%", Kind: KindNumber},
	{ObjectID: 0x70A2AF4F, Name: "battery.status", Kind: KindNumber},
	{ObjectID: 0x1061FA60, Name: "battery.status2", Kind: KindNumber},
	{ObjectID: 0x889DC27F, Name: "battery.max_cell_voltage", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x2A30A97E, Name: "battery.min_cell_voltage", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x8EC23427, Name: "battery.cells_stat[0]", Kind: KindBytes},

	// power flow
	{ObjectID: 0xDB2D69AE, Name: "g_sync.p_ac_sum_lp", Unit: "W", Kind: KindNumber},
	{ObjectID: 0x27BE51D9, Name: "g_sync.p_ac_lp[0]", Unit: "W", Kind: KindNumber},
	{ObjectID: 0xF5584F90, Name: "g_sync.p_ac_lp[1]", Unit: "W", Kind: KindNumber},
	{ObjectID: 0xB221BCDC, Name: "g_sync.p_ac_lp[2]", Unit: "W", Kind: KindNumber},
	{ObjectID: 0x1AC87AA0, Name: "g_sync.p_ac_load_sum_lp", Unit: "W", Kind: KindNumber},
	{ObjectID: 0x91617C58, Name: "g_sync.p_ac_grid_sum_lp", Unit: "W", Kind: KindNumber},
	{ObjectID: 0xB55BA2CE, Name: "g_sync.p_acc_lp", Unit: "W", Kind: KindNumber},
	{ObjectID: 0xCF053085, Name: "g_sync.u_l_rms[0]", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x54B4684E, Name: "g_sync.u_l_rms[1]", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x2545E22D, Name: "g_sync.u_l_rms[2]", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x4077335D, Name: "g_sync.i_dr_eff[0]", Unit: "A", Kind: KindNumber},
	{ObjectID: 0x883DE9AB, Name: "g_sync.i_dr_eff[1]", Unit: "A", Kind: KindNumber},
	{ObjectID: 0x0F28E2E1, Name: "g_sync.i_dr_eff[2]", Unit: "A", Kind: KindNumber},
	{ObjectID: 0x9558AD8A, Name: "grid_pll[0].f", Unit: "Hz", Kind: KindNumber},
	{ObjectID: 0xDB11855B, Name: "dc_conv.dc_conv_struct[0].p_dc_lp", Unit: "W", Kind: KindNumber},
	{ObjectID: 0x0CB5D21B, Name: "dc_conv.dc_conv_struct[1].p_dc_lp", Unit: "W", Kind: KindNumber},
	{ObjectID: 0xB298395D, Name: "dc_conv.dc_conv_struct[0].u_sg_lp", Unit: "V", Kind: KindNumber},
	{ObjectID: 0x5BB8075A, Name: "dc_conv.dc_conv_struct[1].u_sg_lp", Unit: "V", Kind: KindNumber},
	{ObjectID: 0xDCA1CF26, Name: "io_board.s0_external_power", Unit: "W", Kind: KindNumber},

	// temperatures
	{ObjectID: 0xC24E85D0, Name: "db.core_temp", Unit: "°C", Kind: KindNumber},
	{ObjectID: 0xF79D41D9, Name: "db.temp1", Unit: "°C", Kind: KindNumber},

	// energy counters
	{ObjectID: 0x3A873333, Name: "energy.e_ac_day", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x60A9A532, Name: "energy.e_ac_month", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xAF64D0FE, Name: "energy.e_ac_year", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xFC724A9E, Name: "energy.e_ac_total", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x44D4C533, Name: "energy.e_grid_feed_day", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x65B624AB, Name: "energy.e_grid_feed_month", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xE4DC040A, Name: "energy.e_grid_feed_year", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x44AE4B47, Name: "energy.e_grid_feed_total", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x916AFCA7, Name: "energy.e_grid_load_day", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xBD55905F, Name: "energy.e_grid_load_month", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x26EFFC2F, Name: "energy.e_grid_load_year", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x5F28C04F, Name: "energy.e_grid_load_total", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x2AE703F2, Name: "energy.e_load_day", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x60FA6E5D, Name: "energy.e_load_month", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xCDB01D45, Name: "energy.e_load_year", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xEFF4B537, Name: "energy.e_load_total", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x245D23D3, Name: "energy.e_dc_day[0]", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0x9CF3FE2D, Name: "energy.e_dc_day[1]", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xFBF3CE97, Name: "energy.e_dc_total[0]", Unit: "Wh", Kind: KindNumber},
	{ObjectID: 0xB9A026F9, Name: "energy.e_dc_total[1]", Unit: "Wh", Kind: KindNumber},

	// faults
	{ObjectID: 0x37F9D5CA, Name: "fault[0].flt", Kind: KindNumber},
	{ObjectID: 0x234B4736, Name: "fault[1].flt", Kind: KindNumber},
	{ObjectID: 0x3B7FCD47, Name: "fault[2].flt", Kind: KindNumber},
	{ObjectID: 0x741B5574, Name: "fault[3].flt", Kind: KindNumber},

	// operating state
	{ObjectID: 0x5F33284E, Name: "prim_sm.state", Kind: KindNumber},
	{ObjectID: 0x7A9091EA, Name: "prim_sm.island_flag", Kind: KindNumber},
	{ObjectID: 0xF168B748, Name: "power_mng.soc_strategy", Kind: KindNumber},
	{ObjectID: 0xCE266F0F, Name: "power_mng.soc_min", Unit: "%", Kind: KindNumber},
	{ObjectID: 0x97997C93, Name: "power_mng.soc_max", Unit: "%", Kind: KindNumber},
	{ObjectID: 0xE9BBF6E4, Name: "power_mng.battery_power_extern", Unit: "W", Kind: KindNumber},

	// logged time series, readable as raw dumps only
	{ObjectID: 0x2F0A6B15, Name: "logger.minutes_ubat_log_ts", Kind: KindStruct},
	{ObjectID: 0x76C9A0BD, Name: "logger.minutes_soc_log_ts", Kind: KindStruct},
	{ObjectID: 0x5293B668, Name: "logger.minutes_eb_log_ts", Kind: KindStruct},
}
