package rct

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// RegisterReader reads decoded register responses from an RCT Power
// device. Implementations own connection lifecycle; ReadRegisters must
// return one response per requested id, invalid responses included, so
// callers can cache failures next to successes.
type RegisterReader interface {
	Open() error
	Close() error
	ReadRegisters(ctx context.Context, ids []uint32) ([]*Response, error)
}

// TestRegisterReader is a deterministic in-memory device used by tests
// and by simulation mode. Values can be overridden and failures injected
// per register id at any time.
type TestRegisterReader struct {
	registry *Registry
	now      func() time.Time

	mu       sync.Mutex
	opened   bool
	values   map[uint32]ResponseValue
	failures map[uint32]error
	reads    int
}

func NewTestRegisterReader(registry *Registry) *TestRegisterReader {
	return &TestRegisterReader{
		registry: registry,
		now:      time.Now,
		values:   make(map[uint32]ResponseValue),
		failures: make(map[uint32]error),
	}
}

func (r *TestRegisterReader) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = true
	return nil
}

func (r *TestRegisterReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = false
	return nil
}

// SetValue overrides the simulated value of one register.
func (r *TestRegisterReader) SetValue(id uint32, value ResponseValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[id] = value
	delete(r.failures, id)
}

// SetFailure makes every read of the register fail with cause.
func (r *TestRegisterReader) SetFailure(id uint32, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[id] = cause
}

// ClearFailure restores normal reads for the register.
func (r *TestRegisterReader) ClearFailure(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failures, id)
}

// Reads returns how many ReadRegisters calls completed.
func (r *TestRegisterReader) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func (r *TestRegisterReader) ReadRegisters(ctx context.Context, ids []uint32) ([]*Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opened {
		return nil, fmt.Errorf("test register reader: not open")
	}
	at := r.now()
	out := make([]*Response, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cause, ok := r.failures[id]; ok {
			out = append(out, NewInvalidResponse(id, cause, at))
			continue
		}
		if value, ok := r.values[id]; ok {
			out = append(out, NewValidResponse(id, value, at))
			continue
		}
		info, err := r.registry.GetByID(id)
		if err != nil {
			out = append(out, NewInvalidResponse(id, err, at))
			continue
		}
		out = append(out, NewValidResponse(id, simulatedValue(info), at))
	}
	r.reads++
	return out, nil
}

// simulatedValue produces a stable per-register value so repeated reads
// stay comparable across polls.
func simulatedValue(info ObjectInfo) ResponseValue {
	if v, ok := simulatedFixtures[info.Name]; ok {
		return v
	}
	switch info.Kind {
	case KindString:
		return StringValue(fmt.Sprintf("SIM-%08X", info.ObjectID))
	case KindBytes:
		raw := make([]byte, 4)
		binary.BigEndian.PutUint32(raw, info.ObjectID)
		return BytesValue(raw)
	case KindStruct:
		return StructValue{
			{Name: "timestamp", Value: float64(info.ObjectID % 86400)},
			{Name: "value", Value: float64(info.ObjectID%1000) / 10},
		}
	default:
		if info.Unit == "%" {
			return NumberValue(float64(info.ObjectID%1000) / 1000)
		}
		return NumberValue(float64(info.ObjectID%99991) / 7)
	}
}

// simulatedFixtures pins the registers whose values shape device identity
// and the common dashboard readings.
var simulatedFixtures = map[string]ResponseValue{
	"inverter_sn":                  StringValue("141E3050848A0B19"),
	"android_description":          StringValue("PS 6.0 Integra"),
	"svnversion":                   StringValue("4733"),
	"parameter_file":               StringValue("ps_6_0.par"),
	"wifi.ip":                      StringValue("192.168.178.42"),
	"battery.bms_sn":               StringValue("BMS-77E2A100"),
	"battery.bms_software_version": StringValue("0.42.5"),
	"battery.soc":                  NumberValue(0.57),
	"battery.soh":                  NumberValue(0.98),
	"battery.voltage":              NumberValue(51.8),
	"battery.current":              NumberValue(-3.4),
	"battery.temperature":          NumberValue(24.6),
	"g_sync.p_ac_sum_lp":           NumberValue(1712.5),
	"g_sync.p_ac_load_sum_lp":      NumberValue(642.1),
	"g_sync.p_ac_grid_sum_lp":      NumberValue(-1070.4),
	"g_sync.p_acc_lp":              NumberValue(-176.3),
	"grid_pll[0].f":                NumberValue(49.98),
	"energy.e_ac_day":              NumberValue(10492),
	"energy.e_ac_total":            NumberValue(5049210),
	"fault[0].flt":                 NumberValue(0),
	"fault[1].flt":                 NumberValue(0),
	"fault[2].flt":                 NumberValue(0),
	"fault[3].flt":                 NumberValue(0),
	"prim_sm.state":                NumberValue(5),
	"prim_sm.island_flag":          NumberValue(0),
}
