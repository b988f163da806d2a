package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

const FAULT_MASK_COUNT = 4

// FaultSensorEntity tracks the four fault bitmask registers of the inverter.
// Its state is the concatenation of their binary representations in tracked
// order, rendered without leading-zero padding, or nil unless all four masks
// currently resolve to integer values.
type FaultSensorEntity struct {
	SensorEntity
}

func NewFaultSensorEntity(registry *rct.Registry, desc *Descriptor, sources []port.ResponseSource, entry ConfigEntry) (*FaultSensorEntity, error) {
	if got := len(desc.ObjectInfos()); got != FAULT_MASK_COUNT {
		return nil, fmt.Errorf("entity %q: fault sensor requires exactly %d mask registers, got %d", desc.Key, FAULT_MASK_COUNT, got)
	}
	return &FaultSensorEntity{SensorEntity: *NewSensorEntity(registry, desc, sources, entry)}, nil
}

func (e *FaultSensorEntity) State() any {
	parts := make([]string, 0, FAULT_MASK_COUNT)
	for _, id := range e.desc.ObjectIDs() {
		number, ok := e.ValueByID(id, nil).(rct.NumberValue)
		if !ok {
			return nil
		}
		mask := float64(number)
		if math.IsNaN(mask) || math.IsInf(mask, 0) || mask != math.Trunc(mask) {
			return nil
		}
		parts = append(parts, strconv.FormatInt(int64(mask), 2))
	}
	return strings.Join(parts, "")
}

func (e *FaultSensorEntity) Unit() string {
	return ""
}

func (e *FaultSensorEntity) DeviceClass() string {
	return e.desc.DeviceClass
}

func (e *FaultSensorEntity) StateAttributes() map[string]any {
	attributes := e.SensorEntity.StateAttributes()
	attributes["fault_bitmasks"] = e.FaultBitmasks()
	return attributes
}

// FaultBitmasks returns the raw mask values in tracked order, nil for masks
// that are absent or invalid.
func (e *FaultSensorEntity) FaultBitmasks() []any {
	masks := make([]any, 0, FAULT_MASK_COUNT)
	for _, id := range e.desc.ObjectIDs() {
		if number, ok := e.ValueByID(id, nil).(rct.NumberValue); ok {
			masks = append(masks, float64(number))
		} else {
			masks = append(masks, nil)
		}
	}
	return masks
}

var _ Entity = (*FaultSensorEntity)(nil)

// KnownFaults maps each bit position across the four fault masks, mask-major
// and LSB-first, to its device fault description. Pure data consumed by
// downstream labeling; the resolution logic never interprets it.
var KnownFaults = []string{
	"TRAP occurred",
	"RTC can't be configured",
	"RTC 1Hz signal timeout",
	"Hardware Stop by 3.3V fault",
	"Hardware Stop by PWM Logic",
	"Hardware Stop by Uzk overvoltage",
	"Uzk+ is over limit",
	"Uzk- is over limit",
	"Throttle Phase L1 overcurrent",
	"Throttle Phase L2 overcurrent",
	"Throttle Phase L3 overcurrent",
	"Buffer capacitor voltage",
	"Quartz fault",
	"Grid under_voltage phase 1",
	"Grid under_voltage phase 2",
	"Grid under_voltage phase 3",
	"Battery overcurrent",
	"Relays Test failed",
	"Board Over Temperature",
	"Core Over Temperature",
	"Sink 1 Over Temperature",
	"Sink 2 Over Temperature",
	"Error by I2C communication with Power Board",
	"Power Board Error",
	"PWM output ports defect",
	"Insulation is too small or not plausible",
	"I DC Component Max (1 A)",
	"I DC Component Max Slow (47 mA)",
	"One of the DSD channels possibly defect (too big current offset)",
	"Error by RS485 communication with Relays BoxIGBT L1 BH defect",
	"Phase to phase over voltage",
	"IGBT L1 BH defect",
	"IGBT L1 BL defect",
	"IGBT L2 BH defect",
	"IGBT L2 BL defect",
	"IGBT L3 BH defect",
	"IGBT L3 BL defect",
	"Long Term over voltage phase 1",
	"Long Term over voltage phase 2",
	"Long Term over voltage phase 3",
	"Over voltage phase 1, level 1",
	"Over voltage phase 1, level 2",
	"Over voltage phase 2, level 1",
	"Over voltage phase 2, level 2",
	"Over voltage phase 3, level 1",
	"Over voltage phase 3, level 2",
	"Over frequency, level 1",
	"Over frequency, level 2",
	"Under voltage phase 1, level 1",
	"Under voltage phase 1, level 2",
	"Under voltage phase 2, level 1",
	"Under voltage phase 2, level 2",
	"Under voltage phase 3, level 1",
	"Under voltage phase 3, level 2",
	"Under frequency, level 1",
	"Under frequency, level 2",
	"CPU Exception NMI",
	"CPU Exception HardFault",
	"CPU Exception MemManage",
	"CPU Exception BusFault",
	"CPU Exception UsageFault",
	"RTC Power on reset",
	"RTC Oscillation stops",
	"RTC Supply voltage drop",
	"Jump of RCD current DC + AC > 30mA was noticed",
	"Jump of RCD current DC > 60mA was noticed",
	"Jump of RCD current AC > 150mA was noticed",
	"RCD current > 300mA was noticed",
	"incorrect 5V was noticed",
	"incorrect -9V was noticed",
	"incorrect 9V was noticed",
	"incorrect 3V3 was noticed",
	"failure of RDC calibration was noticed",
	"failure of I2C was noticed",
	"afi frequency generator failure",
	"sink temperature too high",
	"Uzk is over limit",
	"Usg A is over limit",
	"Usg B is over limit",
	"Switching On Conditions Umin phase 1",
	"Switching On Conditions Umax phase 1",
	"Switching On Conditions Fmin phase 1",
	"Switching On Conditions Fmax phase 1",
	"Switching On Conditions Umin phase 2",
	"Switching On Conditions Umax phase 2",
	"Battery current sensor defect",
	"Battery booster damaged",
	"Switching On Conditions Umin phase 3",
	"Switching On Conditions Umax phase 3",
	"Voltage surge or average offset is too big on AC-terminals (phase failure detected)",
	"Inverter is disconnected from the household grid",
	"Difference of the measured +9V between DSP and PIC is too big",
	"1.5V error",
	"2.5V error",
	"1.5V measurement difference",
	"2.5V measurement difference",
	"The battery voltage is outside of the expected range",
	"Unable to start the main PIC software",
	"PIC bootloader detected unexpectedly",
	"Phase position error (not 120° as expected)",
	"Battery overvoltage",
	"Throttle current is unstable",
	"Difference between internal and external measured grid voltage is too big in phase",
	"Difference between internal and external measured grid voltage is too big in phase",
	"Difference between internal and external measured grid voltage is too big in phase",
	"External emergency turn off signal is active",
	"Battery is empty, not more energy for standby",
	"CAN communication timeout with battery",
	"Timing problem",
	"Battery IGBT's Heat Sink Over Temperature",
	"Battery heat sink temperature too high",
	"Internal Relays Box error",
	"Relays Box PE off error",
	"Relays Box PE on error",
	"Internal battery error",
	"Parameter changed",
	"3 attempts of island building are failed",
	"Phase to phase under voltage",
	"System reset detected",
	"Update detected",
	"FRT over-voltage",
	"FRT under-voltage",
	"IGBT L1 free wheeling diode defect",
	"IGBT L2 free wheeling diode defect",
	"IGBT L3 free wheeling diode defect",
	"1 phase mode is activated but not allowed for this device class (e.g. 10K)",
	"Island detected",
}
