package service

import (
	"fmt"
)

// RenderStateText renders a resolved entity state as the text form shared
// by the MQTT state payload and the SQLite history log. A nil state
// renders empty, which the host platform reads as unknown.
func RenderStateText(state any) string {
	switch v := state.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StateAsFloat reports whether the state carries a numeric value, for
// sinks that only record numbers.
func StateAsFloat(state any) (float64, bool) {
	v, ok := state.(float64)
	return v, ok
}
