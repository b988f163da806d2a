package entity

import (
	"encoding/hex"
	"math"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// NormalizeValue converts a raw register value into its display form. It is
// total over the response value variants and never fails:
//   - byte sequences render as lowercase hex
//   - structured values have no scalar rendering and become nil
//   - numbers with unit "%" are fractional on the wire and scale by 100
//   - all numbers round to one decimal place
//   - strings pass through unchanged
func NormalizeValue(value rct.ResponseValue, unit string) any {
	switch v := value.(type) {
	case rct.BytesValue:
		return hex.EncodeToString(v)
	case rct.StructValue:
		return nil
	case rct.NumberValue:
		n := float64(v)
		if unit == "%" {
			n *= 100
		}
		return math.Round(n*10) / 10
	case rct.StringValue:
		return string(v)
	default:
		return nil
	}
}
