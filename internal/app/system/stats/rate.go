package stats

import "strconv"

// NoData is how an undefined rate is displayed.
const NoData = "-"

// Rate is a derived ratio. Valid is false when the denominator was zero;
// such a rate has no value and is shown as NoData, never as 0.
type Rate struct {
	Value float64
	Valid bool
}

// ratio divides num by den, yielding an invalid Rate for den <= 0.
func ratio(num, den int) Rate {
	if den <= 0 {
		return Rate{}
	}
	return Rate{Value: float64(num) / float64(den), Valid: true}
}

// Percent formats the rate as a percentage with the given decimals ("40.0%").
func (r Rate) Percent(decimals int) string {
	if !r.Valid {
		return NoData
	}
	return strconv.FormatFloat(r.Value*100, 'f', decimals, 64) + "%"
}

// Fixed formats the raw value with the given decimals ("0.912", "2.50").
func (r Rate) Fixed(decimals int) string {
	if !r.Valid {
		return NoData
	}
	return strconv.FormatFloat(r.Value, 'f', decimals, 64)
}

// MarshalJSON encodes a valid rate as a number and an invalid one as null.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}
