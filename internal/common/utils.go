package common

import "strconv"

// RoundTo rounds v to the given number of decimal places. Rounding is done on
// the exact binary value, ties to even, so 17.45 (stored as 17.4499...) gives
// 17.4 and 2.25 gives 2.2.
func RoundTo(v float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
