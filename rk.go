package xls97

import "math"

// decodeRK unpacks a BIFF RK-encoded number: 30 high bits of an IEEE-754
// double (low 34 bits implicitly zero), or a 30-bit integer, optionally
// divided by 100. Bit 0 is the /100 flag, bit 1 selects the integer form.
func decodeRK(rk uint32) float64 {
	isInt := rk&0x2 != 0
	mult100 := rk&0x1 != 0

	var v float64
	if isInt {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if mult100 {
		v /= 100.0
	}
	return v
}
