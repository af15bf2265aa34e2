package xls97

import "testing"

func TestDecodeRK(t *testing.T) {
	tests := []struct {
		name string
		rk   uint32
		want float64
	}{
		{"int zero", 0x00000002, 0.0},
		{"float one, no mult", 0x3FF00000, 1.0},
		{"float, mult100", 0x3FF00001, 0.01},
		{"int five, mult100", 0x00000017, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeRK(tt.rk); got != tt.want {
				t.Errorf("decodeRK(%#08x) = %v, want %v", tt.rk, got, tt.want)
			}
		})
	}
}
