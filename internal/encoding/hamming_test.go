package encoding

import "testing"

func TestRedundancyBits(t *testing.T) {
	tests := []struct {
		m, r int
	}{
		{0, 0},
		{1, 2},
		{4, 3},
		{8, 4},
		{11, 4},
		{12, 5},
		{16, 5},
		{40, 6},
		{72, 7},
	}
	for _, tt := range tests {
		if got := RedundancyBits(tt.m); got != tt.r {
			t.Errorf("RedundancyBits(%d): expected %d, got %d", tt.m, tt.r, got)
		}
	}
}

func TestIsParityPosition(t *testing.T) {
	for pos, want := range map[int]bool{0: false, 1: true, 2: true, 3: false, 4: true, 6: false, 8: true, 12: false, 16: true} {
		if IsParityPosition(pos) != want {
			t.Errorf("IsParityPosition(%d): expected %v", pos, want)
		}
	}
}

func TestLayout(t *testing.T) {
	data := Digits("01000001")
	field := Layout(data, 4)
	// positions 1,2,4,8 are placeholders
	if got := Bits(field); got != "000010000001" {
		t.Errorf("unexpected layout %s", got)
	}
}

func TestHammingParity(t *testing.T) {
	tests := []struct {
		bits     string
		expected string
	}{
		{"", ""},
		{"01000001", "1001"},
		{"0110000101100010", "01011"},
	}
	for _, tt := range tests {
		if got := HammingParity(tt.bits); got != tt.expected {
			t.Errorf("HammingParity(%s): expected %s, got %s", tt.bits, tt.expected, got)
		}
	}
}

func TestParityBitsOrderIndependent(t *testing.T) {
	data := Digits("0110000101100010")
	r := RedundancyBits(len(data))
	field := Layout(data, r)
	forward := ParityBits(field, r)
	for i := r - 1; i >= 0; i-- {
		if calculateParity(field, 1<<i) != forward[i] {
			t.Errorf("parity bit %d depends on computation order", i)
		}
	}
}
