package encoding

// RedundancyBits returns the smallest r with 2^r >= m+r+1.
func RedundancyBits(m int) int {
	r := 0
	for (1 << r) < m+r+1 {
		r++
	}
	return r
}

// IsParityPosition reports whether the 1-indexed position pos is a power of two.
func IsParityPosition(pos int) bool {
	return pos > 0 && pos&(pos-1) == 0
}

// Layout places the data digits into a codeword of length len(data)+r,
// leaving zero placeholders at the power-of-two positions. Index 0 of the
// result is position 1.
func Layout(data []byte, r int) []byte {
	field := make([]byte, len(data)+r)
	next := 0
	for i := range field {
		if IsParityPosition(i + 1) {
			continue
		}
		field[i] = data[next]
		next++
	}
	return field
}

// ParityBits computes the r redundancy bits of the codeword, in order of
// increasing parity position. Every bit is computed from the unmodified
// field, so the order of computation does not matter.
func ParityBits(field []byte, r int) []byte {
	out := make([]byte, r)
	for i := 0; i < r; i++ {
		out[i] = calculateParity(field, 1<<i)
	}
	return out
}

func calculateParity(field []byte, parityPos int) byte {
	var par byte
	for j := 1; j <= len(field); j++ {
		if j&parityPos != 0 {
			par ^= field[j-1]
		}
	}
	return par
}

// HammingParity returns the Hamming redundancy bits for a bit string. Only
// the redundancy bits are returned, never the full codeword.
func HammingParity(bits string) string {
	data := Digits(bits)
	r := RedundancyBits(len(data))
	return Bits(ParityBits(Layout(data, r), r))
}
