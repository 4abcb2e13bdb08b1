package injection

import "github.com/harlequix/parcheck/internal/encoding"

// FlipBits flips n uniformly chosen bit positions. Positions are drawn with
// replacement, so two draws of the same position cancel out.
func FlipBits(src Source, message string, n int) string {
	if message == "" || n <= 0 {
		return message
	}
	return damage(message, func(bits []byte) {
		for i := 0; i < n; i++ {
			encoding.Flip(bits, src.Intn(len(bits)))
		}
	})
}

// Burst flips length consecutive bits starting at a uniformly chosen
// position. A burst longer than the message covers the whole message.
func Burst(src Source, message string, length int) string {
	if message == "" || length <= 0 {
		return message
	}
	return damage(message, func(bits []byte) {
		if length > len(bits) {
			length = len(bits)
		}
		start := src.Intn(len(bits) - length + 1)
		for i := start; i < start+length; i++ {
			encoding.Flip(bits, i)
		}
	})
}

// damage runs fn over the bit string of message and converts the result
// back. Any encoding or decoding failure yields the original message.
func damage(message string, fn func(bits []byte)) string {
	bitString, err := encoding.ToBits(message)
	if err != nil {
		return message
	}
	bits := []byte(bitString)
	fn(bits)
	out, err := encoding.FromBits(string(bits))
	if err != nil {
		return message
	}
	return out
}
