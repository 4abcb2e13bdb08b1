// Package encoding converts messages to and from their bit-string form.
//
// A message is a sequence of characters whose code points fit in one byte.
// Its bit string is made of the ASCII digits '0' and '1', eight per
// character, most significant bit first.
package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const ONE byte = '1'
const ZERO byte = '0'

// BlockLen is the number of bits per character.
const BlockLen = 8

var (
	// ErrEncoding is returned when a character does not fit in one byte.
	ErrEncoding = errors.New("character cannot be encoded in one byte")
	// ErrDecode is returned when an 8-bit group is not a valid byte.
	ErrDecode = errors.New("bit group does not form a valid byte")
)

// Bytes returns the single-byte encoding of message.
func Bytes(message string) ([]byte, error) {
	out := make([]byte, 0, len(message))
	for i, c := range message {
		if c > 0xFF {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrEncoding, c, i)
		}
		out = append(out, byte(c))
	}
	return out, nil
}

// FromBytes is the inverse of Bytes.
func FromBytes(b []byte) string {
	runes := make([]rune, len(b))
	for i, v := range b {
		runes[i] = rune(v)
	}
	return string(runes)
}

// ToBits returns the bit string of message, 8 bits per character.
func ToBits(message string) (string, error) {
	b, err := Bytes(message)
	if err != nil {
		return "", err
	}
	var buffer strings.Builder
	buffer.Grow(len(b) * BlockLen)
	for _, c := range b {
		fmt.Fprintf(&buffer, "%.8b", c)
	}
	return buffer.String(), nil
}

// FromBits groups bits into 8-bit characters. A trailing group shorter than
// 8 bits is discarded silently.
func FromBits(bits string) (string, error) {
	out := make([]rune, 0, len(bits)/BlockLen)
	for index := 0; index+BlockLen <= len(bits); index += BlockLen {
		chunk := bits[index : index+BlockLen]
		char, err := strconv.ParseUint(chunk, 2, BlockLen)
		if err != nil {
			return "", fmt.Errorf("%w: %q at bit %d", ErrDecode, chunk, index)
		}
		out = append(out, rune(char))
	}
	return string(out), nil
}

// Digits converts a bit string into a slice of 0/1 values. Any character
// other than '1' counts as zero.
func Digits(bits string) []byte {
	out := make([]byte, len(bits))
	for i := 0; i < len(bits); i++ {
		if bits[i] == ONE {
			out[i] = 1
		}
	}
	return out
}

// Bits is the inverse of Digits.
func Bits(digits []byte) string {
	out := make([]byte, len(digits))
	for i, d := range digits {
		if d&1 == 1 {
			out[i] = ONE
		} else {
			out[i] = ZERO
		}
	}
	return string(out)
}

// Flip toggles the bit at index in place.
func Flip(b []byte, index int) {
	if b[index] == ZERO {
		b[index] = ONE
	} else {
		b[index] = ZERO
	}
}
