package detection

import (
	"fmt"

	"github.com/harlequix/parcheck/internal/encoding"
)

// InternetChecksum is the RFC 1071 one's complement sum of 16-bit big
// endian words, formatted as four lowercase hex digits.
type InternetChecksum struct{}

func (InternetChecksum) Method() Method { return Checksum }

func (InternetChecksum) Generate(message string) (string, error) {
	data, err := encoding.Bytes(message)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04x", ^sum16(data)&0xFFFF), nil
}

func sum16(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 2 {
		word := uint32(data[i]) << 8
		if i+1 < len(data) {
			word |= uint32(data[i+1])
		}
		sum += word
		for sum > 0xFFFF {
			sum = (sum & 0xFFFF) + (sum >> 16)
		}
	}
	return sum
}
