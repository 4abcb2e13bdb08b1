package detection

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/harlequix/parcheck/internal/encoding"
)

// CyclicRedundancy computes the remainder of the message bits, extended by
// degree zero bits, divided by the generator polynomial over GF(2).
type CyclicRedundancy struct {
	poly   uint64
	degree int
	// divisor holds the polynomial as 0/1 digits, most significant first.
	divisor []byte
}

// NewCRC returns a CRC detector for the generator poly. The sender and the
// receiver must use the same polynomial.
func NewCRC(poly uint64) (*CyclicRedundancy, error) {
	degree := bits.Len64(poly) - 1
	if degree < 1 {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidPolynomial, poly)
	}
	return &CyclicRedundancy{
		poly:    poly,
		degree:  degree,
		divisor: encoding.Digits(strconv.FormatUint(poly, 2)),
	}, nil
}

func (c *CyclicRedundancy) Method() Method { return CRC }

// Degree is the length of the generated control info.
func (c *CyclicRedundancy) Degree() int { return c.degree }

func (c *CyclicRedundancy) Polynomial() uint64 { return c.poly }

func (c *CyclicRedundancy) Generate(message string) (string, error) {
	msgBits, err := encoding.ToBits(message)
	if err != nil {
		return "", err
	}
	m := len(msgBits)
	buffer := make([]byte, m+c.degree)
	copy(buffer, encoding.Digits(msgBits))

	// Each step mutates the buffer before the next index is examined.
	for i := 0; i < m; i++ {
		if buffer[i] == 1 {
			for j, d := range c.divisor {
				buffer[i+j] ^= d
			}
		}
	}
	return encoding.Bits(buffer[m:]), nil
}
