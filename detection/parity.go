package detection

import (
	"fmt"
	"strings"

	"github.com/harlequix/parcheck/internal/encoding"
)

// ParityBit is a single even parity bit over the whole message.
type ParityBit struct{}

func (ParityBit) Method() Method { return Parity }

func (ParityBit) Generate(message string) (string, error) {
	bits, err := encoding.ToBits(message)
	if err != nil {
		return "", err
	}
	return string(parityDigit(strings.Count(bits, "1"))), nil
}

// RowColumnParity computes odd row and column parity over a fixed matrix.
// The message bits are zero padded to rows*cols, or truncated to the first
// rows*cols bits. Bits beyond the matrix do not influence the result; the
// sender and the receiver truncate the same way so detection stays symmetric.
type RowColumnParity struct {
	rows int
	cols int
}

func NewTwoDParity(rows, cols int) (*RowColumnParity, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidMatrix, rows, cols)
	}
	return &RowColumnParity{rows: rows, cols: cols}, nil
}

func (p *RowColumnParity) Method() Method { return TwoDParity }

// Dimensions returns rows and columns of the matrix.
func (p *RowColumnParity) Dimensions() (int, int) { return p.rows, p.cols }

func (p *RowColumnParity) Generate(message string) (string, error) {
	bits, err := encoding.ToBits(message)
	if err != nil {
		return "", err
	}
	total := p.rows * p.cols
	if len(bits) < total {
		bits += strings.Repeat("0", total-len(bits))
	} else {
		bits = bits[:total]
	}

	out := make([]byte, 0, p.rows+p.cols)
	for row := 0; row < p.rows; row++ {
		out = append(out, parityDigit(strings.Count(bits[row*p.cols:(row+1)*p.cols], "1")))
	}
	for col := 0; col < p.cols; col++ {
		ones := 0
		for row := 0; row < p.rows; row++ {
			if bits[row*p.cols+col] == encoding.ONE {
				ones++
			}
		}
		out = append(out, parityDigit(ones))
	}
	return string(out), nil
}
