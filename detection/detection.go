// Package detection implements the error detection methods used to protect
// a message on an unreliable channel.
//
// Every method derives control info from a message. Verification is always
// regenerate-and-compare: the receiver recomputes the control info from the
// message it got and compares it with the one that was transmitted.
package detection

import (
	"errors"
	"fmt"
	"strings"
)

// Method names a detection method.
type Method string

const (
	Parity     Method = "PARITY"
	TwoDParity Method = "2D_PARITY"
	CRC        Method = "CRC"
	Hamming    Method = "HAMMING"
	Checksum   Method = "CHECKSUM"
)

var (
	// ErrUnknownMethod indicates the method name is not one of Methods().
	ErrUnknownMethod = errors.New("unknown detection method")
	// ErrInvalidPolynomial indicates a CRC generator of degree < 1.
	ErrInvalidPolynomial = errors.New("invalid CRC polynomial")
	// ErrInvalidMatrix indicates non-positive 2D parity dimensions.
	ErrInvalidMatrix = errors.New("invalid parity matrix dimensions")
)

// Detector derives control info from a message.
type Detector interface {
	Method() Method
	// Generate is deterministic. It fails only when the message contains a
	// character that does not fit in one byte.
	Generate(message string) (string, error)
}

// Options carries the deployment owned parameters of the detectors.
type Options struct {
	CRCPolynomial uint64
	MatrixRows    int
	MatrixCols    int
}

const (
	DefaultPolynomial uint64 = 0x107
	DefaultRows              = 4
	DefaultCols              = 8
)

// DefaultOptions returns CRC-8 and a 4x8 parity matrix.
func DefaultOptions() Options {
	return Options{
		CRCPolynomial: DefaultPolynomial,
		MatrixRows:    DefaultRows,
		MatrixCols:    DefaultCols,
	}
}

// Methods returns the closed set of methods in menu order.
func Methods() []Method {
	return []Method{Parity, TwoDParity, CRC, Hamming, Checksum}
}

// ParseMethod resolves name case-insensitively.
func ParseMethod(name string) (Method, error) {
	upper := Method(strings.ToUpper(strings.TrimSpace(name)))
	for _, m := range Methods() {
		if m == upper {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Lookup returns the detector for name. Zero-valued options fall back to
// the defaults.
func Lookup(name string, opts Options) (Detector, error) {
	method, err := ParseMethod(name)
	if err != nil {
		return nil, err
	}
	switch method {
	case Parity:
		return ParityBit{}, nil
	case TwoDParity:
		rows, cols := opts.MatrixRows, opts.MatrixCols
		if rows == 0 && cols == 0 {
			rows, cols = DefaultRows, DefaultCols
		}
		return NewTwoDParity(rows, cols)
	case CRC:
		poly := opts.CRCPolynomial
		if poly == 0 {
			poly = DefaultPolynomial
		}
		return NewCRC(poly)
	case Hamming:
		return HammingCode{}, nil
	case Checksum:
		return InternetChecksum{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Check regenerates the control info for message and compares it with
// controlInfo. This is the only verification algorithm of every method.
// The regenerated control info is returned along with the verdict.
func Check(d Detector, message, controlInfo string) (string, bool, error) {
	computed, err := d.Generate(message)
	if err != nil {
		return "", false, err
	}
	return computed, computed == controlInfo, nil
}

// Generate looks up the method and generates control info for message.
func Generate(method, message string, opts Options) (string, error) {
	d, err := Lookup(method, opts)
	if err != nil {
		return "", err
	}
	return d.Generate(message)
}

// Verify looks up the method and checks controlInfo against message.
func Verify(method, message, controlInfo string, opts Options) (bool, error) {
	d, err := Lookup(method, opts)
	if err != nil {
		return false, err
	}
	_, ok, err := Check(d, message, controlInfo)
	return ok, err
}

func parityDigit(ones int) byte {
	if ones%2 == 1 {
		return '1'
	}
	return '0'
}
