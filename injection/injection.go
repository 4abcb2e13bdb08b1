// Package injection simulates transmission damage on a message.
//
// Every operation returns a new message and never fails: when the damaged
// bits cannot be turned back into characters, or the message cannot be
// represented as bits in the first place, the original message is returned.
// Randomness comes from a caller supplied Source; the package holds no
// state of its own.
package injection

import (
	"errors"
	"fmt"
	"strings"
)

// Source supplies uniform integers in [0, n). *math/rand.Rand satisfies it.
// A Source shared between goroutines must be safe for concurrent use.
type Source interface {
	Intn(n int) int
}

// Type names an injection operation.
type Type string

const (
	BitFlip          Type = "BIT_FLIP"
	CharSubstitution Type = "CHAR_SUBSTITUTION"
	CharDeletion     Type = "CHAR_DELETION"
	CharInsertion    Type = "CHAR_INSERTION"
	CharSwap         Type = "CHAR_SWAP"
	MultipleBitFlips Type = "MULTIPLE_BIT_FLIPS"
	BurstError       Type = "BURST_ERROR"
	NoError          Type = "NO_ERROR"
)

// ErrUnknownInjection indicates the name is not one of Types().
var ErrUnknownInjection = errors.New("unknown injection type")

// Injector damages a message.
type Injector func(src Source, message string) string

// Params tunes the bit level operations.
type Params struct {
	BitFlips      int
	MultipleFlips int
	BurstLength   int
}

const (
	DefaultBitFlips      = 1
	DefaultMultipleFlips = 3
	DefaultBurstLength   = 3
)

func DefaultParams() Params {
	return Params{
		BitFlips:      DefaultBitFlips,
		MultipleFlips: DefaultMultipleFlips,
		BurstLength:   DefaultBurstLength,
	}
}

// Types returns the closed set of injection types in menu order.
func Types() []Type {
	return []Type{BitFlip, CharSubstitution, CharDeletion, CharInsertion, CharSwap, MultipleBitFlips, BurstError, NoError}
}

// ParseType resolves name case-insensitively.
func ParseType(name string) (Type, error) {
	upper := Type(strings.ToUpper(strings.TrimSpace(name)))
	for _, t := range Types() {
		if t == upper {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInjection, name)
}

// Lookup returns the injector for name, bound to params. Params are taken
// as given: zero flips or a zero burst length leave the message unchanged.
// Start from DefaultParams to get the usual counts.
func Lookup(name string, params Params) (Injector, error) {
	t, err := ParseType(name)
	if err != nil {
		return nil, err
	}
	switch t {
	case BitFlip:
		return flips(params.BitFlips), nil
	case CharSubstitution:
		return SubstituteChar, nil
	case CharDeletion:
		return DeleteChar, nil
	case CharInsertion:
		return InsertChar, nil
	case CharSwap:
		return SwapChars, nil
	case MultipleBitFlips:
		return flips(params.MultipleFlips), nil
	case BurstError:
		length := params.BurstLength
		return func(src Source, message string) string {
			return Burst(src, message, length)
		}, nil
	case NoError:
		return Identity, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInjection, name)
}

// Apply looks up name and applies it to message.
func Apply(src Source, name, message string, params Params) (string, error) {
	inject, err := Lookup(name, params)
	if err != nil {
		return message, err
	}
	return inject(src, message), nil
}

func flips(n int) Injector {
	return func(src Source, message string) string {
		return FlipBits(src, message, n)
	}
}

// Identity returns message unchanged.
func Identity(_ Source, message string) string {
	return message
}
