package detection

import "github.com/harlequix/parcheck/internal/encoding"

// HammingCode transmits only the redundancy bits of the Hamming codeword
// built from the message. The data bits are not part of the control info, so
// the receiver cannot locate or correct an error; it can only detect that
// the regenerated redundancy bits differ.
type HammingCode struct{}

func (HammingCode) Method() Method { return Hamming }

func (HammingCode) Generate(message string) (string, error) {
	bits, err := encoding.ToBits(message)
	if err != nil {
		return "", err
	}
	return encoding.HammingParity(bits), nil
}
