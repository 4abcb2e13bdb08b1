package injection

const (
	printableLow  = 33
	printableHigh = 126
)

func printable(src Source) rune {
	return rune(printableLow + src.Intn(printableHigh-printableLow+1))
}

// SubstituteChar replaces one character with a printable ASCII character,
// which may happen to equal the original one.
func SubstituteChar(src Source, message string) string {
	chars := []rune(message)
	if len(chars) == 0 {
		return message
	}
	pos := src.Intn(len(chars))
	chars[pos] = printable(src)
	return string(chars)
}

// DeleteChar removes one character.
func DeleteChar(src Source, message string) string {
	chars := []rune(message)
	if len(chars) == 0 {
		return message
	}
	pos := src.Intn(len(chars))
	return string(chars[:pos]) + string(chars[pos+1:])
}

// InsertChar inserts a printable ASCII character at a position in
// [0, len]. The empty message still receives a character.
func InsertChar(src Source, message string) string {
	chars := []rune(message)
	pos := src.Intn(len(chars) + 1)
	out := make([]rune, 0, len(chars)+1)
	out = append(out, chars[:pos]...)
	out = append(out, printable(src))
	out = append(out, chars[pos:]...)
	return string(out)
}

// SwapChars swaps two adjacent characters. Messages shorter than two
// characters are returned unchanged.
func SwapChars(src Source, message string) string {
	chars := []rune(message)
	if len(chars) < 2 {
		return message
	}
	pos := src.Intn(len(chars) - 1)
	chars[pos], chars[pos+1] = chars[pos+1], chars[pos]
	return string(chars)
}
