package detection

import (
	"errors"
	"strings"
	"testing"

	"github.com/harlequix/parcheck/internal/encoding"
)

var samples = []string{"", "A", "ab", "Hello", "Test123", "Network", "Hello World", "123456789", "é\x00\x7f"}

func generate(t *testing.T, method Method, message string) string {
	t.Helper()
	control, err := Generate(string(method), message, DefaultOptions())
	if err != nil {
		t.Fatalf("Generate(%s, %q) failed: %v", method, message, err)
	}
	return control
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		method   Method
		message  string
		expected string
	}{
		{Parity, "", "0"},
		{Parity, "A", "0"},
		{Parity, "123456789", "1"},
		{TwoDParity, "", "000000000000"},
		{TwoDParity, "A", "000001000001"},
		{TwoDParity, "ab", "110000000011"},
		{TwoDParity, "Hello", "000000101101"},
		{CRC, "", "00000000"},
		{CRC, "A", "11000000"},
		{CRC, "ab", "11001001"},
		{CRC, "Hello", "11110110"},
		{CRC, "123456789", "11110100"},
		{Hamming, "", ""},
		{Hamming, "A", "1001"},
		{Hamming, "ab", "01011"},
		{Hamming, "Hello", "100111"},
		{Hamming, "123456789", "0001101"},
		{Checksum, "", "ffff"},
		{Checksum, "A", "beff"},
		{Checksum, "ab", "9e9d"},
		{Checksum, "Hello", "dc2d"},
		{Checksum, "123456789", "f62a"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method)+"/"+tt.message, func(t *testing.T) {
			if got := generate(t, tt.method, tt.message); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVerifyAcceptsGenerated(t *testing.T) {
	for _, method := range Methods() {
		for _, msg := range samples {
			control := generate(t, method, msg)
			ok, err := Verify(string(method), msg, control, DefaultOptions())
			if err != nil {
				t.Fatalf("Verify(%s, %q) failed: %v", method, msg, err)
			}
			if !ok {
				t.Errorf("Verify(%s, %q, %q) rejected its own control info", method, msg, control)
			}
		}
	}
}

// mutations returns control info strings that differ from control but keep
// the alphabet of the method.
func mutations(method Method, control string) []string {
	if method == Checksum {
		return []string{"0000", "ffff", "9e9d", "abcd", strings.ToUpper(control)}
	}
	var out []string
	for i := range control {
		b := []byte(control)
		encoding.Flip(b, i)
		out = append(out, string(b))
	}
	return append(out, control+"0", "")
}

func TestVerifyRejectsOtherControlInfo(t *testing.T) {
	for _, method := range Methods() {
		for _, msg := range samples {
			control := generate(t, method, msg)
			for _, other := range mutations(method, control) {
				if other == control {
					continue
				}
				ok, err := Verify(string(method), msg, other, DefaultOptions())
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Errorf("Verify(%s, %q) accepted %q, expected only %q", method, msg, other, control)
				}
			}
		}
	}
}

func TestVerifyIsRegenerateAndCompare(t *testing.T) {
	opts := DefaultOptions()
	for _, method := range Methods() {
		d, err := Lookup(string(method), opts)
		if err != nil {
			t.Fatal(err)
		}
		for _, msg := range samples {
			for _, candidate := range []string{"", "0", "1", "0000", "ffff", "11110110", "100111"} {
				want, _ := d.Generate(msg)
				computed, ok, err := Check(d, msg, candidate)
				if err != nil {
					t.Fatal(err)
				}
				if computed != want {
					t.Errorf("%s: Check(%q) regenerated %q, generate gave %q", method, msg, computed, want)
				}
				if ok != (computed == candidate) {
					t.Errorf("%s: Check(%q, %q) = %v, generate gave %q", method, msg, candidate, ok, computed)
				}
			}
		}
	}
}

func TestDetectsCorruption(t *testing.T) {
	pairs := []struct {
		method             Method
		original, received string
	}{
		{Parity, "Hello", "Hallo"},
		{TwoDParity, "Test123", "Best123"},
		{CRC, "Network", "Netwark"},
		{Hamming, "Test", "Best"},
		{Checksum, "Testing", "Texting"},
	}
	for _, tt := range pairs {
		control := generate(t, tt.method, tt.original)
		ok, err := Verify(string(tt.method), tt.received, control, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Errorf("%s did not detect %q -> %q", tt.method, tt.original, tt.received)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"parity", "Parity", "2d_parity", "crc", "HAMMING", " checksum "} {
		if _, err := Lookup(name, Options{}); err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}
	for _, name := range []string{"", "MD5", "2D-PARITY", "crc32"} {
		d, err := Lookup(name, DefaultOptions())
		if !errors.Is(err, ErrUnknownMethod) {
			t.Errorf("Lookup(%q): expected ErrUnknownMethod, got %v", name, err)
		}
		if d != nil {
			t.Errorf("Lookup(%q) returned a detector", name)
		}
	}
	if _, err := Verify("NOPE", "Hello", "0", DefaultOptions()); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Verify: expected ErrUnknownMethod, got %v", err)
	}
}

func TestLookupMethodNames(t *testing.T) {
	for _, method := range Methods() {
		d, err := Lookup(string(method), DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if d.Method() != method {
			t.Errorf("expected %s, got %s", method, d.Method())
		}
	}
}

func TestGenerateEncodingError(t *testing.T) {
	for _, method := range Methods() {
		_, err := Generate(string(method), "€uro", DefaultOptions())
		if !errors.Is(err, encoding.ErrEncoding) {
			t.Errorf("%s: expected ErrEncoding, got %v", method, err)
		}
		ok, err := Verify(string(method), "€uro", "0", DefaultOptions())
		if ok || err == nil {
			t.Errorf("%s: Verify on unencodable message should fail", method)
		}
	}
}
