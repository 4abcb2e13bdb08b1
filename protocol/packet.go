// Package protocol frames a message, its detection method and its control
// info as one delimited line of text.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the three fields of a packet.
const Delimiter = "|"

// ErrMalformedPacket indicates a line that does not split into exactly
// three fields.
var ErrMalformedPacket = errors.New("malformed packet")

type Packet struct {
	Data        string `json:"data"`
	Method      string `json:"method"`
	ControlInfo string `json:"control_info"`
}

func NewPacket(data, method, controlInfo string) *Packet {
	return &Packet{
		Data:        data,
		Method:      method,
		ControlInfo: controlInfo,
	}
}

// String renders the packet as DATA|METHOD|CONTROL_INFO.
func (p *Packet) String() string {
	return p.Data + Delimiter + p.Method + Delimiter + p.ControlInfo
}

// Bytes is the wire form of the packet, newline terminated.
func (p *Packet) Bytes() []byte {
	return []byte(p.String() + "\n")
}

// Valid reports whether the packet names a method. Data and control info
// may legitimately be empty.
func (p *Packet) Valid() bool {
	return p != nil && p.Method != ""
}

// ParsePacket parses a packet line. A single trailing newline is ignored.
func ParsePacket(line string) (*Packet, error) {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	parts := strings.Split(line, Delimiter)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedPacket, len(parts))
	}
	return NewPacket(parts[0], parts[1], parts[2]), nil
}

// Validate parses line and reports whether it is a valid packet.
func Validate(line string) bool {
	p, err := ParsePacket(line)
	if err != nil {
		return false
	}
	return p.Valid()
}
