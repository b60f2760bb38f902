package humanbytes

import (
	"encoding/json"
	"fmt"
)

// Set parses s into b. It makes *ByteSize a flag.Value.
func (b *ByteSize) Set(s string) error {
	n, err := Parse(s)
	if err != nil {
		return err
	}
	*b = n
	return nil
}

// Type names the value in pflag usage output.
func (b *ByteSize) Type() string {
	return "ByteSize"
}

// Scan implements fmt.Scanner.
func (b *ByteSize) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, nil)
	if err != nil {
		return err
	}
	return b.Set(string(token))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	return b.Set(string(text))
}

// UnmarshalJSON accepts either a size string such as "1.5 GB" or an integer
// number of bytes.
func (b *ByteSize) UnmarshalJSON(in []byte) error {
	var s string
	if err := json.Unmarshal(in, &s); err == nil {
		return b.Set(s)
	}
	var n uint64
	if err := json.Unmarshal(in, &n); err != nil {
		return err
	}
	*b = ByteSize(n)
	return nil
}
