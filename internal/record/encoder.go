package record

import (
	"fmt"
	"strings"
)

// Encode renders a record as one wire line (without a line terminator).
func Encode(t Type, data []byte) (string, error) {
	if len(data) > MaxDataLen {
		return "", fmt.Errorf("record data too long: %d bytes (max %d)", len(data), MaxDataLen)
	}

	var sb strings.Builder
	sb.Grow((len(data) + 3) * 3)

	fmt.Fprintf(&sb, "%02X %02X", len(data)+1, byte(t))
	for _, b := range data {
		fmt.Fprintf(&sb, " %02X", b)
	}
	fmt.Fprintf(&sb, " %02X", Checksum(t, data))

	return sb.String(), nil
}

// MustEncode is Encode for fixed fixtures; it panics on oversize data.
func MustEncode(t Type, data []byte) string {
	line, err := Encode(t, data)
	if err != nil {
		panic(err)
	}
	return line
}
