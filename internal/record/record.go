// Package record frames and validates the ASCII-hex records emitted by the
// Neptune altimeter.
//
// A record occupies one line of text:
//
//	LL TT D0 D1 ... CC
//
// where LL counts the type byte plus the data bytes, TT is the record type and
// CC is the 8-bit sum of TT and every data byte. Lines starting with '!' are
// comments.
package record

import "fmt"

// Type is the record type code.
type Type byte

// Record types sent by the device.
const (
	TypeVersion          Type = 0 // Version / device info
	TypeJumpSummary      Type = 1 // Jump log summary
	TypeJumpRecord       Type = 2 // One jump log entry
	TypeEndOfData        Type = 3 // End of all data
	TypeStreamType       Type = 4 // Profile data stream type (flight phase marker)
	TypeProfileStart     Type = 5 // Start of a jump profile
	TypeProfileDatapoint Type = 6 // One altitude sample
	TypeEndOfProfile     Type = 7 // End of a jump profile
)

// MaxDataLen is the largest number of data bytes a record can carry.
const MaxDataLen = 254

var typeNames = map[Type]string{
	TypeVersion:          "version",
	TypeJumpSummary:      "jump_summary",
	TypeJumpRecord:       "jump_record",
	TypeEndOfData:        "end_of_data",
	TypeStreamType:       "stream_type",
	TypeProfileStart:     "profile_start",
	TypeProfileDatapoint: "profile_datapoint",
	TypeEndOfProfile:     "end_of_profile",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown_0x%02x", byte(t))
}

// Known reports whether t is one of the record types the device defines.
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// Record is one checksum-valid record.
type Record struct {
	Type Type
	Data []byte
}

// Field reads a little-endian field of width bytes at offset in the data.
func (r Record) Field(offset, width int) uint64 {
	return LittleEndian(r.Data, offset, width)
}

// Byte returns the data byte at offset, or 0 when the record is shorter.
func (r Record) Byte(offset int) byte {
	if offset < 0 || offset >= len(r.Data) {
		return 0
	}
	return r.Data[offset]
}

// Checksum computes the checksum of a record with type t and the given data.
func Checksum(t Type, data []byte) byte {
	sum := byte(t)
	for _, b := range data {
		sum += b
	}
	return sum
}
