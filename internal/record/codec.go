package record

// hexValue returns the value of one hexadecimal digit.
func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// HexByte converts a two character ASCII hex pair (either case) into a byte.
//
// Input that is not a clean hex pair is converted the way strtoul reads it in
// base 16: a leading blank is skipped, a leading sign applies to the digit
// after it (so "-1" is 0xFF), the longest run of hex digits is used and
// anything else yields 0. ok reports whether the pair was clean so callers
// can count the lenient conversions.
func HexByte(hi, lo byte) (value byte, ok bool) {
	h, hok := hexValue(hi)
	l, lok := hexValue(lo)
	switch {
	case hok && lok:
		return h<<4 | l, true
	case hok:
		return h, false
	case (hi == ' ' || hi == '\t' || hi == '+') && lok:
		return l, false
	case hi == '-' && lok:
		return -l, false
	}
	return 0, false
}

// LittleEndian combines width bytes of buf starting at offset into an
// unsigned integer, least significant byte first. Bytes past the end of buf
// read as zero, so short records decode their missing fields as 0.
func LittleEndian(buf []byte, offset, width int) uint64 {
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v <<= 8
		if pos := offset + i; pos >= 0 && pos < len(buf) {
			v |= uint64(buf[pos])
		}
	}
	return v
}
