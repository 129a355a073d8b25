package htu21d

// crcDivisor is the generator polynomial x^8 + x^5 + x^4 + 1, padded
// with zeroes to align its most significant bit with bit 23 of the 24
// transmitted bits (16 data bits followed by the 8 bit checksum).
const crcDivisor = 0x988000

// validCRC reports whether crc is the correct checksum for the 16 bit
// measurement word, using the long division given in the datasheet.
func validCRC(value uint16, crc byte) bool {
	// Line up the bits of the input in a row, data first, then crc.
	row := uint32(value)<<8 | uint32(crc)

	divisor := uint32(crcDivisor)
	for i := 0; i < 16; i++ {
		// If the input bit above the leftmost divisor bit is 1, the
		// divisor is XORed into the input.
		if row&(1<<uint(23-i)) != 0 {
			row ^= divisor
		}
		divisor >>= 1
	}

	// The remainder is zero if there are no detectable errors.
	return row == 0
}
