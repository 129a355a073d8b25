package htu21d

import "testing"

// checksum computes the CRC-8 of the measurement word with generator
// x^8+x^5+x^4+1 and zero initial value, written as the usual shift
// register rather than the driver's long division, so the two
// implementations check each other.
func checksum(value uint16) byte {
	var crc byte
	for _, b := range []byte{byte(value >> 8), byte(value)} {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

var crcWords = []uint16{
	0x0000, 0x0001, 0x0080, 0x4E85, 0x683A, 0x7FFF, 0x8000, 0xA5A5, 0xDCBA, 0xFFFC, 0xFFFF,
}

func TestValidCRC(t *testing.T) {
	for _, word := range crcWords {
		if !validCRC(word, checksum(word)) {
			t.Errorf("correct checksum %#02x rejected for word %#04x", checksum(word), word)
		}
	}
}

func TestValidCRCZeroWord(t *testing.T) {
	// The all-zero message divides exactly; its checksum is zero.
	if got := checksum(0x0000); got != 0 {
		t.Fatalf("checksum(0) = %#02x, want 0", got)
	}
	if !validCRC(0x0000, 0x00) {
		t.Fatal("(0x0000, 0x00) should be valid")
	}
}

func TestValidCRCSingleBitErrors(t *testing.T) {
	// A CRC of this width detects every single bit error, whether it
	// lands in the data word or in the checksum itself.
	for _, word := range crcWords {
		crc := checksum(word)

		for bit := uint(0); bit < 16; bit++ {
			if validCRC(word^1<<bit, crc) {
				t.Errorf("word %#04x with bit %d flipped passed CRC", word, bit)
			}
		}
		for bit := uint(0); bit < 8; bit++ {
			if validCRC(word, crc^1<<bit) {
				t.Errorf("word %#04x with crc bit %d flipped passed CRC", word, bit)
			}
		}
	}
}
