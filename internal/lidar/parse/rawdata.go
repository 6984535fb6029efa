package parse

import (
	"encoding/binary"
	"fmt"
)

// Velodyne HDL packet structure constants.
// These define the fixed format of UDP packets sent by HDL-series sensors.
const (
	PACKET_SIZE        = 1206                                // Fixed UDP payload size in bytes
	BLOCKS_PER_PACKET  = 12                                  // Number of data blocks per packet
	SCANS_PER_BLOCK    = 32                                  // Laser returns per data block
	RAW_SCAN_SIZE      = 3                                   // Return record size: 2 bytes distance + 1 byte intensity
	BLOCK_DATA_SIZE    = SCANS_PER_BLOCK * RAW_SCAN_SIZE     // 96 bytes of return records per block
	SIZE_BLOCK         = 4 + BLOCK_DATA_SIZE                 // 100 bytes: header + rotation + records
	SCANS_PER_PACKET   = SCANS_PER_BLOCK * BLOCKS_PER_PACKET // 384 returns per packet
	PACKET_STATUS_SIZE = 4                                   // Trailing status field size

	// Bank header sentinels, little-endian as transmitted on the wire.
	// Each block carries data from either the upper or the lower laser bank.
	UPPER_BANK = 0xEEFF
	LOWER_BANK = 0xDDFF

	// Physical measurement conversion constants
	ROTATION_RESOLUTION = 0.01  // Rotation unit: hundredths of a degree per LSB
	ROTATION_MAX_UNITS  = 36000 // Maximum rotation value representing 360.00 degrees
	DISTANCE_RESOLUTION = 0.002 // Distance unit: 2mm per LSB (converts raw values to meters)
)

// LaserReturn is one compact 3-byte return record: a 16-bit distance in
// device units and a raw intensity byte. The distance bytes sit misaligned
// within the block, so they are always composed explicitly from two wire
// bytes in little-endian order rather than reinterpreted in place.
type LaserReturn struct {
	Distance  uint16 // Raw distance in 2mm units (0 = no return)
	Intensity uint8  // Laser return intensity (0-255), unscaled
}

// RawBlock is one of 12 data blocks within a packet. Each block carries one
// bank's base rotation and 32 laser returns fired near that rotation.
type RawBlock struct {
	Header   uint16 // UPPER_BANK or LOWER_BANK
	Rotation uint16 // Base rotation, 0-35999 hundredths of a degree
	Returns  [SCANS_PER_BLOCK]LaserReturn
}

// RawPacket is the structural view of one 1206-byte packet. Revolution and
// Status are surfaced as opaque metadata: the device manual describes the
// revolution counter as incrementing per physical turn, but observed units
// alternate between increasing and decreasing sequences, so nothing here
// interprets it.
type RawPacket struct {
	Blocks     [BLOCKS_PER_PACKET]RawBlock
	Revolution uint16
	Status     [PACKET_STATUS_SIZE]byte
}

// DecodePacket interprets a raw byte buffer as an HDL packet. The buffer
// must be exactly PACKET_SIZE bytes and every block header must be one of
// the two bank sentinels; anything else is reported as ErrMalformedPacket
// rather than skipped, since an unknown header means wire corruption or a
// protocol version mismatch. Block order is preserved: blocks interleave
// banks and successive base rotations, and later stages depend on it.
func DecodePacket(data []byte) (*RawPacket, error) {
	if len(data) != PACKET_SIZE {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedPacket, PACKET_SIZE, len(data))
	}

	pkt := &RawPacket{}
	offset := 0
	for i := 0; i < BLOCKS_PER_PACKET; i++ {
		block := &pkt.Blocks[i]

		block.Header = binary.LittleEndian.Uint16(data[offset : offset+2])
		if block.Header != UPPER_BANK && block.Header != LOWER_BANK {
			return nil, fmt.Errorf("%w: block %d header 0x%04X is neither upper (0x%04X) nor lower (0x%04X) bank",
				ErrMalformedPacket, i, block.Header, UPPER_BANK, LOWER_BANK)
		}
		block.Rotation = binary.LittleEndian.Uint16(data[offset+2 : offset+4])

		recordOffset := offset + 4
		for j := 0; j < SCANS_PER_BLOCK; j++ {
			block.Returns[j] = LaserReturn{
				Distance:  binary.LittleEndian.Uint16(data[recordOffset : recordOffset+2]),
				Intensity: data[recordOffset+2],
			}
			recordOffset += RAW_SCAN_SIZE
		}

		offset += SIZE_BLOCK
	}

	pkt.Revolution = binary.LittleEndian.Uint16(data[offset : offset+2])
	copy(pkt.Status[:], data[offset+2:offset+2+PACKET_STATUS_SIZE])

	return pkt, nil
}
