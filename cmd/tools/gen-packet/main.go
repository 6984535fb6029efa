// Command gen-packet synthesizes valid Velodyne HDL packets for testing the
// decoder without a sensor. Packets are written back to back as raw 1206-byte
// records.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"

	"github.com/banshee-data/velodyne.report/internal/lidar/parse"
)

func main() {
	output := flag.String("o", "packets.bin", "output path")
	count := flag.Int("n", 260, "number of packets (260 ≈ one revolution)")
	distance := flag.Uint("distance", 5000, "raw distance for every return (2mm units)")
	intensity := flag.Uint("intensity", 100, "intensity for every return")
	step := flag.Int("step", 12, "base rotation step between blocks (0.01° units)")
	lowerBank := flag.Bool("lower-bank", false, "alternate upper/lower bank headers")
	flag.Parse()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	rotation := 0
	written := 0
	for i := 0; i < *count; i++ {
		pkt := buildPacket(&rotation, *step, uint16(*distance), uint8(*intensity), *lowerBank)
		if _, err := f.Write(pkt); err != nil {
			log.Fatalf("write failed: %v", err)
		}
		written++
		if written%100 == 0 {
			log.Printf("%d/%d packets", written, *count)
		}
	}
	log.Printf("✓ Created: %s (%d packets)", *output, written)
}

// buildPacket assembles one structurally valid packet, advancing the shared
// base rotation across blocks so successive packets continue the sweep.
func buildPacket(rotation *int, step int, distance uint16, intensity uint8, lowerBank bool) []byte {
	data := make([]byte, parse.PACKET_SIZE)
	for block := 0; block < parse.BLOCKS_PER_PACKET; block++ {
		off := block * parse.SIZE_BLOCK

		header := uint16(parse.UPPER_BANK)
		if lowerBank && block%2 == 1 {
			header = parse.LOWER_BANK
		}
		binary.LittleEndian.PutUint16(data[off:], header)
		binary.LittleEndian.PutUint16(data[off+2:], uint16(*rotation))

		recordOff := off + 4
		for record := 0; record < parse.SCANS_PER_BLOCK; record++ {
			binary.LittleEndian.PutUint16(data[recordOff:], distance)
			data[recordOff+2] = intensity
			recordOff += parse.RAW_SCAN_SIZE
		}

		// Bank pairs share a rotation; otherwise each block advances.
		if !lowerBank || block%2 == 1 {
			*rotation = (*rotation + step) % parse.ROTATION_MAX_UNITS
		}
	}
	return data
}
