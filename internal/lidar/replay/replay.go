//go:build pcap
// +build pcap

// Package replay feeds recorded sensor traffic from PCAP files into an HDL
// parser. Replay is offline analysis tooling; live acquisition is out of
// scope for this module.
package replay

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/banshee-data/velodyne.report/internal/lidar"
	"github.com/banshee-data/velodyne.report/internal/lidar/parse"
)

// PointSink receives each packet's decoded points in arrival order.
type PointSink func(points []lidar.Point)

// ReadPCAPFile decodes every LiDAR packet in a PCAP capture through the
// parser, handing each packet's points to sink. Malformed packets are
// logged, counted and skipped; decoding continues with the next packet.
// This function is only available when building with the 'pcap' build tag.
func ReadPCAPFile(ctx context.Context, pcapFile string, udpPort int, parser *parse.HDLParser, stats *lidar.PacketStats, sink PointSink) error {
	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return fmt.Errorf("failed to open PCAP file %s: %w", pcapFile, err)
	}
	defer handle.Close()

	// Only LiDAR traffic on the sensor's data port is of interest.
	filterStr := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filterStr); err != nil {
		return fmt.Errorf("failed to set BPF filter %q: %w", filterStr, err)
	}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packetCount := 0
	malformed := 0
	startTime := time.Now()

	var cloud lidar.PointCloud
	for {
		select {
		case <-ctx.Done():
			log.Printf("PCAP reader stopping due to context cancellation (processed %d packets)", packetCount)
			return ctx.Err()
		case packet := <-packetSource.Packets():
			if packet == nil {
				// End of PCAP file
				elapsed := time.Since(startTime)
				log.Printf("PCAP replay complete: %d packets (%d malformed) in %v", packetCount, malformed, elapsed)
				return nil
			}

			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue // Skip non-UDP packets (shouldn't happen with BPF filter)
			}
			udp, ok := udpLayer.(*layers.UDP)
			if !ok {
				continue
			}
			payload := udp.Payload
			if len(payload) == 0 {
				continue
			}

			packetCount++
			if stats != nil {
				stats.AddPacket(len(payload))
			}

			cloud.Reset()
			if err := parser.Unpack(payload, &cloud); err != nil {
				// A malformed packet means wire corruption or protocol
				// desync; reject it whole and carry on with the stream.
				malformed++
				if malformed <= 10 {
					log.Printf("error decoding PCAP packet %d: %v", packetCount, err)
				}
				continue
			}

			if sink != nil && cloud.Len() > 0 {
				sink(cloud.Points)
			}
		}
	}
}
