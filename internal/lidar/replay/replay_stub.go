//go:build !pcap
// +build !pcap

// Package replay feeds recorded sensor traffic from PCAP files into an HDL
// parser. Replay is offline analysis tooling; live acquisition is out of
// scope for this module.
package replay

import (
	"context"
	"fmt"

	"github.com/banshee-data/velodyne.report/internal/lidar"
	"github.com/banshee-data/velodyne.report/internal/lidar/parse"
)

// PointSink receives each packet's decoded points in arrival order.
type PointSink func(points []lidar.Point)

// ReadPCAPFile is a stub implementation when PCAP support is disabled.
// Build with -tags=pcap to enable PCAP file reading.
func ReadPCAPFile(ctx context.Context, pcapFile string, udpPort int, parser *parse.HDLParser, stats *lidar.PacketStats, sink PointSink) error {
	return fmt.Errorf("PCAP support not enabled: rebuild with -tags=pcap to enable PCAP file reading")
}
