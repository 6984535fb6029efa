// Command pcap-decode replays a PCAP capture of Velodyne HDL traffic through
// the packet decoder and reports decode statistics and distance/intensity
// distributions. Build with -tags=pcap for PCAP support.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/velodyne.report/internal/lidar"
	"github.com/banshee-data/velodyne.report/internal/lidar/calib"
	"github.com/banshee-data/velodyne.report/internal/lidar/frames"
	"github.com/banshee-data/velodyne.report/internal/lidar/parse"
	"github.com/banshee-data/velodyne.report/internal/lidar/replay"
)

func main() {
	pcapFile := flag.String("pcap", "", "PCAP file to replay (required)")
	udpPort := flag.Int("port", 2368, "UDP data port the sensor transmits on")
	model := flag.String("model", "HDL-32E", "sensor model for embedded calibration")
	calibFile := flag.String("calibration", "", "calibration CSV (overrides -model)")
	minRange := flag.Float64("min-range", 0.5, "minimum range in meters")
	maxRange := flag.Float64("max-range", 130.0, "maximum range in meters")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *pcapFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	var (
		cal *calib.Calibration
		err error
	)
	if *calibFile != "" {
		cal, err = calib.LoadFile(*calibFile)
	} else {
		cal, err = calib.LoadEmbedded(*model)
	}
	if err != nil {
		log.Fatalf("failed to load calibration: %v", err)
	}

	parser := parse.NewHDLParser()
	stats := lidar.NewPacketStats()
	parser.SetStats(stats)
	parser.SetDebug(*debug)
	if err := parser.Setup(cal, parse.RangeConfig{MinRange: *minRange, MaxRange: *maxRange}); err != nil {
		log.Fatalf("parser setup failed: %v", err)
	}

	revolutions := 0
	builder := frames.NewRevolutionBuilder(frames.Config{
		OnRevolution: func(r *frames.Revolution) {
			if r.Complete {
				revolutions++
			}
		},
		Debug: *debug,
	})

	var distances, intensities []float64
	sink := func(points []lidar.Point) {
		for _, pt := range points {
			distances = append(distances, pt.Distance)
			intensities = append(intensities, float64(pt.Intensity))
		}
		builder.AddPoints(points)
	}

	if err := replay.ReadPCAPFile(context.Background(), *pcapFile, *udpPort, parser, stats, sink); err != nil {
		log.Fatalf("replay failed: %v", err)
	}
	builder.Flush()

	packets, bytes, malformed, points, filtered, skipped, _ := stats.GetAndReset()
	fmt.Printf("packets:      %s (%s bytes, %d malformed)\n",
		lidar.FormatWithCommas(packets), lidar.FormatWithCommas(bytes), malformed)
	fmt.Printf("points:       %s emitted, %s out of range, %s unknown channel\n",
		lidar.FormatWithCommas(points), lidar.FormatWithCommas(filtered), lidar.FormatWithCommas(skipped))
	fmt.Printf("revolutions:  %d complete\n", revolutions)

	if len(distances) > 0 {
		printDistribution("distance (m)", distances)
		printDistribution("intensity", intensities)
	}
}

// printDistribution prints mean and quantiles for one measurement series.
func printDistribution(name string, values []float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	fmt.Printf("%-13s mean %.2f, p50 %.2f, p95 %.2f, p99 %.2f, max %.2f\n",
		name,
		mean,
		stat.Quantile(0.50, stat.Empirical, sorted, nil),
		stat.Quantile(0.95, stat.Empirical, sorted, nil),
		stat.Quantile(0.99, stat.Empirical, sorted, nil),
		sorted[len(sorted)-1])
}
