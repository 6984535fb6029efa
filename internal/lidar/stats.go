package lidar

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// PacketStats tracks decode statistics with thread-safe operations.
// The decoder hot path never touches it directly; callers account for each
// packet after Unpack returns, so concurrent decodes contend only here.
type PacketStats struct {
	mu             sync.Mutex
	packetCount    int64
	byteCount      int64
	malformedCount int64
	pointCount     int64
	filteredCount  int64
	skippedCount   int64
	lastReset      time.Time
}

// NewPacketStats creates a new PacketStats instance
func NewPacketStats() *PacketStats {
	return &PacketStats{
		lastReset: time.Now(),
	}
}

// AddPacket increments packet count and byte count
func (ps *PacketStats) AddPacket(bytes int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.packetCount++
	ps.byteCount += int64(bytes)
}

// AddMalformed increments the rejected-packet count
func (ps *PacketStats) AddMalformed() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.malformedCount++
}

// AddPoints increments the emitted point count
func (ps *PacketStats) AddPoints(count int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.pointCount += int64(count)
}

// AddFiltered increments the count of returns dropped by the range filter
func (ps *PacketStats) AddFiltered(count int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.filteredCount += int64(count)
}

// AddSkipped increments the count of returns skipped for a missing or
// disabled calibration channel
func (ps *PacketStats) AddSkipped(count int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.skippedCount += int64(count)
}

// GetAndReset returns current stats and resets counters
func (ps *PacketStats) GetAndReset() (packets, bytes, malformed, points, filtered, skipped int64, duration time.Duration) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := time.Now()
	duration = now.Sub(ps.lastReset)
	packets = ps.packetCount
	bytes = ps.byteCount
	malformed = ps.malformedCount
	points = ps.pointCount
	filtered = ps.filteredCount
	skipped = ps.skippedCount

	ps.packetCount = 0
	ps.byteCount = 0
	ps.malformedCount = 0
	ps.pointCount = 0
	ps.filteredCount = 0
	ps.skippedCount = 0
	ps.lastReset = now

	return
}

// LogStats logs formatted per-second statistics and resets the counters.
func (ps *PacketStats) LogStats() {
	packets, bytes, malformed, points, filtered, skipped, duration := ps.GetAndReset()
	if packets == 0 && malformed == 0 {
		return
	}

	packetsPerSec := float64(packets) / duration.Seconds()
	mbPerSec := float64(bytes) / duration.Seconds() / (1024 * 1024)
	pointsPerSec := float64(points) / duration.Seconds()

	logMsg := fmt.Sprintf("Lidar stats (/sec): %.2f MB, %.1f packets, %s points",
		mbPerSec, packetsPerSec, FormatWithCommas(int64(pointsPerSec)))
	if filtered > 0 {
		logMsg += fmt.Sprintf(", %d out of range", filtered)
	}
	if skipped > 0 {
		logMsg += fmt.Sprintf(", %d unknown channel", skipped)
	}
	if malformed > 0 {
		logMsg += fmt.Sprintf(", %d malformed", malformed)
	}

	log.Print(logMsg)
}

// FormatWithCommas formats a number with thousands separators
func FormatWithCommas(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	result := ""
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(char)
	}
	return result
}
