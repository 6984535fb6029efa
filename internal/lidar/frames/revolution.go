// Package frames assembles per-packet point batches into complete sensor
// revolutions. One revolution is one full 360° turn of the sensor head,
// typically a few hundred packets. Revolution cuts are detected from the
// azimuth stream: points arrive in scan order, so a high-to-low azimuth jump
// marks the start of a new turn.
package frames

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/velodyne.report/internal/lidar"
)

// Revolution detection constants.
const (
	// DefaultMinAzimuthCoverage is the azimuth span (degrees) a revolution
	// must cover before a wrap is accepted as a cut. Guards against false
	// triggers from packet-local azimuth jitter.
	DefaultMinAzimuthCoverage = 340.0

	// DefaultMinRevolutionPoints is the minimum point count before a wrap
	// is accepted as a cut.
	DefaultMinRevolutionPoints = 1000

	// wrapJumpDegrees is the backwards azimuth jump treated as a wrap.
	wrapJumpDegrees = 180.0
)

// Revolution is one assembled turn of the sensor.
type Revolution struct {
	RevolutionID string        // unique identifier for this revolution
	Points       []lidar.Point // all points in scan order
	MinAzimuth   float64       // minimum azimuth observed (degrees)
	MaxAzimuth   float64       // maximum azimuth observed (degrees)
	PacketCount  int           // packets contributing to this revolution
	Complete     bool          // false for a partial revolution emitted by Flush
}

// coverage returns the azimuth span of the revolution in degrees.
func (r *Revolution) coverage() float64 {
	if len(r.Points) == 0 {
		return 0
	}
	return r.MaxAzimuth - r.MinAzimuth
}

// Config configures a RevolutionBuilder.
type Config struct {
	OnRevolution func(*Revolution) // called synchronously for each cut revolution

	MinAzimuthCoverage float64 // default DefaultMinAzimuthCoverage
	MinPoints          int     // default DefaultMinRevolutionPoints
	Debug              bool    // log each completed revolution
}

// RevolutionBuilder accumulates decoded point batches into revolutions.
// Safe for concurrent AddPoints calls, though points from one sensor should
// arrive in packet order for the azimuth cut to be meaningful.
type RevolutionBuilder struct {
	mu          sync.Mutex
	cfg         Config
	current     *Revolution
	lastAzimuth float64 // previous point azimuth, -1 before the first point
}

// NewRevolutionBuilder creates a builder with defaults filled in.
func NewRevolutionBuilder(cfg Config) *RevolutionBuilder {
	if cfg.MinAzimuthCoverage == 0 {
		cfg.MinAzimuthCoverage = DefaultMinAzimuthCoverage
	}
	if cfg.MinPoints == 0 {
		cfg.MinPoints = DefaultMinRevolutionPoints
	}
	return &RevolutionBuilder{
		cfg:         cfg,
		lastAzimuth: -1,
	}
}

// AddPoints appends one packet's worth of decoded points, cutting a
// revolution when the azimuth stream wraps. Points must be in scan order
// within the batch (which Unpack guarantees).
func (rb *RevolutionBuilder) AddPoints(points []lidar.Point) {
	if len(points) == 0 {
		return
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.current == nil {
		rb.startRevolution()
	}
	rb.current.PacketCount++

	for _, pt := range points {
		if rb.shouldCut(pt.Azimuth) {
			rb.finish(true)
			rb.startRevolution()
			rb.current.PacketCount = 1
		}
		rb.addPoint(pt)
		rb.lastAzimuth = pt.Azimuth
	}
}

// Flush emits the in-progress revolution, if any, marked incomplete. Call at
// end of stream so trailing data is not lost.
func (rb *RevolutionBuilder) Flush() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.current != nil && len(rb.current.Points) > 0 {
		rb.finish(false)
	}
	rb.current = nil
	rb.lastAzimuth = -1
}

// shouldCut reports whether a point at the given azimuth starts a new turn.
func (rb *RevolutionBuilder) shouldCut(azimuth float64) bool {
	if rb.lastAzimuth < 0 || len(rb.current.Points) == 0 {
		return false
	}
	if rb.lastAzimuth-azimuth < wrapJumpDegrees {
		return false
	}
	// A large backwards jump is only a revolution boundary once the current
	// revolution holds substantial data; otherwise it is jitter.
	return len(rb.current.Points) >= rb.cfg.MinPoints &&
		rb.current.coverage() >= rb.cfg.MinAzimuthCoverage
}

func (rb *RevolutionBuilder) startRevolution() {
	rb.current = &Revolution{
		RevolutionID: uuid.NewString(),
		Points:       make([]lidar.Point, 0, 4096),
		MinAzimuth:   360.0,
		MaxAzimuth:   0.0,
	}
}

func (rb *RevolutionBuilder) addPoint(pt lidar.Point) {
	r := rb.current
	r.Points = append(r.Points, pt)
	if pt.Azimuth < r.MinAzimuth {
		r.MinAzimuth = pt.Azimuth
	}
	if pt.Azimuth > r.MaxAzimuth {
		r.MaxAzimuth = pt.Azimuth
	}
}

// finish completes the current revolution and hands it to the callback.
func (rb *RevolutionBuilder) finish(complete bool) {
	r := rb.current
	r.Complete = complete
	if rb.cfg.Debug {
		log.Printf("revolution %s: %d points, %d packets, azimuth [%.2f, %.2f], complete=%v",
			r.RevolutionID, len(r.Points), r.PacketCount, r.MinAzimuth, r.MaxAzimuth, complete)
	}
	if rb.cfg.OnRevolution != nil {
		rb.cfg.OnRevolution(r)
	}
	rb.current = nil
}
