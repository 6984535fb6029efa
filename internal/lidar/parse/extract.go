package parse

import (
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/banshee-data/velodyne.report/internal/lidar"
	"github.com/banshee-data/velodyne.report/internal/lidar/calib"
)

// RangeConfig bounds the physical distances the decoder will emit, in
// meters. The window is inclusive on both ends. Immutable after Setup.
type RangeConfig struct {
	MinRange float64
	MaxRange float64
}

// laserCache is the per-channel calibration snapshot with the fixed
// trigonometry precomputed at Setup, so the per-return hot path only pays
// for the azimuth-dependent sin/cos.
type laserCache struct {
	cosVert     float64 // cos of the vertical angle
	sinVert     float64 // sin of the vertical angle
	rotUnits    float64 // rotational correction in hundredths of a degree
	distCorr    float64 // distance correction in meters
	vertOffset  float64 // vertical emitter offset in meters
	horizOffset float64 // horizontal emitter offset in meters
	valid       bool    // false: no calibration entry, returns are skipped
}

// maxDebugLogs caps skipped-channel debug logging per parser lifetime.
const maxDebugLogs = 10

// HDLParser decodes Velodyne HDL packets into calibrated 3D points.
//
// A parser has exactly two states. It starts unconfigured; Setup is the only
// transition to ready, and a failed Setup leaves it unconfigured. Once ready
// the parser is immutable, and Unpack may be called from multiple goroutines
// concurrently provided each call owns its output cloud.
type HDLParser struct {
	ranges      RangeConfig
	lasers      []laserCache
	bankOffsets map[uint16]int // bank header -> global channel base
	ready       bool

	stats       *lidar.PacketStats // optional, nil-safe
	debug       bool
	debugLogged atomic.Int64
}

// NewHDLParser returns an unconfigured parser. Call Setup before Unpack.
func NewHDLParser() *HDLParser {
	return &HDLParser{}
}

// SetStats attaches an optional statistics collector. Counts of emitted,
// range-filtered and unknown-channel returns are recorded per packet after
// decoding completes. Must be called before decoding starts.
func (p *HDLParser) SetStats(stats *lidar.PacketStats) {
	p.stats = stats
}

// SetDebug enables debug logging of skipped returns (capped at a handful of
// messages so a dead channel cannot flood the log).
func (p *HDLParser) SetDebug(enabled bool) {
	p.debug = enabled
}

// Setup configures the parser from a calibration provider and range bounds,
// transitioning it to ready. The provider is snapshotted into a dense
// per-channel table: later provider reloads do not affect this parser, which
// is what makes concurrent Unpack calls safe without locking.
func (p *HDLParser) Setup(provider calib.Provider, ranges RangeConfig) error {
	if p.ready {
		return fmt.Errorf("%w: parser already configured", ErrConfig)
	}
	if provider == nil {
		return fmt.Errorf("%w: nil calibration provider", ErrConfig)
	}
	numLasers := provider.NumLasers()
	if numLasers == 0 {
		return fmt.Errorf("%w: calibration table is empty", ErrConfig)
	}
	if ranges.MinRange < 0 || ranges.MaxRange < 0 {
		return fmt.Errorf("%w: range bounds must be non-negative (min %v, max %v)",
			ErrConfig, ranges.MinRange, ranges.MaxRange)
	}
	if ranges.MinRange > ranges.MaxRange {
		return fmt.Errorf("%w: min range %v exceeds max range %v",
			ErrConfig, ranges.MinRange, ranges.MaxRange)
	}

	lasers := make([]laserCache, numLasers)
	for ch := 0; ch < numLasers; ch++ {
		lc, ok := provider.Lookup(ch)
		if !ok {
			continue // channel stays invalid; its returns are skipped
		}
		vertRad := lc.VertCorrection * math.Pi / 180.0
		lasers[ch] = laserCache{
			cosVert:     math.Cos(vertRad),
			sinVert:     math.Sin(vertRad),
			rotUnits:    lc.RotCorrection / ROTATION_RESOLUTION,
			distCorr:    lc.DistCorrection,
			vertOffset:  lc.VertOffset,
			horizOffset: lc.HorizOffset,
			valid:       true,
		}
	}

	// Bank-to-channel mapping is table-driven from the calibration size so
	// 32- and 64-laser models both resolve: the upper bank starts the
	// channel space and the lower bank occupies the top 32 channels when
	// the table is large enough to have any.
	lowerOffset := numLasers - SCANS_PER_BLOCK
	if lowerOffset < 0 {
		lowerOffset = 0
	}
	p.bankOffsets = map[uint16]int{
		UPPER_BANK: 0,
		LOWER_BANK: lowerOffset,
	}

	p.lasers = lasers
	p.ranges = ranges
	p.ready = true

	log.Printf("HDL parser ready: %d channels, range [%.2f, %.2f] m",
		numLasers, ranges.MinRange, ranges.MaxRange)
	return nil
}

// Unpack decodes one packet and appends the surviving points, in block order
// then record order, to the caller-owned cloud. On any error the cloud is
// left untouched; a malformed packet never yields a partial point set.
// Returns skipped for a missing calibration channel and distances outside
// the configured range window are normal per-return drops, not errors.
func (p *HDLParser) Unpack(data []byte, cloud *lidar.PointCloud) error {
	if !p.ready {
		return fmt.Errorf("%w: call Setup before Unpack", ErrNotReady)
	}

	pkt, err := DecodePacket(data)
	if err != nil {
		if p.stats != nil {
			p.stats.AddMalformed()
		}
		return err
	}

	// Per-block azimuth advance toward the next block, in rotation units.
	// The final block has no successor and extrapolates with the previous
	// delta. Wraparound deltas (e.g. 35990 -> 5) are corrected by a full
	// turn so interpolation runs through the wrap, not backwards across it.
	var deltas [BLOCKS_PER_PACKET]float64
	for i := 0; i < BLOCKS_PER_PACKET-1; i++ {
		d := int(pkt.Blocks[i+1].Rotation) - int(pkt.Blocks[i].Rotation)
		if d < 0 {
			d += ROTATION_MAX_UNITS
		}
		deltas[i] = float64(d)
	}
	deltas[BLOCKS_PER_PACKET-1] = deltas[BLOCKS_PER_PACKET-2]

	// Points buffer locally and append in one shot after the whole packet
	// decodes, keeping the cloud untouched on every error path.
	points := make([]lidar.Point, 0, SCANS_PER_PACKET)
	var filtered, skipped int

	for blockIdx := range pkt.Blocks {
		block := &pkt.Blocks[blockIdx]
		bankOffset := p.bankOffsets[block.Header]

		for recordIdx := 0; recordIdx < SCANS_PER_BLOCK; recordIdx++ {
			ret := block.Returns[recordIdx]
			channel := bankOffset + recordIdx

			var laser *laserCache
			if channel < len(p.lasers) {
				laser = &p.lasers[channel]
			}
			if laser == nil || !laser.valid {
				// A missing calibration entry drops this return only; one
				// dead channel must not cost a whole revolution of data.
				skipped++
				if p.debug && p.debugLogged.Add(1) <= maxDebugLogs {
					log.Printf("skipping return: no calibration for channel %d (block %d record %d)",
						channel, blockIdx, recordIdx)
				}
				continue
			}

			// Range filtering uses the physical distance before calibration
			// correction. Out-of-range returns are expected sensor behaviour
			// (no reflective surface in range), dropped silently.
			rawDistance := float64(ret.Distance) * DISTANCE_RESOLUTION
			if rawDistance < p.ranges.MinRange || rawDistance > p.ranges.MaxRange {
				filtered++
				continue
			}

			distance := rawDistance + laser.distCorr

			// Interpolated azimuth for this record, then the per-channel
			// rotational correction, normalised into [0, 36000).
			azUnits := float64(block.Rotation) + deltas[blockIdx]*float64(recordIdx)/SCANS_PER_BLOCK
			azUnits = math.Mod(azUnits-laser.rotUnits, ROTATION_MAX_UNITS)
			if azUnits < 0 {
				azUnits += ROTATION_MAX_UNITS
			}

			azRad := azUnits * ROTATION_RESOLUTION * math.Pi / 180.0
			cosAz := math.Cos(azRad)
			sinAz := math.Sin(azRad)

			xy := distance * laser.cosVert
			points = append(points, lidar.Point{
				X:         xy*sinAz - laser.horizOffset*cosAz,
				Y:         xy*cosAz + laser.horizOffset*sinAz,
				Z:         distance*laser.sinVert + laser.vertOffset,
				Intensity: ret.Intensity,
				Distance:  distance,
				Azimuth:   azUnits * ROTATION_RESOLUTION,
				Ring:      channel,
				BlockID:   blockIdx,
			})
		}
	}

	cloud.Append(points...)

	if p.stats != nil {
		p.stats.AddPoints(len(points))
		if filtered > 0 {
			p.stats.AddFiltered(filtered)
		}
		if skipped > 0 {
			p.stats.AddSkipped(skipped)
		}
	}

	return nil
}
