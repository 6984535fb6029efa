// Package calib provides per-laser calibration corrections for spinning
// LiDAR sensors. Calibration accounts for manufacturing tolerances in the
// laser assembly and is applied by the packet decoder before Cartesian
// projection.
package calib

import "fmt"

// LaserCorrection holds the correction parameters for one laser channel.
// Angles are degrees, offsets and distance corrections are meters.
type LaserCorrection struct {
	Channel        int     // global laser channel id (0-based)
	VertCorrection float64 // fixed vertical (elevation) angle of the laser
	RotCorrection  float64 // horizontal angle correction, subtracted from azimuth
	DistCorrection float64 // distance correction added after unit conversion
	VertOffset     float64 // vertical offset of the emitter in the sensor frame
	HorizOffset    float64 // horizontal offset of the emitter in the sensor frame
	Enabled        bool    // false marks a dead or masked channel
}

// Provider is the lookup interface the decoder consumes. Implementations
// must be safe for concurrent reads once handed to a decoder; reloading a
// provider while decodes are in flight is a caller-managed data race.
type Provider interface {
	// Lookup returns the correction for a global channel id, or ok=false
	// when the channel has no calibration entry.
	Lookup(channel int) (LaserCorrection, bool)

	// NumLasers returns the number of channels the table covers.
	NumLasers() int
}

// Calibration is a dense, read-only correction table indexed by channel id.
// Channel ids are small contiguous integers known at load time, so a
// bounds-checked slice beats a map here.
type Calibration struct {
	lasers []LaserCorrection
}

// NewCalibration builds a Calibration from a slice of corrections. Every
// channel in [0, len) must be present exactly once; gaps or duplicates are
// a malformed table.
func NewCalibration(lasers []LaserCorrection) (*Calibration, error) {
	if len(lasers) == 0 {
		return nil, fmt.Errorf("calibration table is empty")
	}

	dense := make([]LaserCorrection, len(lasers))
	seen := make([]bool, len(lasers))
	for _, lc := range lasers {
		if lc.Channel < 0 || lc.Channel >= len(lasers) {
			return nil, fmt.Errorf("channel %d out of range (0-%d)", lc.Channel, len(lasers)-1)
		}
		if seen[lc.Channel] {
			return nil, fmt.Errorf("duplicate calibration entry for channel %d", lc.Channel)
		}
		seen[lc.Channel] = true
		dense[lc.Channel] = lc
	}

	return &Calibration{lasers: dense}, nil
}

// Lookup returns the correction for a channel id, or ok=false when the id is
// outside the table or the channel is disabled.
func (c *Calibration) Lookup(channel int) (LaserCorrection, bool) {
	if channel < 0 || channel >= len(c.lasers) {
		return LaserCorrection{}, false
	}
	lc := c.lasers[channel]
	if !lc.Enabled {
		return LaserCorrection{}, false
	}
	return lc, true
}

// NumLasers returns the number of channels in the table.
func (c *Calibration) NumLasers() int {
	return len(c.lasers)
}
