package lidar

// Point is a single calibrated laser return in sensor-frame Cartesian
// coordinates. Coordinate convention: X=right, Y=forward, Z=up.
type Point struct {
	X float64 // meters
	Y float64 // meters
	Z float64 // meters

	Intensity uint8   // raw reflectivity byte from the wire, unscaled
	Distance  float64 // corrected physical distance in meters
	Azimuth   float64 // corrected azimuth in degrees [0, 360)
	Ring      int     // global laser channel id used for calibration lookup
	BlockID   int     // originating block index within the packet (0-11)
}

// PointCloud is an ordered, append-only collection of calibrated points.
// The caller owns the cloud; decoders only ever append to it. Point order
// matches physical scan order (block order, then record order within a
// block), which downstream revolution assembly depends on.
type PointCloud struct {
	Points []Point
}

// Append adds points to the end of the cloud, preserving order.
func (pc *PointCloud) Append(pts ...Point) {
	pc.Points = append(pc.Points, pts...)
}

// Len returns the number of points currently in the cloud.
func (pc *PointCloud) Len() int {
	return len(pc.Points)
}

// Reset empties the cloud while keeping the allocated backing storage, so a
// caller can reuse one cloud across packets without reallocating.
func (pc *PointCloud) Reset() {
	pc.Points = pc.Points[:0]
}
